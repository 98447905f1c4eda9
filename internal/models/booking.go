package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Booking struct {
	bun.BaseModel `bun:"table:bookings,alias:b"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID    int64     `bun:"user_id,notnull,unique" json:"userId"`
	RoomID    int64     `bun:"room_id,notnull" json:"roomId"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`

	Room *Room `bun:"rel:belongs-to,join:room_id=id" json:"Room,omitempty"`
}

// BookingRequest is the body of POST /booking and PUT /booking/{bookingId}.
// RoomID stays nil when the client omits it.
type BookingRequest struct {
	RoomID *int64 `json:"roomId"`
}

type BookingIDResponse struct {
	BookingID int64 `json:"bookingId"`
}

// BookingView is what GET /booking returns: the booking id and the room it holds.
type BookingView struct {
	ID   int64 `json:"id"`
	Room *Room `json:"Room"`
}

func NewBookingView(b *Booking) BookingView {
	return BookingView{ID: b.ID, Room: b.Room}
}
