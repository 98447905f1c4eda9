package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Hotel struct {
	bun.BaseModel `bun:"table:hotels,alias:h"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Image     string    `bun:"image" json:"image"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`

	Rooms []*Room `bun:"rel:has-many,join:id=hotel_id" json:"Rooms,omitempty"`
}

// Room is a bookable unit; Capacity is the maximum number of simultaneous bookings.
type Room struct {
	bun.BaseModel `bun:"table:rooms,alias:r"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Capacity  int       `bun:"capacity,notnull" json:"capacity"`
	HotelID   int64     `bun:"hotel_id,notnull" json:"hotelId"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}
