package models

import (
	"time"

	"github.com/uptrace/bun"
)

type TicketStatus string

const (
	TicketStatusReserved TicketStatus = "RESERVED"
	TicketStatusPaid     TicketStatus = "PAID"
)

type TicketType struct {
	bun.BaseModel `bun:"table:ticket_types,alias:tt"`

	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	Name          string    `bun:"name,notnull" json:"name"`
	Price         int       `bun:"price,notnull" json:"price"`
	IsRemote      bool      `bun:"is_remote,notnull" json:"isRemote"`
	IncludesHotel bool      `bun:"includes_hotel,notnull" json:"includesHotel"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

type Ticket struct {
	bun.BaseModel `bun:"table:tickets,alias:t"`

	ID           int64        `bun:"id,pk,autoincrement" json:"id"`
	UserID       int64        `bun:"user_id,notnull" json:"userId"`
	TicketTypeID int64        `bun:"ticket_type_id,notnull" json:"ticketTypeId"`
	Status       TicketStatus `bun:"status,notnull" json:"status"`
	CreatedAt    time.Time    `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt    time.Time    `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`

	TicketType *TicketType `bun:"rel:belongs-to,join:ticket_type_id=id" json:"TicketType,omitempty"`
}

// IncludesHotel reports whether the ticket's type grants hotel accommodation.
func (t Ticket) IncludesHotel() bool {
	return t.TicketType != nil && t.TicketType.IncludesHotel
}
