package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Payment settles a ticket. Only its existence matters to bookings.
type Payment struct {
	bun.BaseModel `bun:"table:payments,alias:p"`

	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	TicketID       int64     `bun:"ticket_id,notnull" json:"ticketId"`
	Value          int       `bun:"value,notnull" json:"value"`
	CardIssuer     string    `bun:"card_issuer,notnull" json:"cardIssuer"`
	CardLastDigits string    `bun:"card_last_digits,notnull" json:"cardLastDigits"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}
