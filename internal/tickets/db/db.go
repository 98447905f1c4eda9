package db

import (
	"context"

	"github.com/uptrace/bun"

	"ms-booking/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// FindTicketsByUserID returns the user's tickets, oldest first, each with its TicketType loaded.
func (d *DB) FindTicketsByUserID(ctx context.Context, userID int64) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := d.Bun.NewSelect().
		Model(&tickets).
		Relation("TicketType").
		Where("t.user_id = ?", userID).
		Order("t.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (d *DB) CreateTicketType(ctx context.Context, ticketType *models.TicketType) error {
	_, err := d.Bun.NewInsert().Model(ticketType).Returning("id").Exec(ctx)
	return err
}

func (d *DB) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	_, err := d.Bun.NewInsert().Model(ticket).Returning("id").Exec(ctx)
	return err
}
