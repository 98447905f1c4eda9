package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"ms-booking/internal/models"
)

var _ Store = (*BunStore)(nil)

type BunStore struct {
	Bun *bun.DB
}

func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{Bun: db}
}

func (s *BunStore) FindPaymentByTicketID(ctx context.Context, ticketID int64) (*models.Payment, error) {
	var payment models.Payment
	err := s.Bun.NewSelect().
		Model(&payment).
		Where("p.ticket_id = ?", ticketID).
		Order("p.id ASC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *BunStore) SavePayment(ctx context.Context, payment *models.Payment) error {
	_, err := s.Bun.NewInsert().Model(payment).Returning("id").Exec(ctx)
	return err
}
