package storage

import (
	"context"

	"ms-booking/internal/models"
)

type Store interface {
	// FindPaymentByTicketID returns nil, nil when the ticket has not been paid.
	FindPaymentByTicketID(ctx context.Context, ticketID int64) (*models.Payment, error)
	SavePayment(ctx context.Context, payment *models.Payment) error
}
