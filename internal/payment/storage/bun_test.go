package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-booking/internal/database"
	"ms-booking/internal/models"
	"ms-booking/internal/payment/storage"
)

func newStore(t *testing.T) *storage.BunStore {
	bunDB, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { bunDB.Close() })
	require.NoError(t, database.CreateSchema(context.Background(), bunDB))
	return storage.NewBunStore(bunDB)
}

func TestFindPaymentByTicketID(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	payment := &models.Payment{TicketID: 11, Value: 600, CardIssuer: "VISA", CardLastDigits: "4242"}
	require.NoError(t, store.SavePayment(ctx, payment))
	assert.NotZero(t, payment.ID)

	found, err := store.FindPaymentByTicketID(ctx, 11)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, payment.ID, found.ID)
	assert.Equal(t, "4242", found.CardLastDigits)
}

func TestFindPaymentByTicketIDUnpaid(t *testing.T) {
	store := newStore(t)

	found, err := store.FindPaymentByTicketID(context.Background(), 12)
	assert.NoError(t, err)
	assert.Nil(t, found)
}
