package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-booking/internal/database"
	"ms-booking/internal/hotels/db"
	"ms-booking/internal/models"
)

func setupTestDB(t *testing.T) *db.DB {
	bunDB, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { bunDB.Close() })
	require.NoError(t, database.CreateSchema(context.Background(), bunDB))
	return &db.DB{Bun: bunDB}
}

func TestFindRoomByID(t *testing.T) {
	hotelDB := setupTestDB(t)
	ctx := context.Background()

	hotel := &models.Hotel{Name: "Driven Resort", Image: "https://example.com/resort.png"}
	require.NoError(t, hotelDB.CreateHotel(ctx, hotel))

	room := &models.Room{Name: "1020", Capacity: 3, HotelID: hotel.ID}
	require.NoError(t, hotelDB.CreateRoom(ctx, room))

	found, err := hotelDB.FindRoomByID(ctx, room.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 3, found.Capacity)
	assert.Equal(t, hotel.ID, found.HotelID)
}

func TestFindRoomByIDMissing(t *testing.T) {
	hotelDB := setupTestDB(t)

	found, err := hotelDB.FindRoomByID(context.Background(), 0)
	assert.NoError(t, err)
	assert.Nil(t, found)
}
