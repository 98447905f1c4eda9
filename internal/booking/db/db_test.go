package db_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"ms-booking/internal/booking/db"
	"ms-booking/internal/database"
	"ms-booking/internal/models"
)

func setupTestDB(t *testing.T) (*db.DB, *bun.DB) {
	bunDB, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}
	if err := database.CreateSchema(context.Background(), bunDB); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	t.Cleanup(func() { bunDB.Close() })
	return &db.DB{Bun: bunDB}, bunDB
}

func createRoom(t *testing.T, bunDB *bun.DB, capacity int) *models.Room {
	t.Helper()
	room := &models.Room{Name: "Suite", Capacity: capacity, HotelID: 1}
	_, err := bunDB.NewInsert().Model(room).Exec(context.Background())
	require.NoError(t, err)
	return room
}

func TestCreateAndFindBooking(t *testing.T) {
	bookingDB, bunDB := setupTestDB(t)
	ctx := context.Background()
	room := createRoom(t, bunDB, 2)

	booking := &models.Booking{UserID: 1, RoomID: room.ID}
	require.NoError(t, bookingDB.CreateBooking(ctx, booking, room.Capacity))
	assert.NotZero(t, booking.ID)

	found, err := bookingDB.FindBookingByUserID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, booking.ID, found.ID)
	require.NotNil(t, found.Room)
	assert.Equal(t, room.ID, found.Room.ID)
	assert.Equal(t, "Suite", found.Room.Name)

	count, err := bookingDB.CountBookingsByRoomID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	bookings, err := bookingDB.FindBookingsByRoomID(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestFindBookingByUserIDNone(t *testing.T) {
	bookingDB, _ := setupTestDB(t)

	found, err := bookingDB.FindBookingByUserID(context.Background(), 42)
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestCreateBookingRoomFull(t *testing.T) {
	bookingDB, bunDB := setupTestDB(t)
	ctx := context.Background()
	room := createRoom(t, bunDB, 1)

	require.NoError(t, bookingDB.CreateBooking(ctx, &models.Booking{UserID: 1, RoomID: room.ID}, room.Capacity))

	err := bookingDB.CreateBooking(ctx, &models.Booking{UserID: 2, RoomID: room.ID}, room.Capacity)
	assert.ErrorIs(t, err, models.ErrRoomFull)

	count, err := bookingDB.CountBookingsByRoomID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCreateBookingAlreadyBooked(t *testing.T) {
	bookingDB, bunDB := setupTestDB(t)
	ctx := context.Background()
	first := createRoom(t, bunDB, 3)
	second := createRoom(t, bunDB, 3)

	require.NoError(t, bookingDB.CreateBooking(ctx, &models.Booking{UserID: 1, RoomID: first.ID}, first.Capacity))

	err := bookingDB.CreateBooking(ctx, &models.Booking{UserID: 1, RoomID: second.ID}, second.Capacity)
	assert.ErrorIs(t, err, models.ErrAlreadyBooked)
}

func TestCreateBookingMissingRoom(t *testing.T) {
	bookingDB, _ := setupTestDB(t)

	err := bookingDB.CreateBooking(context.Background(), &models.Booking{UserID: 1, RoomID: 404}, 1)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, models.ErrRoomFull))
}

func TestUpdateBookingRoom(t *testing.T) {
	bookingDB, bunDB := setupTestDB(t)
	ctx := context.Background()
	from := createRoom(t, bunDB, 1)
	to := createRoom(t, bunDB, 1)

	booking := &models.Booking{UserID: 1, RoomID: from.ID}
	require.NoError(t, bookingDB.CreateBooking(ctx, booking, from.Capacity))

	require.NoError(t, bookingDB.UpdateBookingRoom(ctx, booking.ID, to.ID, to.Capacity))

	found, err := bookingDB.FindBookingByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, to.ID, found.RoomID)

	fromCount, _ := bookingDB.CountBookingsByRoomID(ctx, from.ID)
	toCount, _ := bookingDB.CountBookingsByRoomID(ctx, to.ID)
	assert.Equal(t, 0, fromCount)
	assert.Equal(t, 1, toCount)
}

func TestUpdateBookingRoomFull(t *testing.T) {
	bookingDB, bunDB := setupTestDB(t)
	ctx := context.Background()
	from := createRoom(t, bunDB, 1)
	to := createRoom(t, bunDB, 1)

	mine := &models.Booking{UserID: 1, RoomID: from.ID}
	require.NoError(t, bookingDB.CreateBooking(ctx, mine, from.Capacity))
	require.NoError(t, bookingDB.CreateBooking(ctx, &models.Booking{UserID: 2, RoomID: to.ID}, to.Capacity))

	err := bookingDB.UpdateBookingRoom(ctx, mine.ID, to.ID, to.Capacity)
	assert.ErrorIs(t, err, models.ErrRoomFull)

	found, err := bookingDB.FindBookingByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, from.ID, found.RoomID)
}

func TestUpdateBookingIntoOwnRoomAtCapacity(t *testing.T) {
	bookingDB, bunDB := setupTestDB(t)
	ctx := context.Background()
	room := createRoom(t, bunDB, 1)

	booking := &models.Booking{UserID: 1, RoomID: room.ID}
	require.NoError(t, bookingDB.CreateBooking(ctx, booking, room.Capacity))

	require.NoError(t, bookingDB.UpdateBookingRoom(ctx, booking.ID, room.ID, room.Capacity))

	count, err := bookingDB.CountBookingsByRoomID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUpdateBookingRoomUnknownBooking(t *testing.T) {
	bookingDB, bunDB := setupTestDB(t)
	room := createRoom(t, bunDB, 2)

	err := bookingDB.UpdateBookingRoom(context.Background(), 999, room.ID, room.Capacity)
	assert.Error(t, err)
}

func TestConcurrentCreatesNeverExceedCapacity(t *testing.T) {
	bookingDB, bunDB := setupTestDB(t)
	ctx := context.Background()
	room := createRoom(t, bunDB, 3)

	const users = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	created, full := 0, 0

	for i := 1; i <= users; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			err := bookingDB.CreateBooking(ctx, &models.Booking{UserID: userID, RoomID: room.ID}, room.Capacity)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, models.ErrRoomFull):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(i))
	}
	wg.Wait()

	assert.Equal(t, room.Capacity, created)
	assert.Equal(t, users-room.Capacity, full)

	count, err := bookingDB.CountBookingsByRoomID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, room.Capacity, count)
}
