//go:build integration

package db_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"ms-booking/internal/booking/db"
	"ms-booking/internal/config"
	"ms-booking/internal/database"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

func startPostgres(t *testing.T) *db.DB {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "booking",
			"POSTGRES_PASSWORD": "booking",
			"POSTGRES_DB":       "booking",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := config.DatabaseConfig{
		DSN:          fmt.Sprintf("postgres://booking:booking@%s:%s/booking?sslmode=disable", host, port.Port()),
		MaxOpenConns: 20,
		MaxIdleConns: 20,
		MaxLifetime:  time.Minute,
		ConnectRetry: 5,
	}
	bunDB, err := database.OpenPostgres(ctx, cfg, logger.NewDiscardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { bunDB.Close() })

	require.NoError(t, database.CreateSchema(ctx, bunDB))
	return &db.DB{Bun: bunDB}
}

func TestPostgresConcurrentCreatesNeverExceedCapacity(t *testing.T) {
	bookingDB := startPostgres(t)
	ctx := context.Background()

	room := &models.Room{Name: "Penthouse", Capacity: 2, HotelID: 1}
	_, err := bookingDB.Bun.NewInsert().Model(room).Exec(ctx)
	require.NoError(t, err)

	const users = 25
	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0

	for i := 1; i <= users; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			err := bookingDB.CreateBooking(ctx, &models.Booking{UserID: userID, RoomID: room.ID}, room.Capacity)
			if err != nil && !errors.Is(err, models.ErrRoomFull) {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}(int64(i))
	}
	wg.Wait()

	count, err := bookingDB.CountBookingsByRoomID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, room.Capacity, count)
	assert.Equal(t, room.Capacity, created)
}
