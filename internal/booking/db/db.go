package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"ms-booking/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- READS ----------------

// FindBookingByUserID → the user's current booking with its room, or nil when there is none
func (d *DB) FindBookingByUserID(ctx context.Context, userID int64) (*models.Booking, error) {
	var booking models.Booking
	err := d.Bun.NewSelect().
		Model(&booking).
		Relation("Room").
		Where("b.user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindBookingsByRoomID → every booking that currently occupies the room
func (d *DB) FindBookingsByRoomID(ctx context.Context, roomID int64) ([]models.Booking, error) {
	var bookings []models.Booking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Where("b.room_id = ?", roomID).
		Order("b.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (d *DB) CountBookingsByRoomID(ctx context.Context, roomID int64) (int, error) {
	return d.Bun.NewSelect().
		Model((*models.Booking)(nil)).
		Where("room_id = ?", roomID).
		Count(ctx)
}

// ---------------- GUARDED WRITES ----------------

// CreateBooking inserts the booking unless the user already holds one (models.ErrAlreadyBooked)
// or the room already has capacity bookings (models.ErrRoomFull). The check and the insert share
// one transaction that holds a lock on the room row.
func (d *DB) CreateBooking(ctx context.Context, booking *models.Booking, capacity int) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := d.lockRoom(ctx, tx, booking.RoomID); err != nil {
			return err
		}

		exists, err := tx.NewSelect().
			Model((*models.Booking)(nil)).
			Where("user_id = ?", booking.UserID).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("check existing booking: %w", err)
		}
		if exists {
			return models.ErrAlreadyBooked
		}

		occupied, err := tx.NewSelect().
			Model((*models.Booking)(nil)).
			Where("room_id = ?", booking.RoomID).
			Count(ctx)
		if err != nil {
			return fmt.Errorf("count room bookings: %w", err)
		}
		if occupied >= capacity {
			return models.ErrRoomFull
		}

		now := time.Now().UTC()
		booking.CreatedAt = now
		booking.UpdatedAt = now
		if _, err := tx.NewInsert().Model(booking).Returning("id").Exec(ctx); err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		return nil
	})
}

// UpdateBookingRoom repoints the booking to roomID. The booking itself is not counted against the
// target room, so moving into the room it already holds never fails for capacity.
func (d *DB) UpdateBookingRoom(ctx context.Context, bookingID, roomID int64, capacity int) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := d.lockRoom(ctx, tx, roomID); err != nil {
			return err
		}

		occupied, err := tx.NewSelect().
			Model((*models.Booking)(nil)).
			Where("room_id = ?", roomID).
			Where("id != ?", bookingID).
			Count(ctx)
		if err != nil {
			return fmt.Errorf("count room bookings: %w", err)
		}
		if occupied >= capacity {
			return models.ErrRoomFull
		}

		res, err := tx.NewUpdate().
			Model((*models.Booking)(nil)).
			Set("room_id = ?", roomID).
			Set("updated_at = ?", time.Now().UTC()).
			Where("id = ?", bookingID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update booking: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("update booking %d: %w", bookingID, sql.ErrNoRows)
		}
		return nil
	})
}

// lockRoom takes a row lock on the room for the rest of the transaction. Sqlite has no FOR UPDATE;
// its single writer already serialises the transaction.
func (d *DB) lockRoom(ctx context.Context, tx bun.Tx, roomID int64) error {
	q := tx.NewSelect().
		Model((*models.Room)(nil)).
		Column("id").
		Where("r.id = ?", roomID)
	if d.Bun.Dialect().Name() == dialect.PG {
		q = q.For("UPDATE")
	}

	var id int64
	if err := q.Scan(ctx, &id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("room %d: %w", roomID, sql.ErrNoRows)
		}
		return fmt.Errorf("lock room %d: %w", roomID, err)
	}
	return nil
}
