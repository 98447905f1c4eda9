package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"ms-booking/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// FindRoomByID returns nil, nil when the room does not exist.
func (d *DB) FindRoomByID(ctx context.Context, roomID int64) (*models.Room, error) {
	var room models.Room
	err := d.Bun.NewSelect().
		Model(&room).
		Where("r.id = ?", roomID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (d *DB) CreateHotel(ctx context.Context, hotel *models.Hotel) error {
	_, err := d.Bun.NewInsert().Model(hotel).Returning("id").Exec(ctx)
	return err
}

func (d *DB) CreateRoom(ctx context.Context, room *models.Room) error {
	_, err := d.Bun.NewInsert().Model(room).Returning("id").Exec(ctx)
	return err
}
