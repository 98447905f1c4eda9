package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"ms-booking/internal/models"
)

type SessionStore interface {
	FindSessionByToken(ctx context.Context, token string) (*models.Session, error)
}

type BunSessionStore struct {
	Bun *bun.DB
}

func NewBunSessionStore(db *bun.DB) *BunSessionStore {
	return &BunSessionStore{Bun: db}
}

// FindSessionByToken returns nil, nil when no session holds the token.
func (s *BunSessionStore) FindSessionByToken(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	err := s.Bun.NewSelect().
		Model(&session).
		Where("s.token = ?", token).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *BunSessionStore) CreateSession(ctx context.Context, session *models.Session) error {
	_, err := s.Bun.NewInsert().Model(session).Returning("id").Exec(ctx)
	return err
}
