package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"ms-booking/internal/config"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

// Models lists every table in creation order; drops run in reverse.
var Models = []interface{}{
	(*models.User)(nil),
	(*models.Session)(nil),
	(*models.TicketType)(nil),
	(*models.Ticket)(nil),
	(*models.Payment)(nil),
	(*models.Hotel)(nil),
	(*models.Room)(nil),
	(*models.Booking)(nil),
}

// OpenPostgres connects with retries, the way the service waits for a database container to come up.
func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*bun.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN not set")
	}

	attempts := cfg.ConnectRetry
	if attempts < 1 {
		attempts = 1
	}

	var sqldb *sql.DB
	var err error
	for i := 0; i < attempts; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, attempts))
		sqldb, err = sql.Open("postgres", cfg.DSN)
		if err == nil {
			err = sqldb.PingContext(ctx)
			if err == nil {
				break
			}
			sqldb.Close()
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < attempts-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect to postgres after %d attempts: %w", attempts, err)
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)

	log.Info("DATABASE", "PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// OpenSQLite opens a single-connection sqlite database. ":memory:" gives every caller a fresh database.
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}
	sqldb.SetMaxOpenConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

func CreateSchema(ctx context.Context, db bun.IDB) error {
	for _, m := range Models {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", m, err)
		}
	}
	return nil
}

func DropSchema(ctx context.Context, db bun.IDB) error {
	for i := len(Models) - 1; i >= 0; i-- {
		if _, err := db.NewDropTable().Model(Models[i]).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("drop table for %T: %w", Models[i], err)
		}
	}
	return nil
}
