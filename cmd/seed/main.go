package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"

	"ms-booking/internal/auth"
	"ms-booking/internal/config"
	"ms-booking/internal/database"
	"ms-booking/internal/database/migrations"
	hotelsdb "ms-booking/internal/hotels/db"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/payment/storage"
	ticketsdb "ms-booking/internal/tickets/db"
)

// seed fills a development database with one paid hotel-ticket holder, a hotel with rooms of
// capacity 1 to 3 and a session, then prints the bearer token for that user.
func seed(ctx context.Context, db *bun.DB, secret, email string) (string, error) {
	user := &models.User{Email: email}
	if _, err := db.NewInsert().Model(user).Returning("id").Exec(ctx); err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}

	tickets := &ticketsdb.DB{Bun: db}
	withHotel := &models.TicketType{Name: "Presencial + Hotel", Price: 600, IncludesHotel: true}
	remote := &models.TicketType{Name: "Online", Price: 100, IsRemote: true}
	for _, tt := range []*models.TicketType{withHotel, remote} {
		if err := tickets.CreateTicketType(ctx, tt); err != nil {
			return "", fmt.Errorf("insert ticket type: %w", err)
		}
	}

	ticket := &models.Ticket{UserID: user.ID, TicketTypeID: withHotel.ID, Status: models.TicketStatusPaid}
	if err := tickets.CreateTicket(ctx, ticket); err != nil {
		return "", fmt.Errorf("insert ticket: %w", err)
	}
	payment := &models.Payment{TicketID: ticket.ID, Value: withHotel.Price, CardIssuer: "VISA", CardLastDigits: "4242"}
	if err := storage.NewBunStore(db).SavePayment(ctx, payment); err != nil {
		return "", fmt.Errorf("insert payment: %w", err)
	}

	hotels := &hotelsdb.DB{Bun: db}
	hotel := &models.Hotel{Name: "Driven Resort", Image: "https://example.com/hotel.jpg"}
	if err := hotels.CreateHotel(ctx, hotel); err != nil {
		return "", fmt.Errorf("insert hotel: %w", err)
	}
	for i, capacity := range []int{1, 2, 3} {
		room := &models.Room{Name: fmt.Sprintf("%d0%d", i+1, i+1), Capacity: capacity, HotelID: hotel.ID}
		if err := hotels.CreateRoom(ctx, room); err != nil {
			return "", fmt.Errorf("insert room: %w", err)
		}
	}

	token, err := auth.SignToken(secret, user.ID, 24*time.Hour)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	if err := auth.NewBunSessionStore(db).CreateSession(ctx, &models.Session{UserID: user.ID, Token: token}); err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	return token, nil
}

func main() {
	reset := flag.Bool("reset", false, "roll back every migration before seeding")
	email := flag.String("email", fmt.Sprintf("guest-%d@example.com", time.Now().Unix()), "email of the seeded user")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Println(".env file not found, using environment variables")
	}
	cfg := config.Load()

	log := logger.NewLogger(cfg.Log.Dir, "booking-seed")
	defer log.Close()

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("CONFIG", "JWT_SECRET not set")
	}

	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	defer db.Close()

	runner := migrations.NewRunner(db, migrations.MigrateOptions{
		MigrationsDir: cfg.Database.MigrationsDir,
		AutoMigrate:   true,
	}, log)
	if *reset {
		log.Warn("MIGRATE", "Rolling back all migrations")
		if err := runner.MigrateDown(); err != nil {
			log.Fatal("MIGRATE", err.Error())
		}
	}
	if err := runner.RunMigrations(); err != nil {
		log.Fatal("MIGRATE", err.Error())
	}

	token, err := seed(ctx, db, cfg.Auth.JWTSecret, *email)
	if err != nil {
		log.Fatal("SEED", err.Error())
	}
	log.Info("SEED", "Seed data inserted")
	fmt.Printf("Authorization: Bearer %s\n", token)
}
