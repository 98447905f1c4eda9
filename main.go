package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"

	"ms-booking/internal/auth"
	"ms-booking/internal/booking"
	"ms-booking/internal/booking/booking_api"
	bookingdb "ms-booking/internal/booking/db"
	bookingkafka "ms-booking/internal/booking/kafka"
	"ms-booking/internal/config"
	"ms-booking/internal/database"
	"ms-booking/internal/database/migrations"
	hotelsdb "ms-booking/internal/hotels/db"
	"ms-booking/internal/kafka"
	"ms-booking/internal/logger"
	"ms-booking/internal/payment/storage"
	ticketsdb "ms-booking/internal/tickets/db"
)

func connectRedis(cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	if !cfg.Enabled {
		log.Info("REDIS", "Session cache disabled")
		return nil
	}
	client, err := auth.InitializeRedis(cfg.Addr, log)
	if err != nil {
		log.Warn("REDIS", fmt.Sprintf("Continuing without session cache: %v", err))
		return nil
	}
	return client
}

func setupKafka(cfg config.KafkaConfig, log *logger.Logger) *kafka.Producer {
	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info("KAFKA", "Booking events disabled")
		return nil
	}

	log.Info("KAFKA", fmt.Sprintf("Using Kafka brokers: %v", cfg.Brokers))
	if err := kafka.EnsureTopicsExist(cfg.Brokers, cfg.Topics.All(), log); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	} else {
		log.Info("KAFKA", "Required topics ensured successfully")
	}
	return kafka.NewProducer(cfg.Brokers)
}

func tokenVerifier(ctx context.Context, cfg config.AuthConfig, log *logger.Logger) auth.TokenVerifier {
	if cfg.OIDCIssuer != "" {
		verifier, err := auth.NewOIDCVerifier(ctx, cfg.OIDCIssuer)
		if err != nil {
			log.Fatal("AUTH", err.Error())
		}
		log.Info("AUTH", fmt.Sprintf("Verifying bearer tokens against OIDC issuer %s", cfg.OIDCIssuer))
		return verifier
	}
	if cfg.JWTSecret == "" {
		log.Fatal("CONFIG", "JWT_SECRET not set")
	}
	log.Info("AUTH", "Verifying bearer tokens with JWT_SECRET")
	return auth.NewJWTVerifier(cfg.JWTSecret)
}

func runMigrations(bunDB *bun.DB, cfg config.DatabaseConfig, log *logger.Logger) {
	runner := migrations.NewRunner(bunDB, migrations.MigrateOptions{
		MigrationsDir: cfg.MigrationsDir,
		AutoMigrate:   cfg.AutoMigrate,
	}, log)
	// the runner is not closed: closing the migrator closes the shared *sql.DB
	if err := runner.RunMigrations(); err != nil {
		log.Fatal("MIGRATE", fmt.Sprintf("Failed to run migrations: %v", err))
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println(".env file not found, using environment variables")
	}

	cfg := config.Load()

	log := logger.NewLogger(cfg.Log.Dir, cfg.Log.Service)
	log.SetLevel(cfg.Log.Level)
	defer log.Close()

	log.Info("APP", "Starting Booking Service initialization")
	ctx := context.Background()

	bunDB, err := database.OpenPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	defer bunDB.Close()

	runMigrations(bunDB, cfg.Database, log)

	redisClient := connectRedis(cfg.Redis, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var events booking.EventPublisher
	if producer := setupKafka(cfg.Kafka, log); producer != nil {
		defer producer.Close()
		events = bookingkafka.NewProducer(producer, cfg.Kafka.Topics, log)
	}

	bookingService := booking.NewBookingService(
		&ticketsdb.DB{Bun: bunDB},
		storage.NewBunStore(bunDB),
		&hotelsdb.DB{Bun: bunDB},
		&bookingdb.DB{Bun: bunDB},
		events,
		log,
	)
	handler := booking_api.NewHandler(bookingService, bunDB, log)

	var sessionCache *auth.SessionCache
	if redisClient != nil {
		sessionCache = auth.NewSessionCache(redisClient, cfg.Redis.SessionTTL)
	}
	authMiddleware := auth.Middleware(tokenVerifier(ctx, cfg.Auth, log), auth.NewBunSessionStore(bunDB), sessionCache, log)

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(logger.Middleware(log))

	r.Get("/health", handler.Health)
	r.Mount("/booking", handler.Routes(authMiddleware))
	log.Info("ROUTER", "Booking routes registered under /booking")

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("Booking Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("APP", "Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP", fmt.Sprintf("Graceful shutdown failed: %v", err))
	}
	log.Info("APP", "Server stopped")
}
