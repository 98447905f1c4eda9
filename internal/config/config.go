package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	DSN           string
	MaxOpenConns  int
	MaxIdleConns  int
	MaxLifetime   time.Duration
	ConnectRetry  int
	AutoMigrate   bool
	MigrationsDir string
}

type RedisConfig struct {
	Addr       string
	Enabled    bool
	SessionTTL time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Enabled bool
	Topics  TopicConfig
}

type TopicConfig struct {
	BookingCreated string
	BookingChanged string
}

// All returns every topic the service publishes to.
func (t TopicConfig) All() []string {
	return []string{t.BookingCreated, t.BookingChanged}
}

type AuthConfig struct {
	JWTSecret  string
	OIDCIssuer string
}

type LogConfig struct {
	Dir     string
	Level   string
	Service string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", ":4000"),
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:           getEnv("POSTGRES_DSN", ""),
			MaxOpenConns:  getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:  getEnvInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:   time.Duration(getEnvInt("DB_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
			ConnectRetry:  getEnvInt("DB_CONNECT_RETRIES", 5),
			AutoMigrate:   getEnvBool("AUTO_MIGRATE", true),
			MigrationsDir: getEnv("MIGRATIONS_DIR", "./migrations"),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", "localhost:6379"),
			Enabled:    getEnvBool("REDIS_ENABLED", true),
			SessionTTL: getEnvDuration("SESSION_CACHE_TTL", 10*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_ADDR", []string{"localhost:9092"}),
			Enabled: getEnvBool("KAFKA_ENABLED", true),
			Topics: TopicConfig{
				BookingCreated: getEnv("KAFKA_TOPIC_BOOKING_CREATED", "booking.created"),
				BookingChanged: getEnv("KAFKA_TOPIC_BOOKING_CHANGED", "booking.changed"),
			},
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", ""),
			OIDCIssuer: getEnv("OIDC_ISSUER", ""),
		},
		Log: LogConfig{
			Dir:     getEnv("LOG_DIR", "logs"),
			Level:   getEnv("LOG_LEVEL", "INFO"),
			Service: getEnv("SERVICE_NAME", "booking-service"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, e.g. KAFKA_ADDR=broker1:9092,broker2:9092
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
