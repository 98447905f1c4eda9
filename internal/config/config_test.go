package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("KAFKA_ADDR", "")
	t.Setenv("SESSION_CACHE_TTL", "")

	cfg := Load()

	assert.Equal(t, ":4000", cfg.Server.Port)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 10*time.Minute, cfg.Redis.SessionTTL)
	assert.Equal(t, "./migrations", cfg.Database.MigrationsDir)
	assert.Equal(t, []string{"booking.created", "booking.changed"}, cfg.Kafka.Topics.All())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", ":9000")
	t.Setenv("KAFKA_ADDR", "k1:9092, k2:9092,")
	t.Setenv("KAFKA_ENABLED", "false")
	t.Setenv("SESSION_CACHE_TTL", "90s")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("JWT_SECRET", "top-secret")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.Server.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, 90*time.Second, cfg.Redis.SessionTTL)
	assert.Equal(t, 7, cfg.Database.MaxOpenConns)
	assert.Equal(t, "top-secret", cfg.Auth.JWTSecret)
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "many")
	t.Setenv("REDIS_ENABLED", "maybe")
	t.Setenv("SESSION_CACHE_TTL", "soon")

	cfg := Load()

	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Redis.SessionTTL)
}
