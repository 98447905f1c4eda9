package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"ms-booking/internal/logger"
)

// InitializeRedis sets up the Redis client backing the session cache and tests the connection
func InitializeRedis(redisAddr string, customLogger *logger.Logger) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: "", // no password
		DB:       0,  // use default DB
		PoolSize: 10, // connection pool size
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		customLogger.Error("AUTH", fmt.Sprintf("Failed to connect to Redis at %s: %v", redisAddr, err))
		redisClient.Close()
		return nil, err
	}

	customLogger.Info("AUTH", fmt.Sprintf("Successfully connected to Redis at %s for session caching", redisAddr))
	return redisClient, nil
}
