package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "session:"

// SessionCache remembers which user a verified session token belongs to, so repeated requests
// skip the sessions table. Tokens are stored hashed.
type SessionCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewSessionCache(client *redis.Client, ttl time.Duration) *SessionCache {
	return &SessionCache{Client: client, TTL: ttl}
}

func sessionKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return sessionKeyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached user id, or ok=false on a miss.
func (c *SessionCache) Get(ctx context.Context, token string) (int64, bool, error) {
	if c == nil || c.Client == nil {
		return 0, false, nil
	}

	val, err := c.Client.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return 0, false, nil
	} else if err != nil {
		return 0, false, fmt.Errorf("failed to get session from Redis: %w", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt cached session: %w", err)
	}
	return userID, true, nil
}

func (c *SessionCache) Set(ctx context.Context, token string, userID int64) error {
	if c == nil || c.Client == nil {
		return nil
	}
	if err := c.Client.Set(ctx, sessionKey(token), strconv.FormatInt(userID, 10), c.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store session in Redis: %w", err)
	}
	return nil
}

func (c *SessionCache) Delete(ctx context.Context, token string) error {
	if c == nil || c.Client == nil {
		return nil
	}
	return c.Client.Del(ctx, sessionKey(token)).Err()
}
