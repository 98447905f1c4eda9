package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a Redis client backed by miniredis
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		mr.Close()
		t.Fatalf("Failed to connect to miniredis: %v", err)
	}

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func TestSessionCache_SetGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewSessionCache(client, time.Minute)
	ctx := context.Background()

	_, hit, err := cache.Get(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(ctx, "token-a", 7))

	userID, hit, err := cache.Get(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(7), userID)

	// the raw token never appears in a key
	for _, key := range mr.Keys() {
		assert.NotContains(t, key, "token-a")
		assert.Contains(t, key, sessionKeyPrefix)
	}
}

func TestSessionCache_Expiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewSessionCache(client, 10*time.Second)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "token-a", 7))
	mr.FastForward(11 * time.Second)

	_, hit, err := cache.Get(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestSessionCache_Delete(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewSessionCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "token-a", 7))
	require.NoError(t, cache.Delete(ctx, "token-a"))

	_, hit, err := cache.Get(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestSessionCache_NilIsNoop(t *testing.T) {
	var cache *SessionCache
	ctx := context.Background()

	assert.NoError(t, cache.Set(ctx, "token-a", 7))
	_, hit, err := cache.Get(ctx, "token-a")
	assert.NoError(t, err)
	assert.False(t, hit)
}

func TestSessionCache_CorruptValue(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewSessionCache(client, time.Minute)

	require.NoError(t, mr.Set(sessionKey("token-a"), "not-a-number"))

	_, _, err := cache.Get(context.Background(), "token-a")
	assert.Error(t, err)
}
