package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/infrastructure/config"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// testClient 需要真实Redis，未设置LIBRARY_TEST_REDIS_ADDR时跳过
func testClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("LIBRARY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LIBRARY_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(testClient(t))

	require.NoError(t, store.SaveSession(ctx, "U1", map[string]any{"email": "a@library.org", "role": "STUDENT"}, time.Minute))

	session, err := store.GetSession(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, "STUDENT", session["role"])

	require.NoError(t, store.DeleteSession(ctx, "U1"))
	_, err = store.GetSession(ctx, "U1")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestBlacklist(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(testClient(t))

	revoked, err := store.IsInBlacklist(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.AddToBlacklist(ctx, "token-a", time.Minute))
	revoked, err = store.IsInBlacklist(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	// 已过期的Token不需要拉黑
	require.NoError(t, store.AddToBlacklist(ctx, "token-b", 0))
	revoked, err = store.IsInBlacklist(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestBookCache(t *testing.T) {
	ctx := context.Background()
	client := testClient(t)
	cfg := &config.Config{}
	cfg.Redis.BookCacheTTL = time.Minute
	cache := NewBookCache(client, cfg)

	got, err := cache.Get(ctx, "B1")
	require.NoError(t, err)
	assert.Nil(t, got)

	b := book.NewBook("Dune", "9780441013593", "Frank Herbert", "Ace", "Reference Books", 3)
	b.ID = "B1"
	require.NoError(t, cache.Set(ctx, b))

	got, err = cache.Get(ctx, "B1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, 3, got.Quantity)

	ttl, err := client.TTL(ctx, "book:B1").Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)

	require.NoError(t, cache.Delete(ctx, "B1"))
	got, err = cache.Get(ctx, "B1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// 损坏的缓存视为未命中
	require.NoError(t, client.Set(ctx, "book:B2", "not json", time.Minute).Err())
	got, err = cache.Get(ctx, "B2")
	require.NoError(t, err)
	assert.Nil(t, got)
}
