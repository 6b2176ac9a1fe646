package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akoun-dev/africahub-sub004/internal/domain"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis, func()) {
	t.Helper()

	// Create an in-memory Redis instance for testing
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		_ = client.Close()
		mr.Close()
	}

	return client, mr, cleanup
}

func TestCache_SetGetRoundTrip(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewCache(client, zap.NewNop(), "africahub")
	ctx := context.Background()

	err := cache.Set(ctx, "content:banner:CI:telecom:fr", []byte(`{"found":true}`), time.Minute)
	require.NoError(t, err)

	data, err := cache.Get(ctx, "content:banner:CI:telecom:fr")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"found":true}`), data)
}

func TestCache_MissReturnsNilNil(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewCache(client, zap.NewNop(), "africahub")

	data, err := cache.Get(context.Background(), "content:nope:global:general:en")
	require.NoError(t, err, "A miss is not an error")
	assert.Nil(t, data)
}

func TestCache_TTLExpiry(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewCache(client, zap.NewNop(), "africahub")
	ctx := context.Background()

	err := cache.Set(ctx, "content:banner:global:general:en", []byte(`{"found":false}`), 30*time.Second)
	require.NoError(t, err)

	// miniredis time is advanced manually
	mr.FastForward(31 * time.Second)

	data, err := cache.Get(ctx, "content:banner:global:general:en")
	require.NoError(t, err)
	assert.Nil(t, data, "Entry should expire after its TTL")
}

func TestCache_KeysAreNamespaced(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewCache(client, zap.NewNop(), "africahub")
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "content:banner:CI:general:fr", []byte("x"), time.Minute))

	assert.True(t, mr.Exists("africahub:content:banner:CI:general:fr"))
	assert.False(t, mr.Exists("content:banner:CI:general:fr"))
}

func TestCache_DeletePattern(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewCache(client, zap.NewNop(), "africahub")
	ctx := context.Background()

	keys := []string{
		"content:banner:CI:telecom:fr",
		"content:banner:CI:general:fr",
		"content:banner:global:general:en",
		"content:other:global:general:fr",
	}
	for _, k := range keys {
		require.NoError(t, cache.Set(ctx, k, []byte("v"), time.Minute))
	}

	err := cache.DeletePattern(ctx, domain.CacheKeyPattern("banner"))
	require.NoError(t, err)

	for _, k := range keys[:3] {
		data, err := cache.Get(ctx, k)
		require.NoError(t, err)
		assert.Nil(t, data, "Key %s should be invalidated", k)
	}

	data, err := cache.Get(ctx, "content:other:global:general:fr")
	require.NoError(t, err)
	assert.NotNil(t, data, "Other content keys must be untouched")
}

func TestCache_DeleteIsIdempotent(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewCache(client, zap.NewNop(), "africahub")
	ctx := context.Background()

	assert.NoError(t, cache.Delete(ctx, "content:banner:CI:telecom:fr"))
	assert.NoError(t, cache.Delete(ctx, "content:banner:CI:telecom:fr"))
}
