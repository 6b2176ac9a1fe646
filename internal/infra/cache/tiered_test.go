package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akoun-dev/africahub-sub004/internal/infra/memory"
	"github.com/akoun-dev/africahub-sub004/internal/infra/redis"
)

func setupTiered(t *testing.T) (*Tiered, *memory.Cache, *redis.Cache) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	local := memory.New(15*time.Second, 64)
	t.Cleanup(local.Close)

	shared := redis.NewCache(client, zap.NewNop(), "africahub")
	tiered := NewTiered(local, shared, zap.NewNop(), 15*time.Second)

	return tiered, local, shared
}

func TestTiered_SetWritesBothTiers(t *testing.T) {
	tiered, local, shared := setupTiered(t)
	ctx := context.Background()

	require.NoError(t, tiered.Set(ctx, "content:banner:CI:telecom:fr", []byte("v"), time.Minute))

	data, err := local.Get(ctx, "content:banner:CI:telecom:fr")
	require.NoError(t, err)
	assert.NotNil(t, data, "Local tier should hold the value")

	data, err = shared.Get(ctx, "content:banner:CI:telecom:fr")
	require.NoError(t, err)
	assert.NotNil(t, data, "Shared tier should hold the value")
}

func TestTiered_SharedHitBackfillsLocal(t *testing.T) {
	tiered, local, shared := setupTiered(t)
	ctx := context.Background()

	// Value exists only in the shared tier, as if another instance wrote it
	require.NoError(t, shared.Set(ctx, "content:faq:global:general:en", []byte("remote"), time.Minute))

	data, err := tiered.Get(ctx, "content:faq:global:general:en")
	require.NoError(t, err)
	assert.Equal(t, []byte("remote"), data)

	data, err = local.Get(ctx, "content:faq:global:general:en")
	require.NoError(t, err)
	assert.Equal(t, []byte("remote"), data, "Shared hit should backfill the local tier")
}

func TestTiered_MissReturnsNilNil(t *testing.T) {
	tiered, _, _ := setupTiered(t)

	data, err := tiered.Get(context.Background(), "content:missing:global:general:en")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestTiered_DeleteEvictsBothTiers(t *testing.T) {
	tiered, local, shared := setupTiered(t)
	ctx := context.Background()

	require.NoError(t, tiered.Set(ctx, "content:banner:CI:general:fr", []byte("v"), time.Minute))
	require.NoError(t, tiered.Delete(ctx, "content:banner:CI:general:fr"))

	data, _ := local.Get(ctx, "content:banner:CI:general:fr")
	assert.Nil(t, data)
	data, _ = shared.Get(ctx, "content:banner:CI:general:fr")
	assert.Nil(t, data)
}

func TestTiered_DeletePatternEvictsBothTiers(t *testing.T) {
	tiered, local, shared := setupTiered(t)
	ctx := context.Background()

	require.NoError(t, tiered.Set(ctx, "content:banner:CI:telecom:fr", []byte("a"), time.Minute))
	require.NoError(t, tiered.Set(ctx, "content:banner:global:general:en", []byte("b"), time.Minute))
	require.NoError(t, tiered.Set(ctx, "content:other:global:general:fr", []byte("c"), time.Minute))

	require.NoError(t, tiered.DeletePattern(ctx, "content:banner:*"))

	for _, key := range []string{"content:banner:CI:telecom:fr", "content:banner:global:general:en"} {
		data, _ := local.Get(ctx, key)
		assert.Nil(t, data, "local %s", key)
		data, _ = shared.Get(ctx, key)
		assert.Nil(t, data, "shared %s", key)
	}

	data, _ := tiered.Get(ctx, "content:other:global:general:fr")
	assert.NotNil(t, data, "Non-matching keys survive")
}
