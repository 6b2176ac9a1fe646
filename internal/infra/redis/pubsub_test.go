package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akoun-dev/africahub-sub004/internal/domain"
)

const testChannel = "content:changes"

func TestPublisher_SubscriberRoundTrip(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	var mu sync.Mutex
	var received []domain.ChangeEvent

	sub := NewSubscriber(client, zap.NewNop(), testChannel, func(_ context.Context, ev domain.ChangeEvent) {
		mu.Lock()
		received = append(received, ev)
		mu.Unlock()
	})

	require.NoError(t, sub.Start(context.Background()))
	defer func() { _ = sub.Stop() }()

	country := "CI"
	pub := NewPublisher(client, zap.NewNop(), testChannel)
	err := pub.Publish(context.Background(), domain.ChangeEvent{
		Action:     domain.ActionUpdated,
		ContentKey: "welcome-banner",
		Country:    &country,
		Language:   "fr",
		OccurredAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, 2*time.Second, 10*time.Millisecond, "Subscriber should receive the published event")

	mu.Lock()
	defer mu.Unlock()
	ev := received[0]
	assert.Equal(t, domain.ActionUpdated, ev.Action)
	assert.Equal(t, "welcome-banner", ev.ContentKey)
	require.NotNil(t, ev.Country)
	assert.Equal(t, "CI", *ev.Country)
	assert.Nil(t, ev.Sector)

	key, ok := ev.CacheKey()
	require.True(t, ok)
	assert.Equal(t, "content:welcome-banner:CI:general:fr", key)
}

func TestSubscriber_DropsMalformedPayload(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	var mu sync.Mutex
	var count int

	sub := NewSubscriber(client, zap.NewNop(), testChannel, func(_ context.Context, _ domain.ChangeEvent) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	require.NoError(t, sub.Start(context.Background()))
	defer func() { _ = sub.Stop() }()

	require.NoError(t, client.Publish(context.Background(), testChannel, "not json").Err())

	pub := NewPublisher(client, zap.NewNop(), testChannel)
	require.NoError(t, pub.Publish(context.Background(), domain.ChangeEvent{
		Action:     domain.ActionDeleted,
		ContentKey: "faq",
		OccurredAt: time.Now().UTC(),
	}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	}, 2*time.Second, 10*time.Millisecond, "Only the well-formed event should be handled")
}

func TestSubscriber_StartStopIdempotent(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	sub := NewSubscriber(client, zap.NewNop(), testChannel, func(_ context.Context, _ domain.ChangeEvent) {})

	require.NoError(t, sub.Start(context.Background()))
	require.NoError(t, sub.Start(context.Background()), "Second start is a no-op")
	require.NoError(t, sub.Stop())
	require.NoError(t, sub.Stop(), "Second stop is a no-op")
}
