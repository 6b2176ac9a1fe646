// Package cache composes the in-process and shared cache tiers behind the
// single domain.Cache port the resolution service talks to.
package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/akoun-dev/africahub-sub004/internal/domain"
)

// Tiered reads through a fast local tier into the shared tier. Writes and
// invalidations fan out to both.
//
// The local tier carries its own short TTL; a value backfilled from the
// shared tier can therefore survive locally for at most that long after a
// remote invalidation this instance never saw.
type Tiered struct {
	local    domain.Cache
	shared   domain.Cache
	logger   *zap.Logger
	localTTL time.Duration
}

// NewTiered composes the two tiers. localTTL bounds how long a backfilled
// entry may lag behind a shared-tier invalidation.
func NewTiered(local, shared domain.Cache, logger *zap.Logger, localTTL time.Duration) *Tiered {
	return &Tiered{
		local:    local,
		shared:   shared,
		logger:   logger,
		localTTL: localTTL,
	}
}

// Get checks the local tier first, then the shared tier, backfilling the
// local tier on a shared hit. A local-tier error never masks the shared
// tier.
func (t *Tiered) Get(ctx context.Context, key string) ([]byte, error) {
	if data, err := t.local.Get(ctx, key); err == nil && data != nil {
		return data, nil
	}

	data, err := t.shared.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	if err := t.local.Set(ctx, key, data, t.localTTL); err != nil {
		t.logger.Warn("local tier backfill failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}

	return data, nil
}

// Set writes both tiers. The shared-tier write decides the outcome; the
// local copy is best-effort.
func (t *Tiered) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := t.local.Set(ctx, key, value, ttl); err != nil {
		t.logger.Warn("local tier set failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}

	return t.shared.Set(ctx, key, value, ttl)
}

// Delete removes the key from both tiers.
func (t *Tiered) Delete(ctx context.Context, key string) error {
	if err := t.local.Delete(ctx, key); err != nil {
		t.logger.Warn("local tier delete failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}

	return t.shared.Delete(ctx, key)
}

// DeletePattern invalidates the pattern on both tiers.
func (t *Tiered) DeletePattern(ctx context.Context, pattern string) error {
	if err := t.local.DeletePattern(ctx, pattern); err != nil {
		t.logger.Warn("local tier pattern delete failed",
			zap.String("pattern", pattern),
			zap.Error(err),
		)
	}

	return t.shared.DeletePattern(ctx, pattern)
}
