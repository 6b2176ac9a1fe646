package locker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisLocker implements DistributedLocker on Redsync, which implements the
// Redlock algorithm for distributed mutual exclusion.
type RedisLocker struct {
	rs      *redsync.Redsync
	logger  *zap.Logger
	mutexes map[string]*redsync.Mutex
	mu      sync.Mutex
}

// NewRedisLocker creates a new Redis-based distributed locker.
func NewRedisLocker(client *redis.Client, logger *zap.Logger) *RedisLocker {
	pool := goredis.NewPool(client)

	return &RedisLocker{
		rs:      redsync.New(pool),
		logger:  logger,
		mutexes: make(map[string]*redsync.Mutex),
	}
}

// Acquire attempts to take the lock without blocking. Contention returns
// (false, nil); only transport-level failures are errors.
func (r *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	mutex := r.rs.NewMutex(
		key,
		redsync.WithExpiry(ttl),
		redsync.WithTries(1),
	)

	if err := mutex.LockContext(ctx); err != nil {
		// Redsync reports contention either as ErrFailed or as a wrapped
		// "lock already taken" error depending on the node responses.
		if err == redsync.ErrFailed || strings.Contains(err.Error(), "lock already taken") {
			r.logger.Debug("lock already held by another instance",
				zap.String("key", key),
			)
			return false, nil
		}

		return false, fmt.Errorf("acquire lock %s: %w", key, err)
	}

	r.mu.Lock()
	r.mutexes[key] = mutex
	r.mu.Unlock()

	r.logger.Debug("lock acquired",
		zap.String("key", key),
		zap.Duration("ttl", ttl),
	)

	return true, nil
}

// Release releases the lock if this instance owns it. Redsync verifies the
// holder token internally, so releasing someone else's lock is impossible.
func (r *RedisLocker) Release(ctx context.Context, key string) error {
	r.mu.Lock()
	mutex, exists := r.mutexes[key]
	if exists {
		delete(r.mutexes, key)
	}
	r.mu.Unlock()

	if !exists {
		r.logger.Debug("lock not owned by this instance",
			zap.String("key", key),
		)
		return nil
	}

	ok, err := mutex.UnlockContext(ctx)
	if err != nil {
		return fmt.Errorf("release lock %s: %w", key, err)
	}

	if !ok {
		r.logger.Debug("lock already expired",
			zap.String("key", key),
		)
	}

	return nil
}
