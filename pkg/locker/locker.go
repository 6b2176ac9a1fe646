// Package locker provides distributed locking for coordinating background
// work across service instances.
package locker

import (
	"context"
	"time"
)

// DistributedLocker provides distributed lock capabilities across multiple
// instances. Implementations must be safe for concurrent use.
//
// Typical usage:
//
//	acquired, err := locker.Acquire(ctx, "my-lock", 5*time.Minute)
//	if err != nil {
//	    return err
//	}
//	if !acquired {
//	    // Another instance holds the lock
//	    return nil
//	}
//	defer locker.Release(ctx, "my-lock")
type DistributedLocker interface {
	// Acquire attempts to take the lock identified by key. Returns true if
	// acquired, false if another instance holds it. The lock expires after
	// ttl if not released; pick the ttl per purpose (operation timeout for
	// mutual exclusion, cooldown period for rate limiting).
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release releases the lock identified by key. Calling it without
	// owning the lock is a no-op, not an error.
	Release(ctx context.Context, key string) error
}
