// Package memory provides the per-instance cache tier. Entries live for a
// short TTL so cross-instance invalidation lag stays bounded even when a
// pub/sub message is missed.
package memory

import (
	"context"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Cache implements the domain.Cache interface with an in-process TTL cache.
// The zero TTL passed to Set is replaced by the configured default.
type Cache struct {
	inner      *ttlcache.Cache[string, []byte]
	defaultTTL time.Duration
}

// New creates a started in-process cache. capacity bounds the entry count;
// the least recently used entry is evicted when it is exceeded.
func New(defaultTTL time.Duration, capacity uint64) *Cache {
	inner := ttlcache.New[string, []byte](
		ttlcache.WithTTL[string, []byte](defaultTTL),
		ttlcache.WithCapacity[string, []byte](capacity),
	)

	// Expired-entry janitor; stopped via Close.
	go inner.Start()

	return &Cache{
		inner:      inner,
		defaultTTL: defaultTTL,
	}
}

// Get retrieves a value by key. Returns nil if the key doesn't exist.
func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	item := c.inner.Get(key)
	if item == nil {
		return nil, nil
	}

	return item.Value(), nil
}

// Set stores a value. The effective TTL is capped at the cache's default so
// the local tier never outlives the shared one.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 || ttl > c.defaultTTL {
		ttl = c.defaultTTL
	}

	c.inner.Set(key, value, ttl)
	return nil
}

// Delete removes a value by key.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.inner.Delete(key)
	return nil
}

// DeletePattern removes every entry whose key matches the glob pattern. Only
// trailing-star patterns are produced by the key scheme, so a prefix scan is
// sufficient.
func (c *Cache) DeletePattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")

	for _, key := range c.inner.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.inner.Delete(key)
		}
	}

	return nil
}

// Close stops the expiration janitor.
func (c *Cache) Close() {
	c.inner.Stop()
}
