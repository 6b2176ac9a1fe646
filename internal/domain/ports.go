package domain

import (
	"context"
	"time"
)

// ContentStore defines persistence for content records and their version
// log. Implementations: internal/infra/postgres/repository.go.
//
// The store is the single source of truth. It enforces the active-record
// uniqueness invariant and the optimistic-concurrency check itself; callers
// never coordinate writes among themselves.
type ContentStore interface {
	// FindCandidates returns every published, non-expired record sharing
	// the content key and language, across all country/sector
	// specializations. The result feeds the resolver.
	FindCandidates(ctx context.Context, contentKey, language string) ([]*ContentRecord, error)

	// GetByID retrieves a record by its ID. Returns NotFoundError if absent.
	GetByID(ctx context.Context, id string) (*ContentRecord, error)

	// Create persists a new record at version 1 and writes its first
	// version snapshot. Returns ConflictError when a non-archived record
	// with the same specialization tuple already exists.
	Create(ctx context.Context, rec *ContentRecord) (*ContentRecord, error)

	// Update applies the patch to the record identified by id, provided its
	// current version equals expectedVersion, then bumps the version and
	// appends a snapshot in the same transaction. Returns ConflictError on
	// a stale expectedVersion and NotFoundError on an unknown id.
	Update(ctx context.Context, id string, patch ContentPatch, expectedVersion int) (*ContentRecord, error)

	// Delete hard-deletes the record. Version history is retained for
	// audit. Reports whether a row was affected.
	Delete(ctx context.Context, id string) (bool, error)

	// ListVersions returns the record's version log, newest first.
	ListVersions(ctx context.Context, contentID string) ([]*ContentVersion, error)

	// Restore overwrites the live record's content-bearing fields from the
	// snapshot at targetVersion, bumps the version to current-max+1, and
	// appends a fresh snapshot of the restored state. The target version's
	// own row is never mutated. Returns NotFoundError for an unknown id or
	// version.
	Restore(ctx context.Context, contentID string, targetVersion int, actor string) (*ContentRecord, error)
}

// Cache defines the resolved-content cache. Implementations:
// internal/infra/redis/cache.go, internal/infra/memory/cache.go, and the
// tiered composite in internal/infra/cache.
//
// The cache holds only derived, disposable copies; it is never a source of
// truth, and every operation is safe for concurrent use.
type Cache interface {
	// Get retrieves a value by key. Returns (nil, nil) on a miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key. Removing an absent key is a no-op, not an
	// error, so at-least-once invalidation delivery stays idempotent.
	Delete(ctx context.Context, key string) error

	// DeletePattern evicts all keys matching a glob pattern, e.g. every
	// locale of one content key.
	DeletePattern(ctx context.Context, pattern string) error
}

// EventPublisher emits content change events to all cache replicas.
// Implementation: internal/infra/redis/pubsub.go.
type EventPublisher interface {
	Publish(ctx context.Context, event ChangeEvent) error
}

// AnalyticsStore persists per-day view counters. Implementation:
// internal/infra/postgres/analytics.go.
type AnalyticsStore interface {
	// RecordView increments the counter for (contentID, country, sector,
	// day) by one, creating the row on first view.
	RecordView(ctx context.Context, contentID string, country, sector *string, day time.Time) error

	// TopCounters returns the highest-viewed counters for a day, for the
	// dashboard-facing stats endpoint.
	TopCounters(ctx context.Context, day time.Time, limit int) ([]*AnalyticsCounter, error)

	// PruneBefore deletes counters older than the cutoff day and reports
	// how many rows were removed.
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
