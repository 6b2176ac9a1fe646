// Package service provides application use cases.
package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/akoun-dev/africahub-sub004/internal/domain"
)

// PurgeNotifier pushes change events to downstream HTTP consumers.
// Implementation: internal/infra/webhook.
type PurgeNotifier interface {
	Notify(ctx context.Context, event domain.ChangeEvent)
}

// Options carries the tunables of the resolution service.
type Options struct {
	// CacheEnabled short-circuits all cache interaction when false.
	CacheEnabled bool

	// ResolveTTL is the lifetime of a cached successful resolution.
	ResolveTTL time.Duration

	// NegativeTTL is the lifetime of a cached miss. It is deliberately
	// short: it bounds how long a newly published record can stay
	// invisible behind a stale negative entry.
	NegativeTTL time.Duration

	// CacheOpTimeout caps each cache round trip so a slow cache degrades
	// to a store read instead of stalling the request.
	CacheOpTimeout time.Duration

	// StoreTimeout caps content store reads and writes.
	StoreTimeout time.Duration

	// PublishTimeout caps the invalidation broadcast.
	PublishTimeout time.Duration
}

// cachedResolution is the envelope written to the cache. Found=false entries
// are negative cache hits: the absence of matching content is itself cached.
type cachedResolution struct {
	Found  bool                  `json:"found"`
	Record *domain.ContentRecord `json:"record,omitempty"`
}

// ResolutionService orchestrates resolution and content lifecycle: cache in
// front, store as source of truth, invalidation fan-out after every
// mutation, view counting on the side.
type ResolutionService struct {
	store     domain.ContentStore
	cache     domain.Cache
	publisher domain.EventPublisher
	analytics domain.AnalyticsStore
	notifier  PurgeNotifier
	logger    *zap.Logger
	opts      Options
}

// NewResolutionService creates a new ResolutionService. notifier may be nil
// when no webhook endpoints are configured.
func NewResolutionService(
	store domain.ContentStore,
	cache domain.Cache,
	publisher domain.EventPublisher,
	analytics domain.AnalyticsStore,
	notifier PurgeNotifier,
	logger *zap.Logger,
	opts Options,
) *ResolutionService {
	return &ResolutionService{
		store:     store,
		cache:     cache,
		publisher: publisher,
		analytics: analytics,
		notifier:  notifier,
		logger:    logger,
		opts:      opts,
	}
}

// Resolve returns the most specific published record for the lookup, or
// (nil, nil) when nothing matches: a miss is a normal empty result, not an
// error. Cache errors degrade to a store read; a definitive "nothing
// matches" is cached negatively.
func (s *ResolutionService) Resolve(ctx context.Context, lookup domain.Lookup) (*domain.ContentRecord, error) {
	if err := validateLookup(&lookup); err != nil {
		return nil, err
	}

	key := domain.CacheKey(lookup)

	if rec, found, hit := s.cacheLookup(ctx, key); hit {
		if !found {
			return nil, nil
		}
		s.recordView(ctx, rec, lookup)
		return rec, nil
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	candidates, err := s.store.FindCandidates(storeCtx, lookup.ContentKey, lookup.Language)
	if err != nil {
		s.logger.Error("candidate load failed",
			zap.String("content_key", lookup.ContentKey),
			zap.Error(err),
		)

		return nil, &domain.DependencyError{Dependency: "postgres", Err: err}
	}

	rec := domain.Resolve(lookup, candidates)
	if rec == nil {
		s.cacheStore(ctx, key, cachedResolution{Found: false}, s.opts.NegativeTTL)
		return nil, nil
	}

	if ttl := s.positiveTTL(rec); ttl > 0 {
		s.cacheStore(ctx, key, cachedResolution{Found: true, Record: rec}, ttl)
	}
	s.recordView(ctx, rec, lookup)

	return rec, nil
}

// positiveTTL caps the cached lifetime of a hit at the record's expiry.
// Time-based expiry emits no invalidation event, so an entry that outlived
// its record's eligibility window would never be corrected before ResolveTTL.
func (s *ResolutionService) positiveTTL(rec *domain.ContentRecord) time.Duration {
	ttl := s.opts.ResolveTTL
	if rec.ExpiresAt != nil {
		if remaining := time.Until(*rec.ExpiresAt); remaining < ttl {
			ttl = remaining
		}
	}
	return ttl
}

// GetContent retrieves a record by ID, bypassing the cache. Editorial reads
// must always see the latest version.
func (s *ResolutionService) GetContent(ctx context.Context, id string) (*domain.ContentRecord, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	return s.store.GetByID(storeCtx, id)
}

// CreateContent persists a new record and invalidates its content key.
func (s *ResolutionService) CreateContent(ctx context.Context, rec *domain.ContentRecord) (*domain.ContentRecord, error) {
	if rec.Status == "" {
		rec.Status = domain.StatusDraft
	}
	if err := validateRecord(rec); err != nil {
		return nil, err
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	created, err := s.store.Create(storeCtx, rec)
	if err != nil {
		return nil, err
	}

	s.logger.Info("content created",
		zap.String("id", created.ID),
		zap.String("content_key", created.ContentKey),
		zap.String("status", string(created.Status)),
	)

	s.afterMutation(ctx, domain.EventForRecord(domain.ActionCreated, created))

	return created, nil
}

// UpdateContent applies a patch under the optimistic concurrency check and
// invalidates the record's content key.
func (s *ResolutionService) UpdateContent(ctx context.Context, id string, patch domain.ContentPatch, expectedVersion int) (*domain.ContentRecord, error) {
	if expectedVersion < 1 {
		return nil, &domain.ValidationError{Field: "expected_version", Message: "must be at least 1"}
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, &domain.ValidationError{Field: "status", Message: "unknown status"}
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	updated, err := s.store.Update(storeCtx, id, patch, expectedVersion)
	if err != nil {
		return nil, err
	}

	s.logger.Info("content updated",
		zap.String("id", updated.ID),
		zap.Int("version", updated.Version),
	)

	s.afterMutation(ctx, domain.EventForRecord(domain.ActionUpdated, updated))

	return updated, nil
}

// DeleteContent removes the record; its version history is retained.
func (s *ResolutionService) DeleteContent(ctx context.Context, id string) error {
	storeCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	// Load first: the invalidation event needs the record's dimensions.
	rec, err := s.store.GetByID(storeCtx, id)
	if err != nil {
		return err
	}

	deleted, err := s.store.Delete(storeCtx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return &domain.NotFoundError{Resource: "content", ID: id}
	}

	s.logger.Info("content deleted",
		zap.String("id", id),
		zap.String("content_key", rec.ContentKey),
	)

	s.afterMutation(ctx, domain.EventForRecord(domain.ActionDeleted, rec))

	return nil
}

// ListVersions returns the record's version log, newest first.
func (s *ResolutionService) ListVersions(ctx context.Context, contentID string) ([]*domain.ContentVersion, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	return s.store.ListVersions(storeCtx, contentID)
}

// RestoreVersion rolls the record's content forward to a copy of an earlier
// version and invalidates its content key.
func (s *ResolutionService) RestoreVersion(ctx context.Context, contentID string, targetVersion int, actor string) (*domain.ContentRecord, error) {
	if targetVersion < 1 {
		return nil, &domain.ValidationError{Field: "version", Message: "must be at least 1"}
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	restored, err := s.store.Restore(storeCtx, contentID, targetVersion, actor)
	if err != nil {
		return nil, err
	}

	s.logger.Info("content restored",
		zap.String("id", restored.ID),
		zap.Int("restored_from", targetVersion),
		zap.Int("version", restored.Version),
	)

	s.afterMutation(ctx, domain.EventForRecord(domain.ActionRestored, restored))

	return restored, nil
}

// InvalidateContentCache is the administrative cache bust. With all
// dimensions present it evicts the one derived key; otherwise it evicts
// every locale of the content key.
func (s *ResolutionService) InvalidateContentCache(ctx context.Context, lookup domain.Lookup, exact bool) error {
	if lookup.ContentKey == "" {
		return &domain.ValidationError{Field: "content_key", Message: "is required"}
	}

	event := domain.ChangeEvent{
		Action:     domain.ActionPurged,
		ContentKey: lookup.ContentKey,
		Country:    lookup.Country,
		Sector:     lookup.Sector,
		OccurredAt: time.Now().UTC(),
	}
	if exact {
		event.Language = lookup.Language
	}

	s.afterMutation(ctx, event)

	return nil
}

// afterMutation evicts the shared cache and broadcasts the event. It never
// fails the calling mutation: when the broadcast cannot go out, local
// eviction plus the TTL backstop bound the staleness window.
func (s *ResolutionService) afterMutation(ctx context.Context, event domain.ChangeEvent) {
	if s.opts.CacheEnabled {
		cacheCtx, cancel := context.WithTimeout(ctx, s.opts.CacheOpTimeout)
		defer cancel()

		var err error
		if key, ok := event.CacheKey(); ok && event.Action == domain.ActionPurged {
			err = s.cache.Delete(cacheCtx, key)
		} else {
			err = s.cache.DeletePattern(cacheCtx, event.CacheKeyPattern())
		}
		if err != nil {
			s.logger.Warn("cache invalidation failed",
				zap.String("content_key", event.ContentKey),
				zap.Error(err),
			)
		}
	}

	pubCtx, cancel := context.WithTimeout(ctx, s.opts.PublishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, event); err != nil {
		s.logger.Warn("invalidation broadcast failed, relying on TTL expiry",
			zap.String("content_key", event.ContentKey),
			zap.String("action", string(event.Action)),
			zap.Error(err),
		)
	}

	if s.notifier != nil {
		// Downstream purge is fire-and-forget; detach from the request.
		go s.notifier.Notify(context.WithoutCancel(ctx), event)
	}
}

// cacheLookup returns (record, found, hit). hit=false means miss or cache
// failure; both fall through to the store.
func (s *ResolutionService) cacheLookup(ctx context.Context, key string) (*domain.ContentRecord, bool, bool) {
	if !s.opts.CacheEnabled {
		return nil, false, false
	}

	cacheCtx, cancel := context.WithTimeout(ctx, s.opts.CacheOpTimeout)
	defer cancel()

	data, err := s.cache.Get(cacheCtx, key)
	if err != nil {
		s.logger.Warn("cache read failed, falling back to store",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, false, false
	}
	if data == nil {
		return nil, false, false
	}

	var envelope cachedResolution
	if err := json.Unmarshal(data, &envelope); err != nil {
		s.logger.Warn("dropping undecodable cache entry",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, false, false
	}

	// A positive entry may outlast its record's eligibility window. Treat
	// it as a miss so the store re-decides.
	if envelope.Found && (envelope.Record == nil || !envelope.Record.Resolvable(time.Now().UTC())) {
		return nil, false, false
	}

	return envelope.Record, envelope.Found, true
}

// cacheStore writes the envelope, best-effort.
func (s *ResolutionService) cacheStore(ctx context.Context, key string, envelope cachedResolution, ttl time.Duration) {
	if !s.opts.CacheEnabled {
		return
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		s.logger.Error("cache envelope encoding failed", zap.Error(err))
		return
	}

	cacheCtx, cancel := context.WithTimeout(ctx, s.opts.CacheOpTimeout)
	defer cancel()

	if err := s.cache.Set(cacheCtx, key, data, ttl); err != nil {
		s.logger.Warn("cache write failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// recordView counts the resolution asynchronously. Counting must never slow
// down or fail a read, so the write detaches from the request context.
// A nil rec counts the miss against no record and is skipped.
func (s *ResolutionService) recordView(ctx context.Context, rec *domain.ContentRecord, lookup domain.Lookup) {
	if s.analytics == nil || rec == nil {
		return
	}

	viewCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.StoreTimeout)

	go func() {
		defer cancel()

		err := s.analytics.RecordView(viewCtx, rec.ID, lookup.Country, lookup.Sector, time.Now().UTC())
		if err != nil {
			s.logger.Warn("view count write failed",
				zap.String("content_id", rec.ID),
				zap.Error(err),
			)
		}
	}()
}

func validateLookup(lookup *domain.Lookup) error {
	if lookup.ContentKey == "" {
		return &domain.ValidationError{Field: "content_key", Message: "is required"}
	}
	if lookup.Language == "" {
		lookup.Language = "en"
	}
	return nil
}

func validateRecord(rec *domain.ContentRecord) error {
	switch {
	case rec.ContentKey == "":
		return &domain.ValidationError{Field: "content_key", Message: "is required"}
	case rec.LanguageCode == "":
		return &domain.ValidationError{Field: "language_code", Message: "is required"}
	case rec.Title == "":
		return &domain.ValidationError{Field: "title", Message: "is required"}
	case !rec.Status.Valid():
		return &domain.ValidationError{Field: "status", Message: "unknown status"}
	}

	if rec.PublishedAt != nil && rec.ExpiresAt != nil && rec.ExpiresAt.Before(*rec.PublishedAt) {
		return &domain.ValidationError{Field: "expires_at", Message: "must not precede published_at"}
	}

	return nil
}
