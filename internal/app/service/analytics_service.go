package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/akoun-dev/africahub-sub004/internal/domain"
)

// AnalyticsService exposes the view counters to the transport layer and to
// the retention job.
type AnalyticsService struct {
	store  domain.AnalyticsStore
	logger *zap.Logger
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(store domain.AnalyticsStore, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		store:  store,
		logger: logger,
	}
}

// RecordView counts one explicit view, e.g. a client-side impression ping.
// Counting failures are swallowed: analytics never breaks a caller.
func (s *AnalyticsService) RecordView(ctx context.Context, contentID string, country, sector *string) {
	err := s.store.RecordView(ctx, contentID, country, sector, time.Now().UTC())
	if err != nil {
		s.logger.Warn("view count write failed",
			zap.String("content_id", contentID),
			zap.Error(err),
		)
	}
}

// TopCounters returns the most-viewed counters for a day.
func (s *AnalyticsService) TopCounters(ctx context.Context, day time.Time, limit int) ([]*domain.AnalyticsCounter, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	return s.store.TopCounters(ctx, day, limit)
}

// PruneBefore removes counters older than the cutoff and reports the count.
func (s *AnalyticsService) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	pruned, err := s.store.PruneBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if pruned > 0 {
		s.logger.Info("analytics counters pruned",
			zap.Int64("rows", pruned),
			zap.Time("cutoff", cutoff),
		)
	}

	return pruned, nil
}
