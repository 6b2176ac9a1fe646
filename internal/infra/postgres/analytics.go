package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/akoun-dev/africahub-sub004/internal/domain"
)

// AnalyticsRepository implements domain.AnalyticsStore using PostgreSQL.
type AnalyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new PostgreSQL analytics repository.
func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// RecordView increments the per-day view counter for the content and
// dimensions in a single upsert. Unset dimensions are normalized to empty
// strings so they participate in the composite key.
func (r *AnalyticsRepository) RecordView(ctx context.Context, contentID string, country, sector *string, day time.Time) error {
	model := &AnalyticsCounterModel{
		ContentID:   contentID,
		CountryCode: derefOrEmpty(country),
		SectorSlug:  derefOrEmpty(sector),
		Day:         domain.CounterDay(day),
		Views:       1,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "content_id"},
			{Name: "country_code"},
			{Name: "sector_slug"},
			{Name: "day"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"views": gorm.Expr("analytics_counters.views + 1"),
		}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("recording view: %w", err)
	}

	return nil
}

// TopCounters returns the most-viewed counters for a day.
func (r *AnalyticsRepository) TopCounters(ctx context.Context, day time.Time, limit int) ([]*domain.AnalyticsCounter, error) {
	var models []AnalyticsCounterModel
	err := r.db.WithContext(ctx).
		Where("day = ?", domain.CounterDay(day)).
		Order("views DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing top counters: %w", err)
	}

	counters := make([]*domain.AnalyticsCounter, len(models))
	for i, m := range models {
		counters[i] = m.ToDomain()
	}

	return counters, nil
}

// PruneBefore deletes counters older than the cutoff day and returns the
// number of rows removed.
func (r *AnalyticsRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("day < ?", domain.CounterDay(cutoff)).
		Delete(&AnalyticsCounterModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("pruning counters: %w", res.Error)
	}

	return res.RowsAffected, nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
