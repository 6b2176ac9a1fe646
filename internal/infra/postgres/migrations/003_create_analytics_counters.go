package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createAnalyticsCountersTable creates the per-day view counter table.
// The composite primary key carries the one-row-per-key-per-day invariant;
// increments ride on ON CONFLICT so concurrent views never duplicate rows.
func createAnalyticsCountersTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "003_create_analytics_counters",
		Migrate: func(tx *gorm.DB) error {
			return tx.Exec(`
				CREATE TABLE IF NOT EXISTS analytics_counters (
					content_id UUID NOT NULL,
					country_code VARCHAR(2) NOT NULL DEFAULT '',
					sector_slug VARCHAR(100) NOT NULL DEFAULT '',
					day DATE NOT NULL,
					views BIGINT NOT NULL DEFAULT 0,
					engagement_score DECIMAL(10,2) NOT NULL DEFAULT 0,

					PRIMARY KEY (content_id, country_code, sector_slug, day)
				);
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE IF EXISTS analytics_counters;").Error
		},
	}
}
