package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createContentsTable creates the contents table with its indexes.
//
// The partial unique index enforces the core invariant: at most one active
// (non-archived) record per exact specialization tuple. NULL country/sector
// are folded to empty strings inside the index expression because Postgres
// treats NULLs as distinct in unique indexes.
func createContentsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "001_create_contents",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS contents (
					id UUID PRIMARY KEY,
					content_key VARCHAR(100) NOT NULL,
					country_code VARCHAR(2),
					sector_slug VARCHAR(100),
					language_code VARCHAR(12) NOT NULL,
					status VARCHAR(16) NOT NULL DEFAULT 'draft',
					version INTEGER NOT NULL DEFAULT 1,

					title VARCHAR(500) NOT NULL,
					body TEXT,
					metadata JSONB,

					published_at TIMESTAMP,
					expires_at TIMESTAMP,

					created_by VARCHAR(100),
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

					CONSTRAINT chk_contents_window CHECK (
						expires_at IS NULL OR published_at IS NULL OR expires_at >= published_at
					)
				);
			`).Error
			if err != nil {
				return err
			}

			indexes := []string{
				`CREATE UNIQUE INDEX IF NOT EXISTS uq_contents_active_specialization
					ON contents (content_key, COALESCE(country_code, ''), COALESCE(sector_slug, ''), language_code)
					WHERE status <> 'archived';`,
				"CREATE INDEX IF NOT EXISTS idx_contents_key_lang ON contents(content_key, language_code);",
				"CREATE INDEX IF NOT EXISTS idx_contents_status ON contents(status);",
				"CREATE INDEX IF NOT EXISTS idx_contents_expires_at ON contents(expires_at);",
			}

			for _, idx := range indexes {
				if err := tx.Exec(idx).Error; err != nil {
					return err
				}
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE IF EXISTS contents;").Error
		},
	}
}
