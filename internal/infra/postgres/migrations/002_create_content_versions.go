package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createContentVersionsTable creates the append-only version log.
//
// No foreign key to contents: version history is retained after a record is
// hard-deleted, so the audit trail of deleted content survives.
func createContentVersionsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "002_create_content_versions",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS content_versions (
					id UUID PRIMARY KEY,
					content_id UUID NOT NULL,
					version INTEGER NOT NULL,
					snapshot_data JSONB NOT NULL,
					created_by VARCHAR(100),
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

					CONSTRAINT uq_versions_content_version UNIQUE (content_id, version),
					CONSTRAINT chk_versions_positive CHECK (version >= 1)
				);
			`).Error
			if err != nil {
				return err
			}

			return tx.Exec(
				"CREATE INDEX IF NOT EXISTS idx_versions_content_id ON content_versions(content_id, version DESC);",
			).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE IF EXISTS content_versions;").Error
		},
	}
}
