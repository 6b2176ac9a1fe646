package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/akoun-dev/africahub-sub004/internal/domain"
)

// pgUniqueViolation is the Postgres error code for unique constraint
// violations, raised by the partial index guarding active specializations.
const pgUniqueViolation = "23505"

// Repository implements domain.ContentStore using PostgreSQL.
//
// Every multi-step write (record mutation + version snapshot) runs in one
// transaction: either both rows persist or neither does.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new PostgreSQL content repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindCandidates returns all published, non-expired records for the content
// key and language, across every country/sector specialization.
func (r *Repository) FindCandidates(ctx context.Context, contentKey, language string) ([]*domain.ContentRecord, error) {
	now := time.Now().UTC()

	var models []ContentModel
	err := r.db.WithContext(ctx).
		Where("content_key = ? AND language_code = ?", contentKey, language).
		Where("status = ?", string(domain.StatusPublished)).
		Where("published_at IS NULL OR published_at <= ?", now).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("finding candidates: %w", err)
	}

	records := make([]*domain.ContentRecord, len(models))
	for i, m := range models {
		records[i] = m.ToDomain()
	}

	return records, nil
}

// GetByID retrieves a record by its ID.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.ContentRecord, error) {
	var model ContentModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Resource: "content", ID: id}
		}

		return nil, fmt.Errorf("getting content by id: %w", err)
	}

	return model.ToDomain(), nil
}

// Create persists a new record at version 1 together with its first version
// snapshot. The partial unique index rejects a second active record for the
// same specialization tuple; that rejection surfaces as a ConflictError.
func (r *Repository) Create(ctx context.Context, rec *domain.ContentRecord) (*domain.ContentRecord, error) {
	model := FromDomain(rec)
	if model.ID == "" {
		model.ID = uuid.NewString()
	}
	model.Version = 1
	if model.Status == "" {
		model.Status = string(domain.StatusDraft)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			if isUniqueViolation(err) {
				return &domain.ConflictError{
					Reason: fmt.Sprintf("active record already exists for specialization of %q", model.ContentKey),
				}
			}
			return fmt.Errorf("inserting content: %w", err)
		}

		return r.appendVersion(tx, model, model.CreatedBy)
	})
	if err != nil {
		return nil, err
	}

	return model.ToDomain(), nil
}

// Update applies the patch under an optimistic-concurrency check on
// expectedVersion, bumps the version by exactly 1, and appends a snapshot of
// the new state in the same transaction. An empty patch is a no-op returning
// the current record without a version bump.
func (r *Repository) Update(ctx context.Context, id string, patch domain.ContentPatch, expectedVersion int) (*domain.ContentRecord, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	var updated ContentModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		assignments := patchAssignments(patch)
		assignments["version"] = gorm.Expr("version + 1")
		assignments["updated_at"] = time.Now().UTC()

		res := tx.Model(&ContentModel{}).
			Where("id = ? AND version = ?", id, expectedVersion).
			Updates(assignments)
		if res.Error != nil {
			if isUniqueViolation(res.Error) {
				// Un-archiving can collide with another active record
				// for the same specialization.
				return &domain.ConflictError{Reason: "specialization already active"}
			}
			return fmt.Errorf("updating content: %w", res.Error)
		}

		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&ContentModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return fmt.Errorf("checking content existence: %w", err)
			}
			if count == 0 {
				return &domain.NotFoundError{Resource: "content", ID: id}
			}
			return &domain.ConflictError{
				Reason: fmt.Sprintf("stale version %d for content %s", expectedVersion, id),
			}
		}

		if err := tx.Where("id = ?", id).First(&updated).Error; err != nil {
			return fmt.Errorf("reloading content: %w", err)
		}

		return r.appendVersion(tx, &updated, patch.UpdatedBy)
	})
	if err != nil {
		return nil, err
	}

	return updated.ToDomain(), nil
}

// Delete hard-deletes the record. Version history is retained: the audit
// trail in content_versions outlives the live row.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ContentModel{})
	if res.Error != nil {
		return false, fmt.Errorf("deleting content: %w", res.Error)
	}

	return res.RowsAffected > 0, nil
}

// ListVersions returns the record's version log, newest first.
func (r *Repository) ListVersions(ctx context.Context, contentID string) ([]*domain.ContentVersion, error) {
	var models []ContentVersionModel
	err := r.db.WithContext(ctx).
		Where("content_id = ?", contentID).
		Order("version DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}

	versions := make([]*domain.ContentVersion, len(models))
	for i, m := range models {
		versions[i] = m.ToDomain()
	}

	return versions, nil
}

// Restore overwrites the live record's content-bearing fields from the
// snapshot at targetVersion and appends a fresh version of the restored
// state. The target version's row is never touched. The live row is locked
// for the duration, so concurrent restores of the same record serialize.
func (r *Repository) Restore(ctx context.Context, contentID string, targetVersion int, actor string) (*domain.ContentRecord, error) {
	var model ContentModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ver ContentVersionModel
		err := tx.Where("content_id = ? AND version = ?", contentID, targetVersion).First(&ver).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &domain.NotFoundError{
					Resource: "content version",
					ID:       fmt.Sprintf("%s@v%d", contentID, targetVersion),
				}
			}
			return fmt.Errorf("loading version snapshot: %w", err)
		}

		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", contentID).
			First(&model).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &domain.NotFoundError{Resource: "content", ID: contentID}
			}
			return fmt.Errorf("locking content row: %w", err)
		}

		snap := domain.Snapshot(ver.SnapshotData)
		model.Title = snap.Title
		model.Body = snap.Body
		model.Metadata = JSONMap(snap.Metadata)
		model.Version++
		model.UpdatedAt = time.Now().UTC()

		if err := tx.Save(&model).Error; err != nil {
			return fmt.Errorf("writing restored content: %w", err)
		}

		return r.appendVersion(tx, &model, actor)
	})
	if err != nil {
		return nil, err
	}

	return model.ToDomain(), nil
}

// appendVersion writes the snapshot row matching the model's current state
// and version. Must run inside the same transaction as the record mutation.
func (r *Repository) appendVersion(tx *gorm.DB, model *ContentModel, actor string) error {
	version := &ContentVersionModel{
		ID:        uuid.NewString(),
		ContentID: model.ID,
		Version:   model.Version,
		SnapshotData: SnapshotJSON(domain.Snapshot{
			Title:    model.Title,
			Body:     model.Body,
			Metadata: domain.Metadata(model.Metadata),
		}),
		CreatedBy: actor,
	}

	if err := tx.Create(version).Error; err != nil {
		return fmt.Errorf("appending version snapshot: %w", err)
	}

	return nil
}

// patchAssignments converts the set fields of a patch into SQL assignments.
func patchAssignments(patch domain.ContentPatch) map[string]interface{} {
	assignments := make(map[string]interface{})
	if patch.Title != nil {
		assignments["title"] = *patch.Title
	}
	if patch.Body != nil {
		assignments["body"] = *patch.Body
	}
	if patch.Metadata != nil {
		assignments["metadata"] = JSONMap(patch.Metadata)
	}
	if patch.Status != nil {
		assignments["status"] = string(*patch.Status)
	}
	if patch.PublishedAt != nil {
		assignments["published_at"] = *patch.PublishedAt
	}
	if patch.ExpiresAt != nil {
		assignments["expires_at"] = *patch.ExpiresAt
	}

	return assignments
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation. GORM's postgres dialect rides on pgx, so the code arrives as a
// pgconn.PgError.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
