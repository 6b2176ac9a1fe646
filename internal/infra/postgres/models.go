package postgres

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/akoun-dev/africahub-sub004/internal/domain"
)

// JSONMap stores a string map as a JSONB column.
type JSONMap map[string]string

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
}

// GormDataType tells GORM the column type.
func (JSONMap) GormDataType() string {
	return "jsonb"
}

// SnapshotJSON stores a version snapshot as a JSONB column.
type SnapshotJSON domain.Snapshot

// Value implements driver.Valuer.
func (s SnapshotJSON) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *SnapshotJSON) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = SnapshotJSON{}
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
}

// GormDataType tells GORM the column type.
func (SnapshotJSON) GormDataType() string {
	return "jsonb"
}

// ContentModel is the GORM model for the contents table.
//
// The active-specialization uniqueness invariant lives in a partial unique
// index created by the migrations, not in the struct tags: at most one
// non-archived row per (content_key, country_code, sector_slug,
// language_code) tuple.
type ContentModel struct {
	ID           string  `gorm:"type:uuid;primaryKey"`
	ContentKey   string  `gorm:"type:varchar(100);not null;index:idx_contents_key_lang"`
	CountryCode  *string `gorm:"type:varchar(2)"`
	SectorSlug   *string `gorm:"type:varchar(100)"`
	LanguageCode string  `gorm:"type:varchar(12);not null;index:idx_contents_key_lang"`
	Status       string  `gorm:"type:varchar(16);not null;index"`
	Version      int     `gorm:"not null;default:1"`

	Title    string  `gorm:"type:varchar(500);not null"`
	Body     string  `gorm:"type:text"`
	Metadata JSONMap `gorm:"type:jsonb"`

	PublishedAt *time.Time
	ExpiresAt   *time.Time

	CreatedBy string    `gorm:"type:varchar(100)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for ContentModel.
func (ContentModel) TableName() string {
	return "contents"
}

// ToDomain converts ContentModel to domain.ContentRecord.
func (m *ContentModel) ToDomain() *domain.ContentRecord {
	return &domain.ContentRecord{
		ID:           m.ID,
		ContentKey:   m.ContentKey,
		CountryCode:  m.CountryCode,
		SectorSlug:   m.SectorSlug,
		LanguageCode: m.LanguageCode,
		Status:       domain.ContentStatus(m.Status),
		Version:      m.Version,
		Title:        m.Title,
		Body:         m.Body,
		Metadata:     domain.Metadata(m.Metadata),
		PublishedAt:  m.PublishedAt,
		ExpiresAt:    m.ExpiresAt,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromDomain creates a ContentModel from domain.ContentRecord.
func FromDomain(r *domain.ContentRecord) *ContentModel {
	return &ContentModel{
		ID:           r.ID,
		ContentKey:   r.ContentKey,
		CountryCode:  r.CountryCode,
		SectorSlug:   r.SectorSlug,
		LanguageCode: r.LanguageCode,
		Status:       string(r.Status),
		Version:      r.Version,
		Title:        r.Title,
		Body:         r.Body,
		Metadata:     JSONMap(r.Metadata),
		PublishedAt:  r.PublishedAt,
		ExpiresAt:    r.ExpiresAt,
		CreatedBy:    r.CreatedBy,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// ContentVersionModel is the GORM model for the content_versions table.
// Rows are append-only; nothing in the codebase updates or deletes them.
type ContentVersionModel struct {
	ID           string       `gorm:"type:uuid;primaryKey"`
	ContentID    string       `gorm:"type:uuid;not null;index:idx_versions_content_version,unique"`
	Version      int          `gorm:"not null;index:idx_versions_content_version,unique"`
	SnapshotData SnapshotJSON `gorm:"type:jsonb;not null"`
	CreatedBy    string       `gorm:"type:varchar(100)"`
	CreatedAt    time.Time    `gorm:"autoCreateTime"`
}

// TableName returns the table name for ContentVersionModel.
func (ContentVersionModel) TableName() string {
	return "content_versions"
}

// ToDomain converts ContentVersionModel to domain.ContentVersion.
func (m *ContentVersionModel) ToDomain() *domain.ContentVersion {
	return &domain.ContentVersion{
		ID:        m.ID,
		ContentID: m.ContentID,
		Version:   m.Version,
		Snapshot:  domain.Snapshot(m.SnapshotData),
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
}

// AnalyticsCounterModel is the GORM model for the analytics_counters table.
// The composite primary key makes the increment upsert a single statement.
// Unset country/sector dimensions are stored as empty strings so they can
// participate in the key.
type AnalyticsCounterModel struct {
	ContentID       string    `gorm:"type:uuid;primaryKey"`
	CountryCode     string    `gorm:"type:varchar(2);primaryKey;default:''"`
	SectorSlug      string    `gorm:"type:varchar(100);primaryKey;default:''"`
	Day             time.Time `gorm:"type:date;primaryKey"`
	Views           int64     `gorm:"not null;default:0"`
	EngagementScore float64   `gorm:"type:decimal(10,2);not null;default:0"`
}

// TableName returns the table name for AnalyticsCounterModel.
func (AnalyticsCounterModel) TableName() string {
	return "analytics_counters"
}

// ToDomain converts AnalyticsCounterModel to domain.AnalyticsCounter.
func (m *AnalyticsCounterModel) ToDomain() *domain.AnalyticsCounter {
	return &domain.AnalyticsCounter{
		ContentID:       m.ContentID,
		CountryCode:     m.CountryCode,
		SectorSlug:      m.SectorSlug,
		Day:             m.Day,
		Views:           m.Views,
		EngagementScore: m.EngagementScore,
	}
}
