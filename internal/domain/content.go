// Package domain contains the core business logic and entities.
// This package has no external dependencies (only stdlib).
package domain

import (
	"time"
)

// ContentStatus represents the lifecycle state of a content record.
type ContentStatus string

const (
	StatusDraft     ContentStatus = "draft"
	StatusPublished ContentStatus = "published"
	StatusArchived  ContentStatus = "archived"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s ContentStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Metadata is the free-form key/value map attached to a content record.
type Metadata map[string]string

// Clone returns a copy of the metadata map. A nil map clones to nil.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ContentRecord is a single localized/specialized variant of a piece of
// content. Several records share a ContentKey; the (ContentKey, CountryCode,
// SectorSlug, LanguageCode) tuple is unique among non-archived records.
//
// A nil CountryCode means the record applies to all countries; a nil
// SectorSlug means it applies to all sectors. LanguageCode is always set —
// there is no language fallback.
type ContentRecord struct {
	ID           string        `json:"id"`
	ContentKey   string        `json:"content_key"`
	CountryCode  *string       `json:"country_code,omitempty"`
	SectorSlug   *string       `json:"sector_slug,omitempty"`
	LanguageCode string        `json:"language_code"`
	Status       ContentStatus `json:"status"`

	// Version increases by exactly 1 on every update, starting at 1.
	// It doubles as the optimistic-concurrency token for writes.
	Version int `json:"version"`

	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Metadata Metadata `json:"metadata,omitempty"`

	PublishedAt *time.Time `json:"published_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Resolvable reports whether the record is eligible for resolution at the
// given instant: published, past its publish time, and not expired.
func (r *ContentRecord) Resolvable(now time.Time) bool {
	if r.Status != StatusPublished {
		return false
	}
	if r.PublishedAt != nil && r.PublishedAt.After(now) {
		return false
	}
	if r.ExpiresAt != nil && !r.ExpiresAt.After(now) {
		return false
	}
	return true
}

// Snapshot returns the content-bearing fields of the record, as captured in
// a version row.
func (r *ContentRecord) Snapshot() Snapshot {
	return Snapshot{
		Title:    r.Title,
		Body:     r.Body,
		Metadata: r.Metadata.Clone(),
	}
}

// ApplySnapshot overwrites the record's content-bearing fields from a
// snapshot. Locale dimensions, status, and timestamps are untouched.
func (r *ContentRecord) ApplySnapshot(s Snapshot) {
	r.Title = s.Title
	r.Body = s.Body
	r.Metadata = s.Metadata.Clone()
}

// Snapshot is the content-bearing state of a record at one version.
type Snapshot struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// ContentVersion is one row of a record's append-only version log. Versions
// for a record form a contiguous sequence starting at 1 and are never
// mutated or deleted; a restore appends a new version rather than rewinding.
type ContentVersion struct {
	ID        string    `json:"id"`
	ContentID string    `json:"content_id"`
	Version   int       `json:"version"`
	Snapshot  Snapshot  `json:"snapshot"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// ContentPatch carries the fields of an update. Nil pointers (and a nil
// metadata map) leave the corresponding field unchanged.
type ContentPatch struct {
	Title       *string
	Body        *string
	Metadata    Metadata
	Status      *ContentStatus
	PublishedAt *time.Time
	ExpiresAt   *time.Time
	UpdatedBy   string
}

// Empty reports whether the patch changes nothing.
func (p ContentPatch) Empty() bool {
	return p.Title == nil && p.Body == nil && p.Metadata == nil &&
		p.Status == nil && p.PublishedAt == nil && p.ExpiresAt == nil
}
