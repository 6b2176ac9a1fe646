package dto

import (
	"time"

	"github.com/akoun-dev/africahub-sub004/internal/domain"
)

// ContentResponse represents a single content record in the response.
type ContentResponse struct {
	ID           string            `json:"id"`
	ContentKey   string            `json:"content_key"`
	CountryCode  *string           `json:"country_code,omitempty"`
	SectorSlug   *string           `json:"sector_slug,omitempty"`
	LanguageCode string            `json:"language_code"`
	Status       string            `json:"status"`
	Version      int               `json:"version"`
	Title        string            `json:"title"`
	Body         string            `json:"body"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	PublishedAt  *string           `json:"published_at,omitempty"`
	ExpiresAt    *string           `json:"expires_at,omitempty"`
	CreatedBy    string            `json:"created_by,omitempty"`
	CreatedAt    string            `json:"created_at"`
	UpdatedAt    string            `json:"updated_at"`
}

// FromDomainRecord converts a domain.ContentRecord to ContentResponse.
func FromDomainRecord(r *domain.ContentRecord) ContentResponse {
	return ContentResponse{
		ID:           r.ID,
		ContentKey:   r.ContentKey,
		CountryCode:  r.CountryCode,
		SectorSlug:   r.SectorSlug,
		LanguageCode: r.LanguageCode,
		Status:       string(r.Status),
		Version:      r.Version,
		Title:        r.Title,
		Body:         r.Body,
		Metadata:     r.Metadata,
		PublishedAt:  formatTimePtr(r.PublishedAt),
		ExpiresAt:    formatTimePtr(r.ExpiresAt),
		CreatedBy:    r.CreatedBy,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
	}
}

// VersionResponse represents one row of a record's version log.
type VersionResponse struct {
	ID        string            `json:"id"`
	ContentID string            `json:"content_id"`
	Version   int               `json:"version"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedBy string            `json:"created_by,omitempty"`
	CreatedAt string            `json:"created_at"`
}

// FromDomainVersion converts a domain.ContentVersion to VersionResponse.
func FromDomainVersion(v *domain.ContentVersion) VersionResponse {
	return VersionResponse{
		ID:        v.ID,
		ContentID: v.ContentID,
		Version:   v.Version,
		Title:     v.Snapshot.Title,
		Body:      v.Snapshot.Body,
		Metadata:  v.Snapshot.Metadata,
		CreatedBy: v.CreatedBy,
		CreatedAt: v.CreatedAt.Format(time.RFC3339),
	}
}

// VersionsResponse represents the full version log, newest first.
type VersionsResponse struct {
	ContentID string            `json:"content_id"`
	Versions  []VersionResponse `json:"versions"`
}

// FromDomainVersions converts a version log to VersionsResponse.
func FromDomainVersions(contentID string, versions []*domain.ContentVersion) VersionsResponse {
	out := VersionsResponse{
		ContentID: contentID,
		Versions:  make([]VersionResponse, len(versions)),
	}
	for i, v := range versions {
		out.Versions[i] = FromDomainVersion(v)
	}

	return out
}

// CounterResponse represents one analytics counter.
type CounterResponse struct {
	ContentID   string `json:"content_id"`
	CountryCode string `json:"country_code,omitempty"`
	SectorSlug  string `json:"sector_slug,omitempty"`
	Day         string `json:"day"`
	Views       int64  `json:"views"`
}

// TopCountersResponse represents the most-viewed counters for a day.
type TopCountersResponse struct {
	Day      string            `json:"day"`
	Counters []CounterResponse `json:"counters"`
}

// FromDomainCounters converts analytics counters to TopCountersResponse.
func FromDomainCounters(day time.Time, counters []*domain.AnalyticsCounter) TopCountersResponse {
	out := TopCountersResponse{
		Day:      day.Format("2006-01-02"),
		Counters: make([]CounterResponse, len(counters)),
	}
	for i, c := range counters {
		out.Counters[i] = CounterResponse{
			ContentID:   c.ContentID,
			CountryCode: c.CountryCode,
			SectorSlug:  c.SectorSlug,
			Day:         c.Day.Format("2006-01-02"),
			Views:       c.Views,
		}
	}

	return out
}

// PurgeResponse acknowledges an administrative cache bust.
type PurgeResponse struct {
	ContentKey string `json:"content_key"`
	Exact      bool   `json:"exact"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
