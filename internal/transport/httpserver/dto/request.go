// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import (
	"time"

	"github.com/akoun-dev/africahub-sub004/internal/domain"
)

// ResolveRequest represents the query parameters for content resolution.
type ResolveRequest struct {
	ContentKey string `query:"key" validate:"required,slug,max=100"`
	Language   string `query:"lang" validate:"omitempty,langcode"`
	Country    string `query:"country" validate:"omitempty,country"`
	Sector     string `query:"sector" validate:"omitempty,slug,max=100"`
}

// ToLookup converts ResolveRequest to domain.Lookup. Absent dimensions
// become nil pointers so the resolver treats them as unset, not as empty.
func (r *ResolveRequest) ToLookup() domain.Lookup {
	lookup := domain.Lookup{
		ContentKey: r.ContentKey,
		Language:   r.Language,
	}
	if r.Country != "" {
		lookup.Country = &r.Country
	}
	if r.Sector != "" {
		lookup.Sector = &r.Sector
	}

	return lookup
}

// CreateContentRequest represents the request body for creating content.
type CreateContentRequest struct {
	ContentKey   string            `json:"content_key" validate:"required,slug,max=100"`
	CountryCode  *string           `json:"country_code" validate:"omitempty,country"`
	SectorSlug   *string           `json:"sector_slug" validate:"omitempty,slug,max=100"`
	LanguageCode string            `json:"language_code" validate:"required,langcode"`
	Status       string            `json:"status" validate:"omitempty,oneof=draft published archived"`
	Title        string            `json:"title" validate:"required,max=500"`
	Body         string            `json:"body"`
	Metadata     map[string]string `json:"metadata"`
	PublishedAt  *time.Time        `json:"published_at"`
	ExpiresAt    *time.Time        `json:"expires_at"`
	CreatedBy    string            `json:"created_by" validate:"omitempty,max=100"`
}

// ToDomain converts CreateContentRequest to a domain.ContentRecord.
func (r *CreateContentRequest) ToDomain() *domain.ContentRecord {
	return &domain.ContentRecord{
		ContentKey:   r.ContentKey,
		CountryCode:  r.CountryCode,
		SectorSlug:   r.SectorSlug,
		LanguageCode: r.LanguageCode,
		Status:       domain.ContentStatus(r.Status),
		Title:        r.Title,
		Body:         r.Body,
		Metadata:     domain.Metadata(r.Metadata),
		PublishedAt:  r.PublishedAt,
		ExpiresAt:    r.ExpiresAt,
		CreatedBy:    r.CreatedBy,
	}
}

// UpdateContentRequest represents the request body for updating content.
// Absent fields leave the record unchanged; expected_version carries the
// optimistic concurrency token.
type UpdateContentRequest struct {
	Title           *string           `json:"title" validate:"omitempty,max=500"`
	Body            *string           `json:"body"`
	Metadata        map[string]string `json:"metadata"`
	Status          *string           `json:"status" validate:"omitempty,oneof=draft published archived"`
	PublishedAt     *time.Time        `json:"published_at"`
	ExpiresAt       *time.Time        `json:"expires_at"`
	ExpectedVersion int               `json:"expected_version" validate:"required,min=1"`
	UpdatedBy       string            `json:"updated_by" validate:"omitempty,max=100"`
}

// ToPatch converts UpdateContentRequest to a domain.ContentPatch.
func (r *UpdateContentRequest) ToPatch() domain.ContentPatch {
	patch := domain.ContentPatch{
		Title:       r.Title,
		Body:        r.Body,
		Metadata:    domain.Metadata(r.Metadata),
		PublishedAt: r.PublishedAt,
		ExpiresAt:   r.ExpiresAt,
		UpdatedBy:   r.UpdatedBy,
	}
	if r.Status != nil {
		status := domain.ContentStatus(*r.Status)
		patch.Status = &status
	}

	return patch
}

// RestoreVersionRequest represents the request body for restoring a version.
type RestoreVersionRequest struct {
	Version int    `json:"version" validate:"required,min=1"`
	Actor   string `json:"actor" validate:"omitempty,max=100"`
}

// PurgeRequest represents the request body for an administrative cache bust.
// With a language present the derived key is fully determined and only that
// entry is evicted; otherwise every locale of the content key is.
type PurgeRequest struct {
	ContentKey string `json:"content_key" validate:"required,slug,max=100"`
	Country    string `json:"country" validate:"omitempty,country"`
	Sector     string `json:"sector" validate:"omitempty,slug,max=100"`
	Language   string `json:"language" validate:"omitempty,langcode"`
}

// ToLookup converts PurgeRequest to a domain.Lookup.
func (r *PurgeRequest) ToLookup() domain.Lookup {
	lookup := domain.Lookup{
		ContentKey: r.ContentKey,
		Language:   r.Language,
	}
	if r.Country != "" {
		lookup.Country = &r.Country
	}
	if r.Sector != "" {
		lookup.Sector = &r.Sector
	}

	return lookup
}

// Exact reports whether the purge targets one derived key.
func (r *PurgeRequest) Exact() bool {
	return r.Language != ""
}

// RecordViewRequest represents the request body for a client impression ping.
type RecordViewRequest struct {
	Country *string `json:"country" validate:"omitempty,country"`
	Sector  *string `json:"sector" validate:"omitempty,slug,max=100"`
}
