package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akoun-dev/africahub-sub004/internal/domain"
	"github.com/akoun-dev/africahub-sub004/internal/validator"
)

func newTestValidator() *validator.Validator {
	return validator.New()
}

// TestResolveRequest_Validation_Valid tests valid resolve requests.
func TestResolveRequest_Validation_Valid(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name string
		req  ResolveRequest
	}{
		{
			name: "key only",
			req:  ResolveRequest{ContentKey: "welcome-banner"},
		},
		{
			name: "full request",
			req:  ResolveRequest{ContentKey: "welcome-banner", Language: "fr", Country: "CI", Sector: "telecom"},
		},
		{
			name: "regional language tag",
			req:  ResolveRequest{ContentKey: "faq", Language: "pt-BR"},
		},
		{
			name: "multi-segment slug",
			req:  ResolveRequest{ContentKey: "home-page-hero-2", Sector: "micro-finance"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, v.Validate(&tt.req))
		})
	}
}

// TestResolveRequest_Validation_Invalid tests rejected resolve requests.
func TestResolveRequest_Validation_Invalid(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name string
		req  ResolveRequest
	}{
		{
			name: "missing key",
			req:  ResolveRequest{Language: "fr"},
		},
		{
			name: "lowercase country",
			req:  ResolveRequest{ContentKey: "faq", Country: "ci"},
		},
		{
			name: "three-letter country",
			req:  ResolveRequest{ContentKey: "faq", Country: "CIV"},
		},
		{
			name: "uppercase language",
			req:  ResolveRequest{ContentKey: "faq", Language: "FR"},
		},
		{
			name: "key is not a slug",
			req:  ResolveRequest{ContentKey: "Welcome Banner"},
		},
		{
			name: "sector with underscore",
			req:  ResolveRequest{ContentKey: "faq", Sector: "micro_finance"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, v.Validate(&tt.req))
		})
	}
}

// TestResolveRequest_ToLookup verifies unset dimensions become nil pointers.
func TestResolveRequest_ToLookup(t *testing.T) {
	req := ResolveRequest{ContentKey: "welcome-banner", Language: "fr", Country: "CI"}

	lookup := req.ToLookup()
	assert.Equal(t, "welcome-banner", lookup.ContentKey)
	assert.Equal(t, "fr", lookup.Language)
	require.NotNil(t, lookup.Country)
	assert.Equal(t, "CI", *lookup.Country)
	assert.Nil(t, lookup.Sector, "Absent sector must stay unset, not empty")
}

// TestCreateContentRequest_Validation exercises the locale-dimension tags.
func TestCreateContentRequest_Validation(t *testing.T) {
	v := newTestValidator()

	valid := CreateContentRequest{
		ContentKey:   "welcome-banner",
		LanguageCode: "fr",
		Status:       "published",
		Title:        "Bienvenue",
	}
	assert.NoError(t, v.Validate(&valid))

	missingTitle := valid
	missingTitle.Title = ""
	assert.Error(t, v.Validate(&missingTitle))

	badStatus := valid
	badStatus.Status = "live"
	assert.Error(t, v.Validate(&badStatus))

	badCountry := valid
	country := "Ivory Coast"
	badCountry.CountryCode = &country
	assert.Error(t, v.Validate(&badCountry))
}

// TestUpdateContentRequest_RequiresExpectedVersion verifies the concurrency
// token is mandatory.
func TestUpdateContentRequest_RequiresExpectedVersion(t *testing.T) {
	v := newTestValidator()

	title := "New Title"
	req := UpdateContentRequest{Title: &title}
	assert.Error(t, v.Validate(&req), "expected_version is required")

	req.ExpectedVersion = 1
	assert.NoError(t, v.Validate(&req))
}

// TestUpdateContentRequest_ToPatch verifies status conversion.
func TestUpdateContentRequest_ToPatch(t *testing.T) {
	status := "archived"
	title := "New Title"
	req := UpdateContentRequest{
		Title:           &title,
		Status:          &status,
		ExpectedVersion: 3,
		UpdatedBy:       "editor",
	}

	patch := req.ToPatch()
	require.NotNil(t, patch.Status)
	assert.Equal(t, domain.StatusArchived, *patch.Status)
	require.NotNil(t, patch.Title)
	assert.Equal(t, "New Title", *patch.Title)
	assert.Equal(t, "editor", patch.UpdatedBy)
	assert.Nil(t, patch.Body)
}

// TestPurgeRequest_Exact verifies the exact/pattern split.
func TestPurgeRequest_Exact(t *testing.T) {
	withLang := PurgeRequest{ContentKey: "welcome-banner", Language: "fr"}
	assert.True(t, withLang.Exact())

	withoutLang := PurgeRequest{ContentKey: "welcome-banner", Country: "CI"}
	assert.False(t, withoutLang.Exact(), "Without a language only pattern purge is derivable")
}
