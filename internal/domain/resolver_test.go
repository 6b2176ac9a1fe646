package domain

import (
	"testing"
	"time"
)

func strptr(s string) *string { return &s }

func record(id string, country, sector *string, createdAt time.Time) *ContentRecord {
	return &ContentRecord{
		ID:           id,
		ContentKey:   "home-hero",
		CountryCode:  country,
		SectorSlug:   sector,
		LanguageCode: "fr",
		Status:       StatusPublished,
		CreatedAt:    createdAt,
	}
}

func TestResolve_TierPrecedence(t *testing.T) {
	now := time.Now().UTC()

	exact := record("exact", strptr("CI"), strptr("banks"), now)
	countryOnly := record("country-only", strptr("CI"), nil, now)
	sectorOnly := record("sector-only", nil, strptr("banks"), now)
	global := record("global", nil, nil, now)

	tests := []struct {
		name       string
		lookup     Lookup
		candidates []*ContentRecord
		wantID     string
	}{
		{
			name:       "exact match wins over all lower tiers",
			lookup:     Lookup{ContentKey: "home-hero", Language: "fr", Country: strptr("CI"), Sector: strptr("banks")},
			candidates: []*ContentRecord{global, sectorOnly, countryOnly, exact},
			wantID:     "exact",
		},
		{
			name:       "country-specific beats sector-specific and global",
			lookup:     Lookup{ContentKey: "home-hero", Language: "fr", Country: strptr("CI"), Sector: strptr("banks")},
			candidates: []*ContentRecord{global, sectorOnly, countryOnly},
			wantID:     "country-only",
		},
		{
			name:       "sector-specific beats global",
			lookup:     Lookup{ContentKey: "home-hero", Language: "fr", Country: strptr("CI"), Sector: strptr("banks")},
			candidates: []*ContentRecord{global, sectorOnly},
			wantID:     "sector-only",
		},
		{
			name:       "global is the last resort",
			lookup:     Lookup{ContentKey: "home-hero", Language: "fr", Country: strptr("CI"), Sector: strptr("banks")},
			candidates: []*ContentRecord{global},
			wantID:     "global",
		},
		{
			name:   "sector mismatch falls through to country-general record",
			lookup: Lookup{ContentKey: "home-hero", Language: "fr", Country: strptr("CI"), Sector: strptr("telecom")},
			candidates: []*ContentRecord{
				record("ci-banks", strptr("CI"), strptr("banks"), now),
				record("ci-general", strptr("CI"), nil, now),
				record("global", nil, nil, now),
			},
			wantID: "ci-general",
		},
		{
			name:       "unset lookup dimensions only match the global record",
			lookup:     Lookup{ContentKey: "home-hero", Language: "fr"},
			candidates: []*ContentRecord{exact, countryOnly, sectorOnly, global},
			wantID:     "global",
		},
		{
			name:       "country-only lookup skips sector tiers",
			lookup:     Lookup{ContentKey: "home-hero", Language: "fr", Country: strptr("CI")},
			candidates: []*ContentRecord{exact, sectorOnly, countryOnly, global},
			wantID:     "country-only",
		},
		{
			name:       "sector-only lookup skips country tiers",
			lookup:     Lookup{ContentKey: "home-hero", Language: "fr", Sector: strptr("banks")},
			candidates: []*ContentRecord{exact, countryOnly, sectorOnly, global},
			wantID:     "sector-only",
		},
		{
			name:       "wrong country excludes the candidate entirely",
			lookup:     Lookup{ContentKey: "home-hero", Language: "fr", Country: strptr("SN")},
			candidates: []*ContentRecord{countryOnly},
			wantID:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.lookup, tt.candidates)
			if tt.wantID == "" {
				if got != nil {
					t.Fatalf("expected no match, got %q", got.ID)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %q, got no match", tt.wantID)
			}
			if got.ID != tt.wantID {
				t.Errorf("expected %q, got %q", tt.wantID, got.ID)
			}
		})
	}
}

func TestResolve_EmptyCandidates(t *testing.T) {
	got := Resolve(Lookup{ContentKey: "home-hero", Language: "fr"}, nil)
	if got != nil {
		t.Errorf("expected nil for empty candidate set, got %q", got.ID)
	}
}

func TestResolve_TieBreakMostRecent(t *testing.T) {
	now := time.Now().UTC()
	older := record("older", nil, nil, now.Add(-time.Hour))
	newer := record("newer", nil, nil, now)

	got := Resolve(Lookup{ContentKey: "home-hero", Language: "fr"}, []*ContentRecord{older, newer})
	if got == nil || got.ID != "newer" {
		t.Fatalf("expected most recently created record to win the tie, got %+v", got)
	}

	// Order of the candidate slice must not matter.
	got = Resolve(Lookup{ContentKey: "home-hero", Language: "fr"}, []*ContentRecord{newer, older})
	if got == nil || got.ID != "newer" {
		t.Fatalf("tie-break must be independent of candidate order, got %+v", got)
	}
}
