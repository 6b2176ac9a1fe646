package domain

import "testing"

func TestCacheKey(t *testing.T) {
	tests := []struct {
		name   string
		lookup Lookup
		want   string
	}{
		{
			name:   "all dimensions set",
			lookup: Lookup{ContentKey: "home-hero", Language: "fr", Country: strptr("CI"), Sector: strptr("banks")},
			want:   "content:home-hero:CI:banks:fr",
		},
		{
			name:   "country unset falls back to global segment",
			lookup: Lookup{ContentKey: "home-hero", Language: "fr", Sector: strptr("banks")},
			want:   "content:home-hero:global:banks:fr",
		},
		{
			name:   "sector unset falls back to general segment",
			lookup: Lookup{ContentKey: "home-hero", Language: "fr", Country: strptr("CI")},
			want:   "content:home-hero:CI:general:fr",
		},
		{
			name:   "fully generic lookup",
			lookup: Lookup{ContentKey: "home-hero", Language: "fr"},
			want:   "content:home-hero:global:general:fr",
		},
		{
			name:   "empty language defaults to en",
			lookup: Lookup{ContentKey: "home-hero"},
			want:   "content:home-hero:global:general:en",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CacheKey(tt.lookup); got != tt.want {
				t.Errorf("CacheKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCacheKeyPattern(t *testing.T) {
	if got := CacheKeyPattern("home-hero"); got != "content:home-hero:*" {
		t.Errorf("CacheKeyPattern() = %q, want %q", got, "content:home-hero:*")
	}
}

// The invalidation path must derive the same key the read path computes —
// any divergence serves stale content forever.
func TestChangeEvent_CacheKeyMatchesLookupKey(t *testing.T) {
	rec := &ContentRecord{
		ContentKey:   "home-hero",
		CountryCode:  strptr("SN"),
		SectorSlug:   nil,
		LanguageCode: "fr",
	}
	ev := EventForRecord(ActionUpdated, rec)

	key, ok := ev.CacheKey()
	if !ok {
		t.Fatal("expected exact cache key for event with known language")
	}

	lookupKey := CacheKey(Lookup{
		ContentKey: "home-hero",
		Language:   "fr",
		Country:    strptr("SN"),
	})
	if key != lookupKey {
		t.Errorf("event key %q diverges from lookup key %q", key, lookupKey)
	}
}

func TestChangeEvent_PatternWhenLanguageUnknown(t *testing.T) {
	ev := ChangeEvent{Action: ActionPurged, ContentKey: "home-hero"}

	if _, ok := ev.CacheKey(); ok {
		t.Error("expected no exact key when language is unknown")
	}
	if got := ev.CacheKeyPattern(); got != "content:home-hero:*" {
		t.Errorf("pattern = %q, want %q", got, "content:home-hero:*")
	}
}
