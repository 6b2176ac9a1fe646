package domain

import "time"

// AnalyticsCounter is a per-day view counter keyed by (content, country,
// sector, day). Increments are additive and commutative, so concurrent
// upserts from any number of replicas are safe.
type AnalyticsCounter struct {
	ContentID       string    `json:"content_id"`
	CountryCode     string    `json:"country_code,omitempty"`
	SectorSlug      string    `json:"sector_slug,omitempty"`
	Day             time.Time `json:"day"`
	Views           int64     `json:"views"`
	EngagementScore float64   `json:"engagement_score"`
}

// CounterDay truncates an instant to the UTC day bucket counters are keyed by.
func CounterDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}
