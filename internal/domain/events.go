package domain

import "time"

// ChangeAction names the mutation that triggered a change event.
type ChangeAction string

const (
	ActionCreated  ChangeAction = "created"
	ActionUpdated  ChangeAction = "updated"
	ActionDeleted  ChangeAction = "deleted"
	ActionRestored ChangeAction = "restored"
	ActionPurged   ChangeAction = "purged" // administrative cache bust
)

// ChangeEvent is emitted on every content mutation. Subscribers invalidate
// by pattern on the content key, because a mutation of one specialization
// can change the resolution outcome of any lookup falling back to it.
// Administrative purges carrying all four dimensions may evict the exact
// derived key instead.
//
// Delivery is at-least-once; handling must be idempotent.
type ChangeEvent struct {
	Action     ChangeAction `json:"action"`
	ContentKey string       `json:"content_key"`
	Country    *string      `json:"country,omitempty"`
	Sector     *string      `json:"sector,omitempty"`
	Language   string       `json:"language,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// EventForRecord builds the change event describing a mutation of rec.
func EventForRecord(action ChangeAction, rec *ContentRecord) ChangeEvent {
	return ChangeEvent{
		Action:     action,
		ContentKey: rec.ContentKey,
		Country:    rec.CountryCode,
		Sector:     rec.SectorSlug,
		Language:   rec.LanguageCode,
		OccurredAt: time.Now().UTC(),
	}
}

// CacheKey returns the exact cache key the event maps to, or false when the
// language dimension is unknown and only pattern invalidation is safe.
func (e ChangeEvent) CacheKey() (string, bool) {
	if e.Language == "" {
		return "", false
	}
	return CacheKey(Lookup{
		ContentKey: e.ContentKey,
		Language:   e.Language,
		Country:    e.Country,
		Sector:     e.Sector,
	}), true
}

// CacheKeyPattern returns the coarse pattern covering every locale of the
// event's content key.
func (e ChangeEvent) CacheKeyPattern() string {
	return CacheKeyPattern(e.ContentKey)
}
