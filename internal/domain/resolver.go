package domain

// Lookup identifies the content a caller wants resolved: a content key plus
// the requester's locale context. Country and Sector are optional; Language
// is required.
type Lookup struct {
	ContentKey string
	Language   string
	Country    *string
	Sector     *string
}

// Specificity tiers, most specific first. Lower wins.
const (
	tierExact         = 1 // country and sector both match
	tierCountryOnly   = 2 // country matches, record is sector-general
	tierSectorOnly    = 3 // record is country-general, sector matches
	tierGlobal        = 4 // record is fully global
	tierNoMatch       = 5
)

// Resolve picks the single most specific candidate for the lookup, or nil if
// no candidate applies. Candidates are expected to be pre-filtered to the
// lookup's content key and language, published, and not expired — Resolve is
// a pure ranking function and performs no storage access.
//
// Ranking: exact (country+sector) beats country-specific/sector-general,
// which beats country-general/sector-specific, which beats fully global.
// Tiers that require a match on an unset lookup dimension are skipped. Within
// a tier — which the uniqueness invariant should make impossible, but is
// handled defensively — the most recently created record wins.
//
// A nil result is a valid outcome, not an error: content is intentionally
// absent for that locale.
func Resolve(lookup Lookup, candidates []*ContentRecord) *ContentRecord {
	var best *ContentRecord
	bestTier := tierNoMatch

	for _, c := range candidates {
		tier := candidateTier(lookup, c)
		if tier == tierNoMatch {
			continue
		}
		if tier < bestTier {
			best, bestTier = c, tier
			continue
		}
		if tier == bestTier && c.CreatedAt.After(best.CreatedAt) {
			best = c
		}
	}

	return best
}

// candidateTier classifies a candidate against the lookup. A candidate whose
// specialization names a dimension the lookup doesn't match (wrong country,
// wrong sector, or a dimension the lookup leaves unset) is out entirely.
func candidateTier(l Lookup, c *ContentRecord) int {
	countryMatch := l.Country != nil && c.CountryCode != nil && *c.CountryCode == *l.Country
	sectorMatch := l.Sector != nil && c.SectorSlug != nil && *c.SectorSlug == *l.Sector
	countryGeneral := c.CountryCode == nil
	sectorGeneral := c.SectorSlug == nil

	switch {
	case countryMatch && sectorMatch:
		return tierExact
	case countryMatch && sectorGeneral:
		return tierCountryOnly
	case countryGeneral && sectorMatch:
		return tierSectorOnly
	case countryGeneral && sectorGeneral:
		return tierGlobal
	}
	return tierNoMatch
}
