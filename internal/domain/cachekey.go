package domain

import "strings"

// Cache key segments for unset dimensions. These are part of the key format
// and must stay identical between the read path and the invalidation path.
const (
	cacheKeyPrefix  = "content"
	countryGlobal   = "global"
	sectorGeneral   = "general"
	defaultLanguage = "en"
)

// CacheKey derives the canonical cache key for a lookup:
//
//	content:<key>:<country|global>:<sector|general>:<language|en>
func CacheKey(l Lookup) string {
	country := countryGlobal
	if l.Country != nil && *l.Country != "" {
		country = *l.Country
	}
	sector := sectorGeneral
	if l.Sector != nil && *l.Sector != "" {
		sector = *l.Sector
	}
	language := l.Language
	if language == "" {
		language = defaultLanguage
	}

	return strings.Join([]string{cacheKeyPrefix, l.ContentKey, country, sector, language}, ":")
}

// CacheKeyPattern returns the glob pattern matching every cached resolution
// of a content key, across all locales. Used for coarse invalidation when a
// mutation may affect multiple specializations.
func CacheKeyPattern(contentKey string) string {
	return cacheKeyPrefix + ":" + contentKey + ":*"
}
