// Package cache composes the tiered read path for catalog queries: process
// memory first, the durable store second, the upstream API last.
package cache

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Query types understood by the key builder and the orchestrator.
const (
	QueryTrending  = "trending"
	QueryMonthly   = "monthly"
	QuerySuggested = "suggested"
	QuerySearch    = "search"
	QueryBrowse    = "browse"
	QueryManga     = "manga"
)

// Default limits substituted when a request leaves them unset.
const (
	DefaultTrendingLimit  = 10
	DefaultMonthlyLimit   = 15
	DefaultSuggestedLimit = 4
	DefaultSearchLimit    = 10
	DefaultBrowsePage     = 1
)

// Params carries the query parameters that participate in key construction.
// Zero values mean "unset" and fall back to the per-type defaults.
type Params struct {
	Limit         int
	Query         string
	Page          int
	Genres        []string
	ExcludeGenres []string
	Filters       map[string]string
	MangaID       int
}

// BuildKey returns the canonical cache key for a query. Semantically
// equivalent inputs collide on one key: unordered collections are sorted
// before joining, and absent parameters take their defaults.
func BuildKey(queryType string, p Params) string {
	switch queryType {
	case QueryTrending:
		return fmt.Sprintf("trending:%d", orDefault(p.Limit, DefaultTrendingLimit))
	case QueryMonthly:
		return fmt.Sprintf("monthly:%d", orDefault(p.Limit, DefaultMonthlyLimit))
	case QuerySuggested:
		return fmt.Sprintf("suggested:%d:%s:%s",
			orDefault(p.Limit, DefaultSuggestedLimit),
			sortedJoin(p.Genres),
			sortedJoin(p.ExcludeGenres))
	case QuerySearch:
		return fmt.Sprintf("search:%s:%d", p.Query, orDefault(p.Limit, DefaultSearchLimit))
	case QueryBrowse:
		return fmt.Sprintf("browse:%d:%s", orDefault(p.Page, DefaultBrowsePage), filtersJSON(p.Filters))
	case QueryManga:
		return fmt.Sprintf("manga:%d", p.MangaID)
	default:
		return "cache:" + queryType
	}
}

func orDefault(value, defaultValue int) int {
	if value == 0 {
		return defaultValue
	}
	return value
}

func sortedJoin(values []string) string {
	if len(values) == 0 {
		return ""
	}
	sorted := make([]string, len(values))
	copy(sorted, values)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// filtersJSON renders filters deterministically; encoding/json sorts map
// keys, so equal filter sets always produce equal strings.
func filtersJSON(filters map[string]string) string {
	if filters == nil {
		filters = map[string]string{}
	}
	b, err := json.Marshal(filters)
	if err != nil {
		return "{}"
	}
	return string(b)
}
