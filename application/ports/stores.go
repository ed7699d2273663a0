// Package ports defines the interfaces between the application layer and
// the infrastructure that backs it.
package ports

import (
	"context"
	"encoding/json"
	"time"

	"mangalearn-api/domain/catalog"
)

// CacheEntry is one cached upstream response. Entries are written whole and
// overwritten whole; a refresh never merges into an existing entry.
type CacheEntry struct {
	Key        string
	Payload    json.RawMessage
	FetchedAt  int64 // epoch ms
	ExpiresAt  int64 // epoch ms; FetchedAt + TTLSeconds*1000
	TTLSeconds int
}

// NewCacheEntry builds an entry fetched now, expiring ttlSeconds later
func NewCacheEntry(key string, payload json.RawMessage, ttlSeconds int, now time.Time) CacheEntry {
	fetchedAt := now.UnixMilli()
	return CacheEntry{
		Key:        key,
		Payload:    payload,
		FetchedAt:  fetchedAt,
		ExpiresAt:  fetchedAt + int64(ttlSeconds)*1000,
		TTLSeconds: ttlSeconds,
	}
}

// Expired reports whether the entry is logically gone
func (e CacheEntry) Expired(now time.Time) bool {
	return now.UnixMilli() > e.ExpiresAt
}

// RemainingTTL returns the seconds left before expiry, at least zero
func (e CacheEntry) RemainingTTL(now time.Time) int {
	remaining := (e.ExpiresAt - now.UnixMilli()) / 1000
	if remaining < 0 {
		return 0
	}
	return int(remaining)
}

// RateLimitRecord tracks request counts for one (strategy, identifier) pair
// within the current window
type RateLimitRecord struct {
	Count     int
	ResetTime int64 // epoch ms
	CreatedAt int64 // epoch ms
}

// Expired reports whether the window has rolled over
func (r RateLimitRecord) Expired(now time.Time) bool {
	return r.ResetTime < now.UnixMilli()
}

// CacheStats is the diagnostic aggregate over all cache documents
type CacheStats struct {
	TotalEntries   int            `json:"totalEntries"`
	ExpiredEntries int            `json:"expiredEntries"`
	ActiveEntries  int            `json:"activeEntries"`
	CountsByType   map[string]int `json:"countsByType"`
}

// CacheStore is the durable second cache tier. Implementations never
// propagate I/O failures: a failed read behaves as a miss and a failed
// write reports false, so callers can treat the store as "sometimes empty"
// rather than "sometimes broken".
type CacheStore interface {
	Read(ctx context.Context, key string) (CacheEntry, bool)
	Write(ctx context.Context, key string, payload json.RawMessage, ttlSeconds int) bool
	Stats(ctx context.Context) (CacheStats, error)
	SweepExpired(ctx context.Context) (int, error)
}

// RateLimitStore is the durable backing for rate limit windows. Unlike
// CacheStore it surfaces errors; the limiter decides how to fail.
type RateLimitStore interface {
	Get(ctx context.Context, key string) (*RateLimitRecord, error)
	Put(ctx context.Context, key string, record RateLimitRecord) error
	Delete(ctx context.Context, key string) error
	DeleteExpired(ctx context.Context) (int, error)
}

// MemoryCache is the process-local first tier, lost on restart
type MemoryCache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// CatalogClient performs upstream catalog API calls. It never retries and
// never caches; callers own both decisions.
type CatalogClient interface {
	Trending(ctx context.Context, limit int) ([]catalog.Media, error)
	Monthly(ctx context.Context, limit int) ([]catalog.Media, error)
	Suggested(ctx context.Context, limit int, genres, excludeGenres []string) ([]catalog.Media, error)
	Search(ctx context.Context, query string, limit int) ([]catalog.Media, error)
	Browse(ctx context.Context, page int, filters map[string]string) ([]catalog.Media, error)
	MangaByID(ctx context.Context, id int) (*catalog.Media, error)
	RandomByGenre(ctx context.Context, genre string) (*catalog.Media, error)
}
