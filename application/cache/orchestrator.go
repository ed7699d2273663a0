package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"mangalearn-api/application/ports"
)

// fetchTimeout bounds a detached upstream fetch and its write-back
const fetchTimeout = 30 * time.Second

// Orchestrator resolves catalog queries through the tier chain: process
// memory, then the durable store, then the upstream API. Slower-tier hits
// are written back into faster tiers. Only a full miss with a failed
// upstream call fails the request.
type Orchestrator struct {
	memory ports.MemoryCache
	store  ports.CacheStore
	client ports.CatalogClient
	group  singleflight.Group
	logger *zap.Logger
	now    func() time.Time
}

// NewOrchestrator creates a cache orchestrator
func NewOrchestrator(
	memory ports.MemoryCache,
	store ports.CacheStore,
	client ports.CatalogClient,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		memory: memory,
		store:  store,
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Resolve returns the payload for a query along with whether it was served
// from a cache tier. ttlSeconds applies to entries written on an upstream
// fetch.
func (o *Orchestrator) Resolve(ctx context.Context, queryType string, p Params, ttlSeconds int) (json.RawMessage, bool, error) {
	key := BuildKey(queryType, p)

	if value, ok := o.memory.Get(ctx, key); ok {
		if payload, ok := value.(json.RawMessage); ok {
			return payload, true, nil
		}
	}

	if entry, ok := o.store.Read(ctx, key); ok {
		// Warm the memory tier for the remainder of the entry's life.
		remaining := entry.RemainingTTL(o.now())
		if remaining == 0 {
			remaining = ttlSeconds
		}
		if err := o.memory.Set(ctx, key, entry.Payload, remaining); err != nil {
			o.logger.Warn("memory cache write failed", zap.String("key", key), zap.Error(err))
		}
		return entry.Payload, true, nil
	}

	// Concurrent cold misses on the same key share one upstream fetch.
	value, err, _ := o.group.Do(key, func() (interface{}, error) {
		// The shared fetch populates the cache for the next requester, so
		// it must outlive whichever request happened to start it. Detach
		// from the caller's context and bound the call on its own clock.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()

		payload, err := o.fetch(fetchCtx, queryType, p)
		if err != nil {
			return nil, err
		}

		// Best-effort write-back; the store logs its own failures and a
		// failed write must not fail the request.
		o.store.Write(fetchCtx, key, payload, ttlSeconds)
		if err := o.memory.Set(fetchCtx, key, payload, ttlSeconds); err != nil {
			o.logger.Warn("memory cache write failed", zap.String("key", key), zap.Error(err))
		}
		return payload, nil
	})
	if err != nil {
		return nil, false, err
	}

	return value.(json.RawMessage), false, nil
}

// fetch dispatches to the matching upstream call and marshals the result
// into the cacheable payload form
func (o *Orchestrator) fetch(ctx context.Context, queryType string, p Params) (json.RawMessage, error) {
	var (
		result interface{}
		err    error
	)

	switch queryType {
	case QueryTrending:
		result, err = o.client.Trending(ctx, orDefault(p.Limit, DefaultTrendingLimit))
	case QueryMonthly:
		result, err = o.client.Monthly(ctx, orDefault(p.Limit, DefaultMonthlyLimit))
	case QuerySuggested:
		result, err = o.client.Suggested(ctx, orDefault(p.Limit, DefaultSuggestedLimit), p.Genres, p.ExcludeGenres)
	case QuerySearch:
		result, err = o.client.Search(ctx, p.Query, orDefault(p.Limit, DefaultSearchLimit))
	case QueryBrowse:
		result, err = o.client.Browse(ctx, orDefault(p.Page, DefaultBrowsePage), p.Filters)
	case QueryManga:
		result, err = o.client.MangaByID(ctx, p.MangaID)
	default:
		return nil, fmt.Errorf("unknown query type %q", queryType)
	}
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", queryType, err)
	}
	return payload, nil
}
