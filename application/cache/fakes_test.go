package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"mangalearn-api/application/ports"
	"mangalearn-api/domain/catalog"
)

type fakeMemory struct {
	mu    sync.Mutex
	items map[string]interface{}
}

func newFakeMemory() *fakeMemory {
	return &fakeMemory{items: make(map[string]interface{})}
}

func (f *fakeMemory) Get(ctx context.Context, key string) (interface{}, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.items[key]
	return v, ok
}

func (f *fakeMemory) Set(ctx context.Context, key string, value interface{}, ttlSeconds int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[key] = value
	return nil
}

func (f *fakeMemory) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, key)
	return nil
}

type fakeStore struct {
	mu         sync.Mutex
	entries    map[string]ports.CacheEntry
	failWrites bool
	reads      int
	writes     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[string]ports.CacheEntry)}
}

func (f *fakeStore) Read(ctx context.Context, key string) (ports.CacheEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	entry, ok := f.entries[key]
	return entry, ok
}

func (f *fakeStore) Write(ctx context.Context, key string, payload json.RawMessage, ttlSeconds int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.failWrites {
		return false
	}
	f.entries[key] = ports.NewCacheEntry(key, payload, ttlSeconds, time.Now())
	return true
}

func (f *fakeStore) Stats(ctx context.Context) (ports.CacheStats, error) {
	return ports.CacheStats{}, nil
}

func (f *fakeStore) SweepExpired(ctx context.Context) (int, error) {
	return 0, nil
}

func (f *fakeStore) entry(key string) (ports.CacheEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[key]
	return entry, ok
}

func (f *fakeStore) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

// fakeCatalog serves a fixed media list and counts upstream calls. Failures
// can be injected per query type.
type fakeCatalog struct {
	mu       sync.Mutex
	calls    int
	delay    time.Duration
	media    []catalog.Media
	failures map[string]error
}

func newFakeCatalog(media ...catalog.Media) *fakeCatalog {
	return &fakeCatalog{media: media, failures: make(map[string]error)}
}

func (f *fakeCatalog) list(ctx context.Context, queryType string) ([]catalog.Media, error) {
	f.mu.Lock()
	f.calls++
	err := f.failures[queryType]
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return f.media, nil
}

func (f *fakeCatalog) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeCatalog) Trending(ctx context.Context, limit int) ([]catalog.Media, error) {
	return f.list(ctx, QueryTrending)
}

func (f *fakeCatalog) Monthly(ctx context.Context, limit int) ([]catalog.Media, error) {
	return f.list(ctx, QueryMonthly)
}

func (f *fakeCatalog) Suggested(ctx context.Context, limit int, genres, excludeGenres []string) ([]catalog.Media, error) {
	return f.list(ctx, QuerySuggested)
}

func (f *fakeCatalog) Search(ctx context.Context, query string, limit int) ([]catalog.Media, error) {
	return f.list(ctx, QuerySearch)
}

func (f *fakeCatalog) Browse(ctx context.Context, page int, filters map[string]string) ([]catalog.Media, error) {
	return f.list(ctx, QueryBrowse)
}

func (f *fakeCatalog) MangaByID(ctx context.Context, id int) (*catalog.Media, error) {
	media, err := f.list(ctx, QueryManga)
	if err != nil {
		return nil, err
	}
	if len(media) == 0 {
		return nil, nil
	}
	return &media[0], nil
}

func (f *fakeCatalog) RandomByGenre(ctx context.Context, genre string) (*catalog.Media, error) {
	media, err := f.list(ctx, "random")
	if err != nil {
		return nil, err
	}
	if len(media) == 0 {
		return nil, nil
	}
	return &media[0], nil
}

func sampleMedia() []catalog.Media {
	return []catalog.Media{
		{
			ID:           101,
			Title:        catalog.MediaTitle{Romaji: "Yotsuba to!", English: "Yotsuba&!"},
			AverageScore: 86,
			Popularity:   42000,
			StartDate:    catalog.FuzzyDate{Year: 2003},
			Genres:       []string{"Comedy", "Slice of Life"},
		},
		{
			ID:           202,
			Title:        catalog.MediaTitle{Romaji: "Dungeon Meshi"},
			AverageScore: 84,
			Popularity:   91000,
			StartDate:    catalog.FuzzyDate{Year: 2014},
			Genres:       []string{"Adventure", "Fantasy"},
		},
	}
}
