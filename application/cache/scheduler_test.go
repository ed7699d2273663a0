package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestScheduler(store *fakeStore, client *fakeCatalog, cfg SchedulerConfig) *Scheduler {
	if cfg.TrendingInterval == 0 {
		cfg.TrendingInterval = time.Hour
	}
	if cfg.MonthlyInterval == 0 {
		cfg.MonthlyInterval = time.Hour
	}
	if cfg.SuggestedInterval == 0 {
		cfg.SuggestedInterval = time.Hour
	}
	if cfg.TTLSeconds == 0 {
		cfg.TTLSeconds = 7200
	}
	return NewScheduler(store, client, cfg, zap.NewNop())
}

func TestRefreshWritesDurableStore(t *testing.T) {
	store := newFakeStore()
	client := newFakeCatalog(sampleMedia()...)
	s := newTestScheduler(store, client, SchedulerConfig{})

	ok := s.refreshTrending(context.Background())

	require.True(t, ok)
	entry, found := store.entry("trending:10")
	require.True(t, found)
	assert.Equal(t, 7200, entry.TTLSeconds, "scheduled refreshes write the long TTL")

	want, err := json.Marshal(sampleMedia())
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(entry.Payload))
}

func TestRefreshSuggestedUsesConfiguredGenres(t *testing.T) {
	store := newFakeStore()
	client := newFakeCatalog(sampleMedia()...)
	s := newTestScheduler(store, client, SchedulerConfig{
		SuggestedGenres:        []string{"Drama", "Action"},
		SuggestedExcludeGenres: []string{"Horror"},
	})

	require.True(t, s.refreshSuggested(context.Background()))

	_, found := store.entry("suggested:4:Action,Drama:Horror")
	assert.True(t, found, "suggested key must embed the sorted configured genres")
}

func TestRefreshFailureDoesNotWrite(t *testing.T) {
	store := newFakeStore()
	client := newFakeCatalog(sampleMedia()...)
	client.failures[QueryTrending] = errors.New("upstream down")
	s := newTestScheduler(store, client, SchedulerConfig{})

	ok := s.refreshTrending(context.Background())

	assert.False(t, ok)
	assert.Equal(t, 0, store.writeCount())
}

func TestRefreshAllIsolatesFailures(t *testing.T) {
	store := newFakeStore()
	client := newFakeCatalog(sampleMedia()...)
	client.failures[QueryMonthly] = errors.New("upstream down")
	s := newTestScheduler(store, client, SchedulerConfig{})

	s.refreshAll(context.Background())

	assert.Eventually(t, func() bool {
		_, trending := store.entry("trending:10")
		_, suggested := store.entry("suggested:4::")
		return trending && suggested
	}, time.Second, 10*time.Millisecond, "healthy refreshes must complete despite the failing one")

	_, monthly := store.entry("monthly:15")
	assert.False(t, monthly)
}

func TestStartStop(t *testing.T) {
	store := newFakeStore()
	client := newFakeCatalog(sampleMedia()...)
	s := newTestScheduler(store, client, SchedulerConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx)

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}
