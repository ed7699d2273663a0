package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mangalearn-api/application/ports"
)

// SchedulerConfig carries the refresh intervals and the TTL written by
// scheduled refreshes. The TTL is deliberately longer than every interval
// so a single missed cycle serves staler data instead of none.
type SchedulerConfig struct {
	TrendingInterval  time.Duration
	MonthlyInterval   time.Duration
	SuggestedInterval time.Duration
	TTLSeconds        int

	SuggestedGenres        []string
	SuggestedExcludeGenres []string
}

// Scheduler proactively re-populates the durable store for the home-page
// query types, independent of user traffic. It bypasses the read path and
// never touches the memory tier; that tier self-heals on the next read.
type Scheduler struct {
	store  ports.CacheStore
	client ports.CatalogClient
	cfg    SchedulerConfig
	logger *zap.Logger

	stopChan    chan struct{}
	stoppedChan chan struct{}
}

// NewScheduler creates a refresh scheduler
func NewScheduler(store ports.CacheStore, client ports.CatalogClient, cfg SchedulerConfig, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		store:       store,
		client:      client,
		cfg:         cfg,
		logger:      logger,
		stopChan:    make(chan struct{}),
		stoppedChan: make(chan struct{}),
	}
}

// Start begins the background refresh loop and triggers one immediate
// refresh of all query types in parallel
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("starting refresh scheduler",
		zap.Duration("trendingInterval", s.cfg.TrendingInterval),
		zap.Duration("monthlyInterval", s.cfg.MonthlyInterval),
		zap.Duration("suggestedInterval", s.cfg.SuggestedInterval),
		zap.Int("ttlSeconds", s.cfg.TTLSeconds),
	)

	s.refreshAll(ctx)
	go s.run(ctx)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("stopping refresh scheduler")
	close(s.stopChan)
	<-s.stoppedChan
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.stoppedChan)

	trending := time.NewTicker(s.cfg.TrendingInterval)
	defer trending.Stop()
	monthly := time.NewTicker(s.cfg.MonthlyInterval)
	defer monthly.Stop()
	suggested := time.NewTicker(s.cfg.SuggestedInterval)
	defer suggested.Stop()

	for {
		select {
		case <-trending.C:
			s.refreshTrending(ctx)
		case <-monthly.C:
			s.refreshMonthly(ctx)
		case <-suggested.C:
			s.refreshSuggested(ctx)
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// refreshAll fires every refresh concurrently. Each job isolates its own
// failure; one failing refresh never blocks or aborts the others.
func (s *Scheduler) refreshAll(ctx context.Context) {
	go s.refreshTrending(ctx)
	go s.refreshMonthly(ctx)
	go s.refreshSuggested(ctx)
}

func (s *Scheduler) refreshTrending(ctx context.Context) bool {
	return s.refresh(ctx, QueryTrending, Params{Limit: DefaultTrendingLimit}, func(ctx context.Context) (interface{}, error) {
		return s.client.Trending(ctx, DefaultTrendingLimit)
	})
}

func (s *Scheduler) refreshMonthly(ctx context.Context) bool {
	return s.refresh(ctx, QueryMonthly, Params{Limit: DefaultMonthlyLimit}, func(ctx context.Context) (interface{}, error) {
		return s.client.Monthly(ctx, DefaultMonthlyLimit)
	})
}

func (s *Scheduler) refreshSuggested(ctx context.Context) bool {
	p := Params{
		Limit:         DefaultSuggestedLimit,
		Genres:        s.cfg.SuggestedGenres,
		ExcludeGenres: s.cfg.SuggestedExcludeGenres,
	}
	return s.refresh(ctx, QuerySuggested, p, func(ctx context.Context) (interface{}, error) {
		return s.client.Suggested(ctx, DefaultSuggestedLimit, s.cfg.SuggestedGenres, s.cfg.SuggestedExcludeGenres)
	})
}

// refresh fetches one query type from upstream and writes it straight to
// the durable store. Returns whether the refresh succeeded.
func (s *Scheduler) refresh(ctx context.Context, queryType string, p Params, fetch func(context.Context) (interface{}, error)) bool {
	runID := uuid.NewString()
	key := BuildKey(queryType, p)
	started := time.Now()

	result, err := fetch(ctx)
	if err != nil {
		s.logger.Error("scheduled refresh failed",
			zap.String("runID", runID),
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}

	payload, err := json.Marshal(result)
	if err != nil {
		s.logger.Error("scheduled refresh marshal failed",
			zap.String("runID", runID),
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}

	if !s.store.Write(ctx, key, payload, s.cfg.TTLSeconds) {
		s.logger.Error("scheduled refresh write failed",
			zap.String("runID", runID),
			zap.String("key", key),
		)
		return false
	}

	s.logger.Info("scheduled refresh completed",
		zap.String("runID", runID),
		zap.String("key", key),
		zap.Duration("duration", time.Since(started)),
	)
	return true
}
