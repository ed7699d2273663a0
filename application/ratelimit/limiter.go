// Package ratelimit gates abuse-prone endpoints with fixed windows tracked
// in process memory and mirrored to a durable store, so limits survive
// restarts and apply across instances.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mangalearn-api/application/ports"
)

const persistTimeout = 5 * time.Second

// Result is the outcome of a limit check. A denial is a normal return
// value, not an error.
type Result struct {
	Allowed    bool  `json:"allowed"`
	Remaining  int   `json:"remaining"`
	ResetTime  int64 `json:"resetTime"`
	RetryAfter int   `json:"retryAfter,omitempty"` // seconds; zero when allowed
}

// Limiter implements fixed-window rate limiting over a memory tier and a
// durable tier. Any internal failure fails open: under-enforcing a limit
// costs less than blocking legitimate traffic on an infrastructure hiccup.
type Limiter struct {
	memory ports.MemoryCache
	store  ports.RateLimitStore
	logger *zap.Logger
	now    func() time.Time
}

// NewLimiter creates a rate limiter
func NewLimiter(memory ports.MemoryCache, store ports.RateLimitStore, logger *zap.Logger) *Limiter {
	return &Limiter{
		memory: memory,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// CheckLimit consumes one request for the identifier if the window has
// capacity. Denied requests do not increment the count.
func (l *Limiter) CheckLimit(ctx context.Context, identifier string, limit, windowSeconds int, strategy string) Result {
	result, err := l.check(ctx, identifier, limit, windowSeconds, strategy)
	if err != nil {
		l.logger.Error("rate limit check failed, failing open",
			zap.String("strategy", strategy),
			zap.String("identifier", identifier),
			zap.Error(err),
		)
		return Result{
			Allowed:   true,
			Remaining: limit,
			ResetTime: l.now().UnixMilli() + int64(windowSeconds)*1000,
		}
	}
	return result
}

// Check applies a named policy
func (l *Limiter) Check(ctx context.Context, identifier string, p Policy) Result {
	return l.CheckLimit(ctx, identifier, p.Limit, p.WindowSeconds, p.Strategy)
}

func (l *Limiter) check(ctx context.Context, identifier string, limit, windowSeconds int, strategy string) (Result, error) {
	key := recordKey(strategy, identifier)
	now := l.now()

	record, err := l.lookup(ctx, key, windowSeconds, now)
	if err != nil {
		return Result{}, err
	}

	if record.Count >= limit {
		retryAfter := (record.ResetTime - now.UnixMilli() + 999) / 1000
		if retryAfter < 0 {
			retryAfter = 0
		}
		return Result{
			Allowed:    false,
			Remaining:  0,
			ResetTime:  record.ResetTime,
			RetryAfter: int(retryAfter),
		}, nil
	}

	record.Count++
	l.cacheRecord(ctx, key, record, now)
	l.persistAsync(key, record)

	return Result{
		Allowed:   true,
		Remaining: limit - record.Count,
		ResetTime: record.ResetTime,
	}, nil
}

// lookup finds the current window record, resetting or creating it as
// needed. A record whose window has lapsed behaves exactly like a brand-new
// identifier.
func (l *Limiter) lookup(ctx context.Context, key string, windowSeconds int, now time.Time) (ports.RateLimitRecord, error) {
	if value, ok := l.memory.Get(ctx, key); ok {
		if record, ok := value.(ports.RateLimitRecord); ok && !record.Expired(now) {
			return record, nil
		}
	}

	stored, err := l.store.Get(ctx, key)
	if err != nil {
		return ports.RateLimitRecord{}, err
	}

	if stored == nil || stored.Expired(now) {
		record := ports.RateLimitRecord{
			Count:     0,
			ResetTime: now.UnixMilli() + int64(windowSeconds)*1000,
			CreatedAt: now.UnixMilli(),
		}
		if err := l.store.Put(ctx, key, record); err != nil {
			return ports.RateLimitRecord{}, err
		}
		return record, nil
	}

	l.cacheRecord(ctx, key, *stored, now)
	return *stored, nil
}

// cacheRecord stores a copy in the memory tier for the remainder of the
// window
func (l *Limiter) cacheRecord(ctx context.Context, key string, record ports.RateLimitRecord, now time.Time) {
	remaining := int((record.ResetTime - now.UnixMilli()) / 1000)
	if remaining <= 0 {
		return
	}
	if err := l.memory.Set(ctx, key, record, remaining); err != nil {
		l.logger.Warn("rate limit memory cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// persistAsync writes the incremented count through to the durable store
// off the request path. A lost write under-counts by one, which is
// accepted; the failure is still logged for monitoring.
func (l *Limiter) persistAsync(key string, record ports.RateLimitRecord) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := l.store.Put(ctx, key, record); err != nil {
			l.logger.Error("async rate limit persist failed", zap.String("key", key), zap.Error(err))
		}
	}()
}

// ResetLimit clears the window for an identifier unconditionally
func (l *Limiter) ResetLimit(ctx context.Context, identifier, strategy string) error {
	key := recordKey(strategy, identifier)
	if err := l.memory.Delete(ctx, key); err != nil {
		l.logger.Warn("rate limit memory delete failed", zap.String("key", key), zap.Error(err))
	}
	return l.store.Delete(ctx, key)
}

// CleanupExpired removes all lapsed windows from the durable store. Pure
// storage hygiene; CheckLimit is correct without it.
func (l *Limiter) CleanupExpired(ctx context.Context) (int, error) {
	return l.store.DeleteExpired(ctx)
}

func recordKey(strategy, identifier string) string {
	return fmt.Sprintf("ratelimit:%s:%s", strategy, identifier)
}
