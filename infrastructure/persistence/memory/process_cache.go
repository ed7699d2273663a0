// Package memory provides the process-local cache tier. Contents are lost
// on restart; the tier only exists to avoid redundant durable store
// round-trips within one process's uptime.
package memory

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultTTLSeconds applies when a caller does not specify a TTL
	DefaultTTLSeconds = 3600

	defaultSweepInterval = 10 * time.Minute
)

// ProcessCache is an in-memory TTL cache. Expired entries are dropped
// lazily on access and by a periodic background sweep.
type ProcessCache struct {
	mu    sync.RWMutex
	items map[string]cacheItem

	sweepInterval time.Duration
	stopChan      chan struct{}
	stopOnce      sync.Once
	now           func() time.Time
}

type cacheItem struct {
	value     interface{}
	expiresAt time.Time
}

// NewProcessCache creates a process cache and starts its sweep loop
func NewProcessCache() *ProcessCache {
	c := &ProcessCache{
		items:         make(map[string]cacheItem),
		sweepInterval: defaultSweepInterval,
		stopChan:      make(chan struct{}),
		now:           time.Now,
	}

	go c.sweepLoop()

	return c
}

// Get retrieves a value; expired entries behave as absent
func (c *ProcessCache) Get(ctx context.Context, key string) (interface{}, bool) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if !exists || c.now().After(item.expiresAt) {
		return nil, false
	}

	return item.value, true
}

// Set stores a value with a TTL in seconds; non-positive TTLs fall back to
// DefaultTTLSeconds
func (c *ProcessCache) Set(ctx context.Context, key string, value interface{}, ttlSeconds int) error {
	if ttlSeconds <= 0 {
		ttlSeconds = DefaultTTLSeconds
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = cacheItem{
		value:     value,
		expiresAt: c.now().Add(time.Duration(ttlSeconds) * time.Second),
	}

	return nil
}

// Delete removes a value
func (c *ProcessCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	return nil
}

// Len returns the number of entries currently held, expired or not
func (c *ProcessCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Stop terminates the background sweep loop
func (c *ProcessCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
}

func (c *ProcessCache) sweepLoop() {
	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stopChan:
			return
		}
	}
}

func (c *ProcessCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
		}
	}
}
