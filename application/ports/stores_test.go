package ports

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewCacheEntryExpiry(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	entry := NewCacheEntry("trending:10", json.RawMessage(`[]`), 100, now)

	assert.Equal(t, now.UnixMilli(), entry.FetchedAt)
	assert.Equal(t, now.UnixMilli()+100_000, entry.ExpiresAt)
	assert.Equal(t, 100, entry.TTLSeconds)

	assert.False(t, entry.Expired(now))
	assert.False(t, entry.Expired(now.Add(99_999*time.Millisecond)))
	assert.False(t, entry.Expired(now.Add(100_000*time.Millisecond)), "expiry boundary is exclusive")
	assert.True(t, entry.Expired(now.Add(100_001*time.Millisecond)))
}

func TestCacheEntryRemainingTTL(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	entry := NewCacheEntry("manga:42", json.RawMessage(`{}`), 100, now)

	assert.Equal(t, 100, entry.RemainingTTL(now))
	assert.Equal(t, 60, entry.RemainingTTL(now.Add(40*time.Second)))
	assert.Equal(t, 0, entry.RemainingTTL(now.Add(101*time.Second)))
}

func TestRateLimitRecordExpired(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	record := RateLimitRecord{Count: 3, ResetTime: now.UnixMilli() + 60_000}

	assert.False(t, record.Expired(now))
	assert.False(t, record.Expired(time.UnixMilli(record.ResetTime)))
	assert.True(t, record.Expired(time.UnixMilli(record.ResetTime+1)))
}
