package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetDelete(t *testing.T) {
	c := NewProcessCache()
	defer c.Stop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 60))

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	require.NoError(t, c.Delete(ctx, "k"))
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestExpiredEntriesBehaveAsAbsent(t *testing.T) {
	c := NewProcessCache()
	defer c.Stop()
	ctx := context.Background()

	base := time.Now()
	current := base
	c.now = func() time.Time { return current }

	require.NoError(t, c.Set(ctx, "k", "v", 10))

	current = base.Add(9 * time.Second)
	_, ok := c.Get(ctx, "k")
	assert.True(t, ok)

	current = base.Add(11 * time.Second)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)

	// Lazy expiry leaves the entry in place until a sweep runs.
	assert.Equal(t, 1, c.Len())
	c.sweep()
	assert.Equal(t, 0, c.Len())
}

func TestNonPositiveTTLFallsBackToDefault(t *testing.T) {
	c := NewProcessCache()
	defer c.Stop()
	ctx := context.Background()

	base := time.Now()
	current := base
	c.now = func() time.Time { return current }

	require.NoError(t, c.Set(ctx, "k", "v", 0))

	current = base.Add(time.Duration(DefaultTTLSeconds-1) * time.Second)
	_, ok := c.Get(ctx, "k")
	assert.True(t, ok)

	current = base.Add(time.Duration(DefaultTTLSeconds+1) * time.Second)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestSweepOnlyRemovesExpired(t *testing.T) {
	c := NewProcessCache()
	defer c.Stop()
	ctx := context.Background()

	base := time.Now()
	current := base
	c.now = func() time.Time { return current }

	require.NoError(t, c.Set(ctx, "short", 1, 10))
	require.NoError(t, c.Set(ctx, "long", 2, 600))

	current = base.Add(30 * time.Second)
	c.sweep()

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get(ctx, "long")
	assert.True(t, ok)
}
