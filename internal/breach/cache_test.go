package breach

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCachePutGet(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()

	entry := Entry{
		Prefix:    "5BAA6",
		Matches:   map[string]int{"1E4C9B93F3F0682250B6CF8331B7EE68FD8": 3861493},
		FetchedAt: time.Now(),
	}
	require.NoError(t, c.Put(ctx, "5BAA6", entry))

	got, ok := c.Get(ctx, "5BAA6")
	require.True(t, ok)
	assert.Equal(t, entry.Matches, got.Matches)

	_, ok = c.Get(ctx, "00000")
	assert.False(t, ok)
}

func TestMemoryCacheNormalizesPrefix(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "5baa6", Entry{Prefix: "5BAA6"}))

	_, ok := c.Get(ctx, "5BAA6")
	assert.True(t, ok)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(20 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "ABCDE", Entry{Prefix: "ABCDE"}))

	_, ok := c.Get(ctx, "ABCDE")
	require.True(t, ok)

	time.Sleep(50 * time.Millisecond)

	_, ok = c.Get(ctx, "ABCDE")
	assert.False(t, ok, "expired entries are reported as absent")
}

func newTestRedisCache(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(RedisConfig{URL: "redis://" + mr.Addr()}, ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c, mr
}

func TestRedisCachePutGet(t *testing.T) {
	c, _ := newTestRedisCache(t, time.Hour)
	ctx := context.Background()

	entry := Entry{
		Prefix:    "5BAA6",
		Matches:   map[string]int{"1E4C9B93F3F0682250B6CF8331B7EE68FD8": 3861493},
		FetchedAt: time.Now().UTC(),
	}
	require.NoError(t, c.Put(ctx, "5baa6", entry))

	got, ok := c.Get(ctx, "5BAA6")
	require.True(t, ok)
	assert.Equal(t, entry.Prefix, got.Prefix)
	assert.Equal(t, entry.Matches, got.Matches)

	_, ok = c.Get(ctx, "FFFFF")
	assert.False(t, ok)
}

func TestRedisCacheTTL(t *testing.T) {
	c, mr := newTestRedisCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "5BAA6", Entry{Prefix: "5BAA6"}))

	mr.FastForward(2 * time.Hour)

	_, ok := c.Get(ctx, "5BAA6")
	assert.False(t, ok, "Redis key expiry enforces the TTL")
}

func TestRedisCacheCorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestRedisCache(t, time.Hour)

	require.NoError(t, mr.Set(redisKeyPrefix+"5BAA6", "not json"))

	_, ok := c.Get(context.Background(), "5BAA6")
	assert.False(t, ok)
}

func TestNewRedisCacheBadURL(t *testing.T) {
	_, err := NewRedisCache(RedisConfig{URL: "://nope"}, time.Hour)
	assert.Error(t, err)
}
