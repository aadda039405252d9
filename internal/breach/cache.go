package breach

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Entry is one cached range-query response: every known breached hash
// suffix sharing Prefix, with its breach count. Entries are replaced whole
// on refetch, never merged.
type Entry struct {
	Prefix    string         `json:"prefix"`
	Matches   map[string]int `json:"matches"`
	FetchedAt time.Time      `json:"fetched_at"`
}

// Cache stores range-query responses keyed by 5-hex-character hash prefix.
// Implementations must be safe for concurrent use and must replace a stale
// entry atomically on Put. Expired entries are reported as absent.
//
// Duplicate concurrent fetches for the same prefix are tolerated by design;
// there is no single-flight coordination.
type Cache interface {
	Get(ctx context.Context, prefix string) (Entry, bool)
	Put(ctx context.Context, prefix string, entry Entry) error
}

// MemoryCache is the default in-process Cache, backed by an expiring
// key/value store. Capacity is unbounded; the keyspace is at most 16^5
// prefixes so TTL expiry is the only eviction needed.
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates a MemoryCache whose entries expire after ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(ttl, 10*time.Minute)}
}

func (c *MemoryCache) Get(_ context.Context, prefix string) (Entry, bool) {
	v, ok := c.store.Get(normalizePrefix(prefix))
	if !ok {
		return Entry{}, false
	}
	return v.(Entry), true
}

func (c *MemoryCache) Put(_ context.Context, prefix string, entry Entry) error {
	c.store.SetDefault(normalizePrefix(prefix), entry)
	return nil
}

func normalizePrefix(prefix string) string {
	return strings.ToUpper(prefix)
}
