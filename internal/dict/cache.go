// Package dict provides a TTL-bound in-memory snapshot of small
// reference tables (locations, job fields) used for fuzzy name-to-id
// resolution.
package dict

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a fetched reference table is served before
// being re-fetched. Staleness within this window is an accepted
// trade-off; ids are resolved best-effort.
const DefaultTTL = 10 * time.Minute

// Entry is one row of a reference table.
type Entry struct {
	ID   int64
	Name string
}

// Fetcher loads a full reference table from the backing store.
// Tables are expected to be small, a few hundred rows at most.
type Fetcher interface {
	FetchDictionary(ctx context.Context, table string) ([]Entry, error)
}

// Cache memoizes reference tables per table name with a fixed TTL.
// It is safe for concurrent use; concurrent refreshes of the same
// table are collapsed into a single fetch.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time

	mu     sync.RWMutex
	tables map[string]cachedTable

	group singleflight.Group
}

type cachedTable struct {
	rows      []Entry
	fetchedAt time.Time
}

// NewCache creates a cache around fetcher. A non-positive ttl selects
// DefaultTTL.
func NewCache(fetcher Fetcher, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
		tables:  make(map[string]cachedTable),
	}
}

// WithClock replaces the time source. Tests use this to control
// expiry deterministically.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Entries returns the cached rows for table, fetching on miss or
// after TTL expiry. When a refresh fails but a stale snapshot exists,
// the stale snapshot is served instead of an error.
func (c *Cache) Entries(ctx context.Context, table string) ([]Entry, error) {
	c.mu.RLock()
	cached, ok := c.tables[table]
	c.mu.RUnlock()
	if ok && c.now().Sub(cached.fetchedAt) < c.ttl {
		return cached.rows, nil
	}

	rows, err, _ := c.group.Do(table, func() (any, error) {
		rows, err := c.fetcher.FetchDictionary(ctx, table)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.tables[table] = cachedTable{rows: rows, fetchedAt: c.now()}
		c.mu.Unlock()
		return rows, nil
	})
	if err != nil {
		if ok {
			return cached.rows, nil
		}
		return nil, err
	}
	return rows.([]Entry), nil
}

// Resolve finds the id for a fuzzy name in table. The boolean reports
// whether a match was found; failure to resolve is not an error.
func (c *Cache) Resolve(ctx context.Context, table, name string) (int64, bool) {
	rows, err := c.Entries(ctx, table)
	if err != nil {
		return 0, false
	}
	return Match(rows, name)
}

// Match returns the first entry whose normalized name contains, or is
// contained in, the normalized needle.
func Match(rows []Entry, name string) (int64, bool) {
	needle := Normalize(name)
	if needle == "" {
		return 0, false
	}
	for _, e := range rows {
		n := Normalize(e.Name)
		if n == "" {
			continue
		}
		if strings.Contains(n, needle) || strings.Contains(needle, n) {
			return e.ID, true
		}
	}
	return 0, false
}
