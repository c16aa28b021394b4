package dict

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	mu     sync.Mutex
	calls  map[string]int
	rows   map[string][]Entry
	err    error
	failAt int // fail starting from this call number (0 = never)
}

func (f *countingFetcher) FetchDictionary(_ context.Context, table string) ([]Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[table]++
	if f.failAt > 0 && f.calls[table] >= f.failAt {
		return nil, f.err
	}
	return f.rows[table], nil
}

func (f *countingFetcher) count(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[table]
}

func fixedClock(t *time.Time) func() time.Time {
	return func() time.Time { return *t }
}

func TestCache_HitWithinTTL(t *testing.T) {
	fetcher := &countingFetcher{rows: map[string][]Entry{
		"locations": {{ID: 2, Name: "Hồ Chí Minh"}},
	}}
	now := time.Now()
	cache := NewCache(fetcher, 10*time.Minute).WithClock(fixedClock(&now))

	id, ok := cache.Resolve(context.Background(), "locations", "hồ chí minh")
	require.True(t, ok)
	assert.Equal(t, int64(2), id)

	// Second resolution within the TTL must not re-fetch.
	id, ok = cache.Resolve(context.Background(), "locations", "ho chi minh")
	require.True(t, ok)
	assert.Equal(t, int64(2), id)
	assert.Equal(t, 1, fetcher.count("locations"))
}

func TestCache_RefetchAfterExpiry(t *testing.T) {
	fetcher := &countingFetcher{rows: map[string][]Entry{
		"locations": {{ID: 1, Name: "Hà Nội"}},
	}}
	now := time.Now()
	cache := NewCache(fetcher, 10*time.Minute).WithClock(fixedClock(&now))

	_, err := cache.Entries(context.Background(), "locations")
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.count("locations"))

	now = now.Add(11 * time.Minute)

	_, err = cache.Entries(context.Background(), "locations")
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.count("locations"))
}

func TestCache_TablesAreIndependent(t *testing.T) {
	fetcher := &countingFetcher{rows: map[string][]Entry{
		"locations":  {{ID: 1, Name: "Hà Nội"}},
		"job_fields": {{ID: 10, Name: "Kế toán"}},
	}}
	cache := NewCache(fetcher, time.Minute)

	_, err := cache.Entries(context.Background(), "locations")
	require.NoError(t, err)
	_, err = cache.Entries(context.Background(), "job_fields")
	require.NoError(t, err)

	assert.Equal(t, 1, fetcher.count("locations"))
	assert.Equal(t, 1, fetcher.count("job_fields"))
}

func TestCache_ServesStaleOnRefreshFailure(t *testing.T) {
	fetcher := &countingFetcher{
		rows:   map[string][]Entry{"locations": {{ID: 1, Name: "Hà Nội"}}},
		err:    errors.New("db down"),
		failAt: 2,
	}
	now := time.Now()
	cache := NewCache(fetcher, time.Minute).WithClock(fixedClock(&now))

	_, err := cache.Entries(context.Background(), "locations")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)

	rows, err := cache.Entries(context.Background(), "locations")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestCache_FirstFetchFailurePropagates(t *testing.T) {
	fetcher := &countingFetcher{err: errors.New("db down"), failAt: 1}
	cache := NewCache(fetcher, time.Minute)

	_, err := cache.Entries(context.Background(), "locations")
	assert.Error(t, err)

	_, ok := cache.Resolve(context.Background(), "locations", "hà nội")
	assert.False(t, ok)
}
