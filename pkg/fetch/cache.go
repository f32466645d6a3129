package fetch

import (
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// DefaultCacheSize bounds the number of cached documents.
	DefaultCacheSize = 256

	// DefaultCacheTTL is how long a cached document stays fresh.
	DefaultCacheTTL = 5 * time.Minute
)

// Cache is a TTL-bounded LRU of fetched documents keyed by rule path.
// It is safe for concurrent use; on a concurrent miss for the same key the
// last writer wins, which is harmless since both fetched the same content.
type Cache struct {
	lru    *lru.LRU[string, []byte]
	hits   atomic.Int64
	misses atomic.Int64
}

// CacheStats is a point-in-time snapshot of cache effectiveness.
type CacheStats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Size    int     `json:"size"`
	HitRate float64 `json:"hitRate"`
}

// NewCache creates a cache holding up to size documents for ttl each.
// Non-positive arguments fall back to the defaults.
func NewCache(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}

	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &Cache{
		lru: lru.NewLRU[string, []byte](size, nil, ttl),
	}
}

// Get returns the cached document and whether it was present and fresh.
func (c *Cache) Get(path string) ([]byte, bool) {
	data, ok := c.lru.Get(path)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}

	return data, ok
}

// Set stores a document under its path.
func (c *Cache) Set(path string, data []byte) {
	c.lru.Add(path, data)
}

// Has reports presence without touching hit and miss counters.
func (c *Cache) Has(path string) bool {
	return c.lru.Contains(path)
}

// Delete evicts one path.
func (c *Cache) Delete(path string) {
	c.lru.Remove(path)
}

// Clear evicts everything. Counters are kept; they describe the process
// lifetime, not the current contents.
func (c *Cache) Clear() {
	c.lru.Purge()
}

// Stats snapshots the counters.
func (c *Cache) Stats() CacheStats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	stats := CacheStats{
		Hits:   hits,
		Misses: misses,
		Size:   c.lru.Len(),
	}

	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}

	return stats
}
