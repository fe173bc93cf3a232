package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/searchforge/cardfuse/internal/fuse"
	"github.com/searchforge/cardfuse/internal/names"
)

// Cache is a lightweight in-memory result cache with TTL. Results are
// deterministic for a fixed engine generation, so caching is purely a
// latency optimization and can never change an answer.
type Cache struct {
	ttl   time.Duration
	mu    sync.RWMutex
	store map[string]cacheEntry
}

type cacheEntry struct {
	result   *Result
	storedAt time.Time
}

// NewCache returns a cache; zero ttl disables caching.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:   ttl,
		store: make(map[string]cacheEntry),
	}
}

// Get retrieves a cached result if still fresh.
func (c *Cache) Get(key string) (*Result, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, false
	}

	c.mu.RLock()
	entry, ok := c.store[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Since(entry.storedAt) > c.ttl {
		c.mu.Lock()
		delete(c.store, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.result, true
}

// Set stores a result.
func (c *Cache) Set(key string, result *Result) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.store[key] = cacheEntry{result: result, storedAt: time.Now()}
	c.mu.Unlock()
}

// buildCacheKey hashes everything that influences a query's output.
func buildCacheKey(resolved names.Key, topK int, kind fuse.Kind, rrfK int, weights fuse.Weights, mmr MMRConfig, mustInclude []names.Key) string {
	payload := map[string]any{
		"query":        string(resolved),
		"top_k":        topK,
		"aggregator":   string(kind),
		"rrf_k":        rrfK,
		"weights":      weights.Fingerprint(),
		"mmr_enabled":  mmr.Enabled,
		"mmr_lambda":   mmr.Lambda,
		"must_include": mustInclude,
	}
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
