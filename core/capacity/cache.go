// Package capacity - TTL-bounded cache for capacity results
// Stale capacity data is silent failure; entries past their TTL are never
// returned as valid.
package capacity

import (
	"sync"
	"time"

	"cloud-planner/core/model"
)

// cacheEntry pairs a result with its write timestamp.
type cacheEntry struct {
	result   model.CapacityResult
	storedAt time.Time
}

// Cache is an in-memory TTL cache for capacity results, safe for concurrent
// use by the aggregator's workers. A single mutex guards the map, so the
// check-then-evict sequence in Get is atomic per key. Eviction is lazy on
// read, with ClearExpired available as an explicit sweep.
type Cache struct {
	ttl   time.Duration
	clock func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock injects a clock, for deterministic expiry in tests.
func WithClock(clock func() time.Time) CacheOption {
	return func(c *Cache) { c.clock = clock }
}

// DefaultTTL is the capacity cache lifetime when none is configured.
const DefaultTTL = 5 * time.Minute

// NewCache creates a cache whose entries expire ttl after being set.
// A non-positive ttl falls back to DefaultTTL.
func NewCache(ttl time.Duration, opts ...CacheOption) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		ttl:     ttl,
		clock:   func() time.Time { return time.Now().UTC() },
		entries: make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// key derives the deterministic, collision-free cache key for a triple.
// Fields are joined with "/" which none of the identifiers contain.
func key(provider model.Provider, region model.Region, resourceType string) string {
	return string(provider) + "/" + string(region) + "/" + resourceType
}

// Get returns the cached result for the triple if it is still within TTL.
// An expired entry is evicted and reported as absent.
func (c *Cache) Get(provider model.Provider, region model.Region, resourceType string) (model.CapacityResult, bool) {
	k := key(provider, region, resourceType)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[k]
	if !ok {
		return model.CapacityResult{}, false
	}
	if c.clock().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, k)
		return model.CapacityResult{}, false
	}
	return entry.result, true
}

// Set stores a result with the current timestamp, overwriting any prior
// entry for the same key (last write wins).
func (c *Cache) Set(provider model.Provider, region model.Region, resourceType string, result model.CapacityResult) {
	k := key(provider, region, resourceType)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[k] = cacheEntry{result: result, storedAt: c.clock()}
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]cacheEntry)
}

// ClearExpired removes only entries past their TTL.
func (c *Cache) ClearExpired() {
	now := c.clock()

	c.mu.Lock()
	defer c.mu.Unlock()

	for k, entry := range c.entries {
		if now.Sub(entry.storedAt) > c.ttl {
			delete(c.entries, k)
		}
	}
}

// Size reports the number of entries, including any not yet lazily evicted.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
