package fflogs

import (
	"encoding/json"
	"sync"
	"time"
)

// cacheEpoch is the whole-cache expiry window. The analytics service refreshes
// its underlying data hourly at most, so per-entry TTLs add no value.
const cacheEpoch = time.Hour

type cacheEntry struct {
	payload    json.RawMessage
	insertedAt time.Time
}

// ResultCache maps a query fingerprint to a previously fetched response. All
// entries share one epoch: once more than an hour has passed since the last
// epoch check, the entire cache is cleared in bulk. Safe for concurrent use.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	epoch   time.Time
	now     func() time.Time
}

// NewResultCache creates an empty cache.
func NewResultCache() *ResultCache {
	return &ResultCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// CheckEpoch must be called before every cache read in a request path. The
// first check records the epoch; a check more than cacheEpoch after the
// recorded epoch clears the whole cache and resets it.
func (c *ResultCache) CheckEpoch() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.epoch.IsZero() {
		c.epoch = now
		return
	}
	if now.Sub(c.epoch) > cacheEpoch {
		c.entries = make(map[string]cacheEntry)
		c.epoch = now
	}
}

// Get returns the cached payload for a fingerprint, or nil.
func (c *ResultCache) Get(fingerprint string) json.RawMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[fingerprint]; ok {
		return e.payload
	}
	return nil
}

// Put stores a payload under a fingerprint. Puts are idempotent.
func (c *ResultCache) Put(fingerprint string, payload json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fingerprint] = cacheEntry{payload: payload, insertedAt: c.now()}
}

// Invalidate removes a single entry.
func (c *ResultCache) Invalidate(fingerprint string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, fingerprint)
}

// Clear removes every entry and resets the epoch.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
	c.epoch = c.now()
}

// Len returns the number of cached entries.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
