// internal/app/analytics/cache.go
package analytics

import (
	"strings"
	"sync"
	"time"
)

// DefaultCacheTTL bounds the staleness window of cached reports. Writes
// elsewhere in the system do not invalidate; analytics are near-real-time,
// not strictly consistent.
const DefaultCacheTTL = 60 * time.Second

type cacheEntry struct {
	payload any
	expires time.Time
}

// ReportCache memoizes assembled report payloads per (scope, identity,
// range) key. It is a process-local map: under multi-instance deployment,
// coherency is per instance, which the short TTL makes acceptable.
//
// A hit returns the cached payload unmodified, including its original
// meta.generatedAt. The cache is purely an optimization; recomputing is
// always safe.
type ReportCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

// NewReportCache builds a cache with the given TTL; ttl <= 0 uses
// DefaultCacheTTL.
func NewReportCache(ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ReportCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached payload for key with an expiry-checked read.
func (c *ReportCache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(e.expires) {
		return nil, false
	}
	return e.payload, true
}

// Set stores payload under key and opportunistically drops expired entries.
func (c *ReportCache) Set(key string, payload any) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{payload: payload, expires: now.Add(c.ttl)}
}

// Len reports the number of stored entries, expired or not.
func (c *ReportCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CacheKey joins key parts with the ':' separator used throughout. Keys
// take the shape scope:viewer[:target][:facility]:range. The viewer
// segment stands in for a role segment too: roles here are per-facility
// attributes of the user, fully determined by the viewer's identity, so a
// separate role part could never split or merge entries.
func CacheKey(parts ...string) string {
	return strings.Join(parts, ":")
}
