// internal/app/analytics/cache_test.go
package analytics

import (
	"testing"
	"time"
)

func TestCacheHitReturnsSamePayload(t *testing.T) {
	c := NewReportCache(time.Minute)
	rep := &GlobalReport{Meta: Meta{Range: "4w"}}

	c.Set("global:u1:4w", rep)
	got, ok := c.Get("global:u1:4w")
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if got.(*GlobalReport) != rep {
		t.Fatal("hit must return the stored payload unmodified")
	}
}

func TestCacheMiss(t *testing.T) {
	c := NewReportCache(time.Minute)
	if _, ok := c.Get("nope"); ok {
		t.Fatal("unexpected hit for unknown key")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewReportCache(time.Minute)
	clock := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	c.Set("k", "v")
	if _, ok := c.Get("k"); !ok {
		t.Fatal("expected hit inside TTL")
	}

	clock = clock.Add(61 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after TTL elapsed")
	}
}

func TestCacheSetSweepsExpired(t *testing.T) {
	c := NewReportCache(time.Minute)
	clock := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	c.Set("old", 1)
	clock = clock.Add(2 * time.Minute)
	c.Set("new", 2)

	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after sweeping the expired entry", c.Len())
	}
}

func TestCacheDefaultTTL(t *testing.T) {
	c := NewReportCache(0)
	if c.ttl != DefaultCacheTTL {
		t.Fatalf("ttl = %v, want %v", c.ttl, DefaultCacheTTL)
	}
}

func TestCacheKey(t *testing.T) {
	if got := CacheKey("facility", "u1", "f1", "4w"); got != "facility:u1:f1:4w" {
		t.Fatalf("CacheKey() = %q", got)
	}
}
