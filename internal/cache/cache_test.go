// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package cache

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestCache(ttl time.Duration) (*Cache, *fakeClock) {
	clock := newFakeClock()
	c := New(ttl, WithClock(clock.Now), WithCleanupInterval(0))
	return c, clock
}

func TestCacheBasicOperations(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	if _, exists = c.Get("key2"); exists {
		t.Error("Expected key2 to not exist")
	}
}

func TestCacheExpiration(t *testing.T) {
	c, clock := newTestCache(5 * time.Minute)

	c.Set("key1", "value1")

	clock.Advance(5*time.Minute - time.Second)
	if _, exists := c.Get("key1"); !exists {
		t.Error("Expected key1 to exist just before the TTL")
	}

	clock.Advance(time.Second)
	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be expired at the TTL")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not removed, Len() = %d", c.Len())
	}
}

func TestCacheSetWithTTL(t *testing.T) {
	c, clock := newTestCache(time.Hour)

	c.SetWithTTL("short", "v", time.Second)
	clock.Advance(2 * time.Second)

	if _, exists := c.Get("short"); exists {
		t.Error("Expected short to be expired")
	}
}

func TestCacheDelete(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set("key1", "value1")
	gen := c.Generation()
	c.Delete("key1")

	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be deleted")
	}
	if c.Generation() == gen {
		t.Error("Delete did not advance the generation")
	}

	// Unknown keys are fine.
	c.Delete("missing")
}

func TestCacheDeleteFunc(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set("feed:alice", 1)
	c.Set("feed:bob", 2)
	c.Set("trending:24h", 3)
	c.Set("trending:6h", 4)

	removed := c.DeleteFunc(func(key string) bool { return strings.HasPrefix(key, "trending:") })
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	keys := c.Keys()
	want := []string{"feed:alice", "feed:bob"}
	if fmt.Sprint(keys) != fmt.Sprint(want) {
		t.Errorf("Keys() = %v, want %v", keys, want)
	}
}

func TestCacheClear(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Set("key3", "value3")

	c.Clear()
	c.Clear() // idempotent

	for _, key := range []string{"key1", "key2", "key3"} {
		if _, exists := c.Get(key); exists {
			t.Errorf("Expected %s to be cleared", key)
		}
	}
	if got := c.GetStats().Evictions; got != 3 {
		t.Errorf("Evictions = %d, want 3", got)
	}
}

func TestCacheSetIfGeneration(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	gen := c.Generation()
	if !c.SetIfGeneration("feed:alice", "fresh", gen) {
		t.Fatal("SetIfGeneration with current generation should store")
	}

	stale := c.Generation()
	c.Clear()
	if c.SetIfGeneration("feed:alice", "stale", stale) {
		t.Error("SetIfGeneration after Clear should be discarded")
	}
	if _, ok := c.Get("feed:alice"); ok {
		t.Error("discarded write is visible")
	}

	stale = c.Generation()
	c.DeleteFunc(func(string) bool { return false })
	if c.SetIfGeneration("feed:bob", "stale", stale) {
		t.Error("SetIfGeneration after DeleteFunc should be discarded")
	}
}

func TestCacheExpiryDoesNotAdvanceGeneration(t *testing.T) {
	c, clock := newTestCache(time.Second)

	c.Set("k", "v")
	gen := c.Generation()
	clock.Advance(2 * time.Second)
	c.Get("k")
	c.Cleanup()

	if c.Generation() != gen {
		t.Error("expiry advanced the generation")
	}
}

func TestCacheKeysSkipsExpired(t *testing.T) {
	c, clock := newTestCache(time.Minute)

	c.Set("b", 1)
	c.SetWithTTL("a", 1, time.Second)
	c.Set("c", 1)
	clock.Advance(2 * time.Second)

	if got := fmt.Sprint(c.Keys()); got != "[b c]" {
		t.Errorf("Keys() = %s, want [b c]", got)
	}
}

func TestCacheCleanup(t *testing.T) {
	c, clock := newTestCache(time.Minute)

	c.Set("old", 1)
	clock.Advance(30 * time.Second)
	c.Set("new", 2)
	clock.Advance(45 * time.Second)

	if removed := c.Cleanup(); removed != 1 {
		t.Errorf("Cleanup() removed %d, want 1", removed)
	}
	stats := c.GetStats()
	if stats.Entries != 1 {
		t.Errorf("Entries = %d, want 1", stats.Entries)
	}
	if !stats.LastCleanup.Equal(clock.Now()) {
		t.Errorf("LastCleanup = %v, want %v", stats.LastCleanup, clock.Now())
	}
}

func TestCacheStats(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set("key1", "value1")
	c.Get("key1") // hit
	c.Get("key2") // miss
	c.Get("key1") // hit

	stats := c.GetStats()

	if stats.Hits != 2 {
		t.Errorf("Expected 2 hits, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.Misses)
	}

	hitRate := c.HitRate()
	expectedHitRate := 66.66666666666667 // 2/3 * 100
	if hitRate < expectedHitRate-0.01 || hitRate > expectedHitRate+0.01 {
		t.Errorf("Expected hit rate around %.2f%%, got %.2f%%", expectedHitRate, hitRate)
	}
}

func TestCacheBackgroundSweeper(t *testing.T) {
	c := New(10*time.Millisecond, WithCleanupInterval(5*time.Millisecond))
	defer c.Close()

	c.Set("k", "v")

	deadline := time.Now().Add(2 * time.Second)
	for c.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("sweeper did not remove expired entry")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCacheCloseIsIdempotent(t *testing.T) {
	c := New(time.Minute)
	c.Close()
	c.Close()
}

func TestCacheConcurrency(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("key-%d-%d", g, i%10)
				gen := c.Generation()
				c.SetIfGeneration(key, i, gen)
				c.Get(key)
				if i%50 == 0 {
					c.DeleteFunc(func(k string) bool { return strings.HasSuffix(k, "-0") })
				}
			}
		}(g)
	}
	wg.Wait()

	_ = c.Keys()
	_ = c.GetStats()
}
