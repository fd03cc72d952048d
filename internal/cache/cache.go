// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package cache

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultCleanupInterval is how often expired entries are swept.
const DefaultCleanupInterval = time.Minute

// Entry represents a cached item with expiration
type Entry struct {
	Data      any
	StoredAt  time.Time
	ExpiresAt time.Time
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	Evictions   int64     `json:"evictions"`
	Entries     int64     `json:"entries"`
	Generation  uint64    `json:"generation"`
	LastCleanup time.Time `json:"last_cleanup"`
}

// Cache is a thread-safe in-memory TTL cache with an invalidation
// generation.
//
// Every Delete, DeleteFunc and Clear advances the generation. A writer that
// captured the generation before a slow computation stores its result with
// SetIfGeneration; the write is discarded if any invalidation happened in
// between.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]Entry
	ttl        time.Duration
	generation uint64
	now        func() time.Time

	hits        atomic.Int64
	misses      atomic.Int64
	evictions   atomic.Int64
	lastCleanup atomic.Int64 // unix nanos

	cleanupInterval time.Duration
	stopCh          chan struct{}
	stopOnce        sync.Once
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithCleanupInterval sets the sweep interval. Zero or negative disables the
// background sweeper; expired entries are then only removed lazily.
func WithCleanupInterval(d time.Duration) Option {
	return func(c *Cache) {
		c.cleanupInterval = d
	}
}

// New creates a cache with the given default TTL and starts the background
// sweeper. Call Close to stop it.
//
// Example:
//
//	c := cache.New(5 * time.Minute)
//	defer c.Close()
//	c.Set("feed:alice", entry)
func New(ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		entries:         make(map[string]Entry),
		ttl:             ttl,
		now:             time.Now,
		cleanupInterval: DefaultCleanupInterval,
		stopCh:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.lastCleanup.Store(c.now().UnixNano())

	if c.cleanupInterval > 0 {
		go c.cleanupLoop()
	}

	return c
}

// TTL returns the default time-to-live.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get retrieves a value. Expired entries are removed and reported as a miss.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.misses.Add(1)
		return nil, false
	}

	if !c.now().Before(entry.ExpiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a fresh Set may have replaced it.
		if current, ok := c.entries[key]; ok && !c.now().Before(current.ExpiresAt) {
			delete(c.entries, key)
			c.evictions.Add(1)
		}
		c.mu.Unlock()
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	return entry.Data, true
}

// Set stores a value with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, value, ttl)
}

// SetIfGeneration stores value only if no invalidation happened since gen
// was read from Generation. It reports whether the value was stored.
func (c *Cache) SetIfGeneration(key string, value any, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		return false
	}
	c.setLocked(key, value, c.ttl)
	return true
}

func (c *Cache) setLocked(key string, value any, ttl time.Duration) {
	now := c.now()
	c.entries[key] = Entry{
		Data:      value,
		StoredAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}

// Generation returns the current invalidation generation.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Delete removes a specific cache entry by key.
// It is a no-op for unknown keys but still advances the generation.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.evictions.Add(1)
	}
	c.generation++
	c.mu.Unlock()
}

// DeleteFunc removes every entry whose key matches and returns how many
// were removed.
func (c *Cache) DeleteFunc(match func(key string) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if match(key) {
			delete(c.entries, key)
			removed++
		}
	}
	c.evictions.Add(int64(removed))
	c.generation++
	return removed
}

// Clear removes all entries from the cache in a single atomic operation.
func (c *Cache) Clear() {
	c.mu.Lock()
	evictions := int64(len(c.entries))
	c.entries = make(map[string]Entry)
	c.generation++
	c.mu.Unlock()

	c.evictions.Add(evictions)
}

// Keys returns the keys of unexpired entries in sorted order.
func (c *Cache) Keys() []string {
	now := c.now()

	c.mu.RLock()
	keys := make([]string, 0, len(c.entries))
	for key, entry := range c.entries {
		if now.Before(entry.ExpiresAt) {
			keys = append(keys, key)
		}
	}
	c.mu.RUnlock()

	sort.Strings(keys)
	return keys
}

// Len returns the number of stored entries, including expired ones not yet
// swept.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetStats returns a snapshot of current cache performance statistics.
func (c *Cache) GetStats() Stats {
	c.mu.RLock()
	entries := int64(len(c.entries))
	gen := c.generation
	c.mu.RUnlock()

	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Evictions:   c.evictions.Load(),
		Entries:     entries,
		Generation:  gen,
		LastCleanup: time.Unix(0, c.lastCleanup.Load()),
	}
}

// HitRate returns the cache hit rate as a percentage
func (c *Cache) HitRate() float64 {
	hits, misses := c.hits.Load(), c.misses.Load()
	total := hits + misses
	if total == 0 {
		return 0.0
	}
	return float64(hits) / float64(total) * 100.0
}

// Close stops the background sweeper. It is safe to call more than once.
func (c *Cache) Close() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}

// cleanupLoop periodically removes expired entries
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Cleanup()
		case <-c.stopCh:
			return
		}
	}
}

// Cleanup removes all expired entries and returns how many were removed.
// Expiry does not advance the generation.
func (c *Cache) Cleanup() int {
	now := c.now()

	c.mu.Lock()
	removed := 0
	for key, entry := range c.entries {
		if !now.Before(entry.ExpiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	c.mu.Unlock()

	c.evictions.Add(int64(removed))
	c.lastCleanup.Store(now.UnixNano())
	return removed
}
