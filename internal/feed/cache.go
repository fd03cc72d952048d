// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package feed

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/feedrank/internal/cache"
	"github.com/tomtom215/feedrank/internal/metrics"
	"github.com/tomtom215/feedrank/internal/models"
	"github.com/tomtom215/feedrank/internal/ranking"
)

const (
	personalizedKeyPrefix = "feed:"
	trendingKeyPrefix     = "trending:"
)

// PersonalizedKey returns the cache key of a user's personalized feed.
func PersonalizedKey(userID string) string {
	return personalizedKeyPrefix + userID
}

// TrendingKey returns the cache key of the trending feed for a window,
// truncated to whole hours.
func TrendingKey(window time.Duration) string {
	return fmt.Sprintf("%s%dh", trendingKeyPrefix, int64(window/time.Hour))
}

// CacheKey returns the key for a feed request. Chronological feeds are
// never cached and report false.
func CacheKey(feedType ranking.FeedType, userID string, window time.Duration) (string, bool) {
	switch feedType {
	case ranking.FeedPersonalized:
		return PersonalizedKey(userID), true
	case ranking.FeedTrending:
		return TrendingKey(window), true
	default:
		return "", false
	}
}

// CachedFeed is the value stored per key.
type CachedFeed struct {
	Posts       []models.Post
	Count       int
	AlgorithmID string
	GeneratedAt time.Time
}

// validate is the shape check applied on every read.
func (f *CachedFeed) validate() error {
	switch {
	case f.Posts == nil && f.Count != 0:
		return fmt.Errorf("%w: nil posts with count %d", ErrCacheCorruption, f.Count)
	case len(f.Posts) != f.Count:
		return fmt.Errorf("%w: %d posts, count %d", ErrCacheCorruption, len(f.Posts), f.Count)
	case f.AlgorithmID == "":
		return fmt.Errorf("%w: missing algorithm id", ErrCacheCorruption)
	case f.GeneratedAt.IsZero():
		return fmt.Errorf("%w: zero generation time", ErrCacheCorruption)
	}
	return nil
}

// CacheStats is the snapshot returned by FeedCache.Stats.
type CacheStats struct {
	Size          int        `json:"size"`
	Keys          []string   `json:"keys"`
	TTLSeconds    float64    `json:"ttl_seconds"`
	LastGenerated *time.Time `json:"last_generated,omitempty"`
	Hits          int64      `json:"hits"`
	Misses        int64      `json:"misses"`
	Evictions     int64      `json:"evictions"`
	Corruptions   int64      `json:"corruptions"`
	HitRate       float64    `json:"hit_rate"`
}

// FeedCache maps feed requests onto a TTL cache and owns invalidation.
//
// Writes go through Store with the generation captured before the store
// read, so ClearUser and ClearAll always win over an in-flight recompute.
type FeedCache struct {
	c      cache.Cacher
	logger zerolog.Logger

	corruptions   atomic.Int64
	lastGenerated atomic.Int64 // unix nanos, 0 if never
}

// NewFeedCache wraps c.
//
//nolint:gocritic // zerolog.Logger is passed by value throughout the codebase
func NewFeedCache(c cache.Cacher, logger zerolog.Logger) *FeedCache {
	return &FeedCache{
		c:      c,
		logger: logger.With().Str("component", "feed_cache").Logger(),
	}
}

// TTL returns the freshness window of entries.
func (f *FeedCache) TTL() time.Duration {
	return f.c.TTL()
}

// Get returns a copy of the fresh entry under key. Entries failing the
// shape check are evicted and reported as a miss.
func (f *FeedCache) Get(key string) (*CachedFeed, bool) {
	raw, ok := f.c.Get(key)
	if !ok {
		metrics.RecordCacheOperation("get", "miss")
		return nil, false
	}

	entry, err := asCachedFeed(raw)
	if err != nil {
		f.corruptions.Add(1)
		f.c.Delete(key)
		metrics.RecordCacheOperation("get", "corrupt")
		f.logger.Warn().Err(err).Str("key", key).Msg("Evicted corrupted feed cache entry")
		return nil, false
	}

	metrics.RecordCacheOperation("get", "hit")
	out := *entry
	out.Posts = models.ClonePosts(entry.Posts)
	return &out, true
}

func asCachedFeed(raw any) (*CachedFeed, error) {
	var entry *CachedFeed
	switch v := raw.(type) {
	case *CachedFeed:
		entry = v
	case CachedFeed:
		entry = &v
	default:
		return nil, fmt.Errorf("%w: unexpected type %T", ErrCacheCorruption, raw)
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: nil entry", ErrCacheCorruption)
	}
	if err := entry.validate(); err != nil {
		return nil, err
	}
	return entry, nil
}

// Generation returns the invalidation generation to pass to Store.
func (f *FeedCache) Generation() uint64 {
	return f.c.Generation()
}

// Store caches a copy of posts under key unless an invalidation happened
// after gen was captured. It reports whether the entry was written.
func (f *FeedCache) Store(key string, posts []models.Post, algorithmID string, generatedAt time.Time, gen uint64) bool {
	if posts == nil {
		posts = []models.Post{}
	}
	entry := &CachedFeed{
		Posts:       models.ClonePosts(posts),
		Count:       len(posts),
		AlgorithmID: algorithmID,
		GeneratedAt: generatedAt,
	}

	if !f.c.SetIfGeneration(key, entry, gen) {
		metrics.RecordCacheOperation("set", "stale")
		f.logger.Debug().Str("key", key).Msg("Discarded feed computed before an invalidation")
		return false
	}

	f.lastGenerated.Store(generatedAt.UnixNano())
	metrics.RecordCacheOperation("set", "stored")
	metrics.SetCacheEntries(len(f.c.Keys()))
	return true
}

// ClearUser removes the user's feeds and every trending feed. It returns the
// number of entries removed and is idempotent.
func (f *FeedCache) ClearUser(userID string) int {
	own := PersonalizedKey(userID)
	removed := f.c.DeleteFunc(func(key string) bool {
		return key == own || strings.HasPrefix(key, own+":") || strings.HasPrefix(key, trendingKeyPrefix)
	})

	metrics.RecordCacheInvalidation("user")
	metrics.SetCacheEntries(len(f.c.Keys()))
	f.logger.Debug().Str("user_id", userID).Int("removed", removed).Msg("Cleared user feed cache")
	return removed
}

// ClearAll wipes every cached feed. It is idempotent.
func (f *FeedCache) ClearAll() {
	f.c.Clear()
	metrics.RecordCacheInvalidation("all")
	metrics.SetCacheEntries(0)
	f.logger.Debug().Msg("Cleared all feed caches")
}

// Stats returns the cache snapshot.
func (f *FeedCache) Stats() CacheStats {
	s := f.c.GetStats()
	keys := f.c.Keys()

	stats := CacheStats{
		Size:        len(keys),
		Keys:        keys,
		TTLSeconds:  f.c.TTL().Seconds(),
		Hits:        s.Hits,
		Misses:      s.Misses,
		Evictions:   s.Evictions,
		Corruptions: f.corruptions.Load(),
	}
	if total := s.Hits + s.Misses; total > 0 {
		stats.HitRate = float64(s.Hits) / float64(total) * 100
	}
	if ns := f.lastGenerated.Load(); ns != 0 {
		t := time.Unix(0, ns)
		stats.LastGenerated = &t
	}
	return stats
}
