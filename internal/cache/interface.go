// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package cache

import "time"

// Cacher defines the cache operations the feed layer depends on.
type Cacher interface {
	// Get retrieves a value from the cache.
	// Returns the value and true if found and not expired.
	Get(key string) (any, bool)

	// Set stores a value in the cache with the default TTL.
	Set(key string, value any)

	// SetIfGeneration stores a value only if the generation is unchanged.
	SetIfGeneration(key string, value any, gen uint64) bool

	// Generation returns the current invalidation generation.
	Generation() uint64

	// Delete removes a value from the cache.
	Delete(key string)

	// DeleteFunc removes every entry whose key matches.
	DeleteFunc(match func(key string) bool) int

	// Clear removes all entries from the cache.
	Clear()

	// Keys returns the live keys in sorted order.
	Keys() []string

	// GetStats returns cache statistics.
	GetStats() Stats

	// TTL returns the default time-to-live.
	TTL() time.Duration
}

// Verify interface implementations at compile time
var _ Cacher = (*Cache)(nil)
