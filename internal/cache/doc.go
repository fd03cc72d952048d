// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package cache provides a thread-safe in-memory TTL cache with invalidation
generations.

# Overview

The cache provides:
  - Thread-safe concurrent access (sync.RWMutex)
  - Time-to-live expiration, checked lazily on Get and swept periodically
  - Prefix and predicate deletion (DeleteFunc)
  - A generation counter advanced by every explicit invalidation
  - Hit, miss and eviction counters

# Generations

A slow recompute must not resurrect data that was invalidated while it was
running. Capture the generation first and write conditionally:

	gen := c.Generation()
	feed := rank(ctx)                            // may take a while
	if !c.SetIfGeneration("feed:alice", feed, gen) {
		// a Delete, DeleteFunc or Clear happened meanwhile; result dropped
	}

Expiry by TTL does not advance the generation.

# Usage Example

	c := cache.New(5*time.Minute, cache.WithCleanupInterval(time.Minute))
	defer c.Close()

	c.Set("trending:24h", entry)
	if v, ok := c.Get("trending:24h"); ok {
	    // use v
	}

	c.DeleteFunc(func(key string) bool { return strings.HasPrefix(key, "trending:") })
*/
package cache
