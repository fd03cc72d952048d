// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package store provides the post and preference collaborators of the feed
service.

# Implementations

  - MemoryPostStore: map plus insertion order behind a RWMutex
  - BadgerPostStore: BadgerDB with JSON values, usable on disk or in memory
  - BreakerPostStore: wraps any PostStore with a sony/gobreaker circuit
  - MemoryPreferenceStore: per-user overrides over the default profile

# Key Layout (BadgerDB)

	post:<postID>                  -> JSON encoded models.Post
	user_posts:<userID>:<postID>   -> postID

# Example

	db, err := store.OpenBadger(store.BadgerOptions{Path: "/data/posts"})
	if err != nil {
		return err
	}
	posts := store.NewBreakerPostStore(store.NewBadgerPostStore(db), store.DefaultBreakerSettings(), logger)
*/
package store
