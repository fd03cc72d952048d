// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package feed serves ranked feeds and keeps their cache consistent with writes.

The Service facade resolves a ranking strategy per feed type, serves fresh
entries from the FeedCache and recomputes on a miss. Personalized feeds are
cached under feed:<userID>, trending feeds under trending:<N>h; chronological
feeds are never cached.

# Invalidation

Interactions go through the Recorder, which validates the kind, hands the
interaction to a PreferenceLearner and then clears the user's feeds plus
every trending feed. Creating a post clears everything. Each clear advances
the cache generation, and a recompute only stores its result if the
generation it captured before reading the post store is still current, so an
explicit clear always beats an in-flight recompute.

# Degradation

A failing post store never fails a request: GetFeed returns Success=false
with a chronological fallback and an error wrapping ErrDataUnavailable.
Cache entries that fail the shape check are evicted and recomputed.
*/
package feed
