// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package feed

import "errors"

var (
	// ErrDataUnavailable is reported when the post store fails or its circuit
	// is open. The feed degrades to a chronological ordering of whatever was
	// retrievable.
	ErrDataUnavailable = errors.New("feed data unavailable")

	// ErrInvalidInteractionKind rejects interactions outside the known kinds.
	ErrInvalidInteractionKind = errors.New("invalid interaction kind")

	// ErrCacheCorruption marks a cache entry that failed the shape check.
	// It never reaches callers; the entry is evicted and recomputed.
	ErrCacheCorruption = errors.New("feed cache entry corrupted")

	// ErrInvalidInteraction rejects interactions with missing or oversized fields.
	ErrInvalidInteraction = errors.New("invalid interaction")

	// ErrInvalidPost rejects post payloads that fail validation.
	ErrInvalidPost = errors.New("invalid post")
)
