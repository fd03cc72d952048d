// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package ranking

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/feedrank/internal/models"
)

// FeedType selects which strategy produces a feed.
type FeedType string

const (
	FeedPersonalized  FeedType = "personalized"
	FeedTrending      FeedType = "trending"
	FeedChronological FeedType = "chronological"
)

// ParseFeedType converts a query value into a FeedType. An empty string
// selects the personalized feed.
func ParseFeedType(s string) (FeedType, error) {
	switch FeedType(s) {
	case "", FeedPersonalized:
		return FeedPersonalized, nil
	case FeedTrending:
		return FeedTrending, nil
	case FeedChronological:
		return FeedChronological, nil
	default:
		return "", ErrUnknownFeedType
	}
}

// Algorithm identifiers reported alongside every ranked feed.
const (
	AlgorithmSimpleV1      = "simple_v1"
	AlgorithmTrendingV1    = "trending_v1"
	AlgorithmChronological = "chronological"
)

var (
	// ErrUnknownFeedType is returned for feed types outside the enumeration.
	ErrUnknownFeedType = errors.New("unknown feed type")

	// ErrRankingFailed wraps any failure inside a ranking stage. The
	// strategy recovers from it with a chronological fallback.
	ErrRankingFailed = errors.New("ranking failed")

	// ErrUnknownStrategy is returned by the registry for unregistered names.
	ErrUnknownStrategy = errors.New("unknown ranking strategy")
)

// Request carries the per-call inputs of a ranking pass.
type Request struct {
	// ViewerID is the user the feed is built for. Trending ignores it.
	ViewerID string

	// Preferences is the viewer's profile; unset affinities fall back to
	// the defaults.
	Preferences models.PreferenceProfile

	// Now is the reference time for ages. Zero means time.Now().
	Now time.Time

	// Window is the trending lookback. Zero means the configured default.
	Window time.Duration
}

func (r *Request) now() time.Time {
	if r.Now.IsZero() {
		return time.Now()
	}
	return r.Now
}

// Result is the output of a ranking pass.
type Result struct {
	// Posts is the ordered feed. Each element is a copy carrying FeedScore.
	Posts []models.Post

	// AlgorithmID names the strategy that produced Posts. A fallback result
	// reports AlgorithmChronological.
	AlgorithmID string

	// Fallback is set when the strategy failed and Posts is the
	// chronological ordering of the input.
	Fallback bool

	// Err is the soft error behind a fallback.
	Err error

	// GeneratedAt is the reference time the ranking was computed for.
	GeneratedAt time.Time
}

// RankingStrategy turns a post collection into an ordered feed. Rank never
// returns an error: failures are reported through Result.Err with a
// chronological fallback in Result.Posts.
type RankingStrategy interface {
	// Name returns the algorithm identifier.
	Name() string

	// FeedType returns the feed type this strategy serves.
	FeedType() FeedType

	// Rank orders posts for the request. The input slice is not modified.
	Rank(ctx context.Context, posts []models.Post, req Request) Result
}

// Reranker is a post-processing stage applied to an already sorted feed.
type Reranker interface {
	// Name returns the stage identifier.
	Name() string

	// Rerank returns the reordered (and possibly shortened) feed.
	Rerank(ctx context.Context, posts []models.Post) ([]models.Post, error)
}
