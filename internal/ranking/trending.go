// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package ranking

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/feedrank/internal/models"
)

// TrendingStrategy ranks posts by engagement per hour inside a lookback
// window. It ignores the viewer and applies no diversity or jitter, so the
// output is stable for unchanged counters.
type TrendingStrategy struct {
	cfg    *Config
	logger zerolog.Logger
}

// NewTrendingStrategy validates cfg and creates the trending ranker.
func NewTrendingStrategy(cfg *Config, logger zerolog.Logger) (*TrendingStrategy, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ranking config: %w", err)
	}
	return &TrendingStrategy{
		cfg:    cfg,
		logger: logger.With().Str("component", "ranking").Str("strategy", AlgorithmTrendingV1).Logger(),
	}, nil
}

// Name returns the algorithm identifier.
func (t *TrendingStrategy) Name() string { return AlgorithmTrendingV1 }

// FeedType returns FeedTrending.
func (t *TrendingStrategy) FeedType() FeedType { return FeedTrending }

// EffectiveWindow resolves the lookback for a request: the configured
// default when unset, never beyond the maximum post age so stale posts
// cannot trend, and truncated to whole hours with a one hour minimum.
// Windows that resolve to the same value share one cache entry.
func (t *TrendingStrategy) EffectiveWindow(window time.Duration) time.Duration {
	if window <= 0 {
		window = t.cfg.Trending.DefaultWindow
	}
	if window > t.cfg.Recency.MaxAge {
		window = t.cfg.Recency.MaxAge
	}
	window = window.Truncate(time.Hour)
	if window < time.Hour {
		window = time.Hour
	}
	return window
}

// EngagementRate returns (likes+comments+shares) / max(ageHours, 1).
func EngagementRate(post *models.Post, now time.Time) float64 {
	ageHours := post.Age(now).Hours()
	total := float64(post.Likes + post.Comments + post.Shares)
	return total / math.Max(ageHours, 1)
}

// Rank returns the top posts by engagement rate.
func (t *TrendingStrategy) Rank(ctx context.Context, posts []models.Post, req Request) (result Result) {
	now := req.now()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: panic: %v", ErrRankingFailed, r)
			t.logger.Warn().Err(err).Msg("trending ranking failed, falling back to chronological order")
			result = Fallback(posts, req.ViewerID, now, err)
		}
	}()

	if err := ctx.Err(); err != nil {
		return Fallback(posts, req.ViewerID, now, fmt.Errorf("%w: %w", ErrRankingFailed, err))
	}

	cutoff := now.Add(-t.EffectiveWindow(req.Window))

	trending := make([]models.Post, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		if p.CreatedAt.IsZero() || !p.CreatedAt.After(cutoff) {
			continue
		}
		if !p.IsPublic || p.Removed() {
			continue
		}
		c := p.Canonical()
		c.TrendingScore = EngagementRate(p, now)
		trending = append(trending, c)
	}

	sort.SliceStable(trending, func(i, j int) bool {
		return trending[i].TrendingScore > trending[j].TrendingScore
	})

	if len(trending) > t.cfg.Trending.Limit {
		trending = trending[:t.cfg.Trending.Limit]
	}
	normalizeTrending(trending)

	return Result{
		Posts:       trending,
		AlgorithmID: t.Name(),
		GeneratedAt: now,
	}
}

// normalizeTrending sets FeedScore to each rate relative to the top rate so
// it stays in [0,1]. The raw rate remains in TrendingScore.
func normalizeTrending(posts []models.Post) {
	if len(posts) == 0 || posts[0].TrendingScore <= 0 {
		return
	}
	top := posts[0].TrendingScore
	for i := range posts {
		posts[i].FeedScore = posts[i].TrendingScore / top
	}
}

var _ RankingStrategy = (*TrendingStrategy)(nil)
