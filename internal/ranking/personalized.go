// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package ranking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/feedrank/internal/models"
)

// PersonalizedStrategy is the default feed pipeline:
// filter, score, stable sort, then the configured rerankers in order.
type PersonalizedStrategy struct {
	cfg    *Config
	scorer *Scorer
	stages []Reranker
	logger zerolog.Logger
}

// NewPersonalizedStrategy validates cfg and builds the pipeline. Stages run
// in the order given, after the score sort.
func NewPersonalizedStrategy(cfg *Config, logger zerolog.Logger, stages ...Reranker) (*PersonalizedStrategy, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ranking config: %w", err)
	}
	for i, st := range stages {
		if st == nil {
			return nil, fmt.Errorf("reranker %d is nil", i)
		}
	}
	return &PersonalizedStrategy{
		cfg:    cfg,
		scorer: NewScorer(cfg),
		stages: stages,
		logger: logger.With().Str("component", "ranking").Str("strategy", AlgorithmSimpleV1).Logger(),
	}, nil
}

// Name returns the algorithm identifier.
func (s *PersonalizedStrategy) Name() string { return AlgorithmSimpleV1 }

// FeedType returns FeedPersonalized.
func (s *PersonalizedStrategy) FeedType() FeedType { return FeedPersonalized }

// Scorer exposes the scorer used by the pipeline.
func (s *PersonalizedStrategy) Scorer() *Scorer { return s.scorer }

// StageNames lists the reranker stages in execution order.
func (s *PersonalizedStrategy) StageNames() []string {
	names := make([]string, len(s.stages))
	for i, st := range s.stages {
		names[i] = st.Name()
	}
	return names
}

// Rank runs the pipeline. A failing or panicking stage, or a canceled
// context, yields the chronological ordering of the input posts visible to
// the viewer with Result.Fallback set.
func (s *PersonalizedStrategy) Rank(ctx context.Context, posts []models.Post, req Request) (result Result) {
	now := req.now()

	defer func() {
		if r := recover(); r != nil {
			result = s.fallback(posts, req.ViewerID, now, fmt.Errorf("%w: panic: %v", ErrRankingFailed, r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return s.fallback(posts, req.ViewerID, now, fmt.Errorf("%w: %w", ErrRankingFailed, err))
	}

	ranked := s.Filter(posts, req.ViewerID, req.Preferences, now)
	for i := range ranked {
		ranked[i].FeedScore = s.scorer.Score(&ranked[i], req.ViewerID, req.Preferences, now)
	}
	SortByScore(ranked)

	for _, stage := range s.stages {
		if err := ctx.Err(); err != nil {
			return s.fallback(posts, req.ViewerID, now, fmt.Errorf("%w: before %s: %w", ErrRankingFailed, stage.Name(), err))
		}
		var err error
		ranked, err = stage.Rerank(ctx, ranked)
		if err != nil {
			return s.fallback(posts, req.ViewerID, now, fmt.Errorf("%w: %s: %w", ErrRankingFailed, stage.Name(), err))
		}
	}

	return Result{
		Posts:       ranked,
		AlgorithmID: s.Name(),
		GeneratedAt: now,
	}
}

// Filter returns copies of the posts eligible for the viewer's feed:
// not older than the maximum age, public or authored by the viewer, not
// soft-removed, and not written by a blocked author.
func (s *PersonalizedStrategy) Filter(posts []models.Post, viewerID string, prefs models.PreferenceProfile, now time.Time) []models.Post {
	out := make([]models.Post, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		if p.CreatedAt.IsZero() {
			continue
		}
		if p.Age(now) > s.cfg.Recency.MaxAge {
			continue
		}
		if !visibleTo(p, viewerID) {
			continue
		}
		if prefs.IsBlocked(p.AuthorID) {
			continue
		}
		out = append(out, p.Canonical())
	}
	return out
}

func (s *PersonalizedStrategy) fallback(posts []models.Post, viewerID string, now time.Time, err error) Result {
	s.logger.Warn().Err(err).Int("posts", len(posts)).Msg("ranking failed, falling back to chronological order")
	return Fallback(posts, viewerID, now, err)
}

// Fallback builds the degraded result: the input posts viewerID may see,
// newest first. Age and blocked authors are not filtered; soft-removed posts
// and other users' private posts are.
func Fallback(posts []models.Post, viewerID string, now time.Time, err error) Result {
	out := make([]models.Post, 0, len(posts))
	for i := range posts {
		if p := &posts[i]; visibleTo(p, viewerID) {
			out = append(out, p.Canonical())
		}
	}
	SortChronological(out)
	return Result{
		Posts:       out,
		AlgorithmID: AlgorithmChronological,
		Fallback:    true,
		Err:         err,
		GeneratedAt: now,
	}
}

// SortByScore orders posts by FeedScore descending. Ties keep input order.
func SortByScore(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].FeedScore > posts[j].FeedScore
	})
}

// SortChronological orders posts newest first. Ties keep input order.
func SortChronological(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

var _ RankingStrategy = (*PersonalizedStrategy)(nil)
