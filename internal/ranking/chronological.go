// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package ranking

import (
	"context"
	"fmt"

	"github.com/tomtom215/feedrank/internal/models"
)

// ChronologicalStrategy orders visible posts newest first. It does no
// scoring, which is why its feeds are never cached.
type ChronologicalStrategy struct{}

// NewChronologicalStrategy creates the chronological strategy.
func NewChronologicalStrategy() *ChronologicalStrategy {
	return &ChronologicalStrategy{}
}

// Name returns the algorithm identifier.
func (c *ChronologicalStrategy) Name() string { return AlgorithmChronological }

// FeedType returns FeedChronological.
func (c *ChronologicalStrategy) FeedType() FeedType { return FeedChronological }

// Rank drops soft-removed posts and other users' private posts, then sorts
// by creation time descending.
func (c *ChronologicalStrategy) Rank(ctx context.Context, posts []models.Post, req Request) Result {
	now := req.now()
	if err := ctx.Err(); err != nil {
		return Fallback(posts, req.ViewerID, now, fmt.Errorf("%w: %w", ErrRankingFailed, err))
	}

	out := make([]models.Post, 0, len(posts))
	for i := range posts {
		if p := &posts[i]; visibleTo(p, req.ViewerID) {
			out = append(out, p.Canonical())
		}
	}
	SortChronological(out)

	return Result{
		Posts:       out,
		AlgorithmID: c.Name(),
		GeneratedAt: now,
	}
}

// visibleTo reports whether viewerID may see p at all: not soft-removed,
// and public unless the viewer wrote it.
func visibleTo(p *models.Post, viewerID string) bool {
	if p.Removed() {
		return false
	}
	return p.IsPublic || p.AuthorID == viewerID
}

var _ RankingStrategy = (*ChronologicalStrategy)(nil)
