// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package reranking

import (
	"context"

	"github.com/tomtom215/feedrank/internal/models"
	"github.com/tomtom215/feedrank/internal/ranking"
)

// DiversityCap limits how many consecutive feed slots a single author may
// occupy. A post that would extend a run beyond the cap is dropped from
// this ranking pass; it is not deferred to a later slot.
type DiversityCap struct {
	maxConsecutive int
}

// NewDiversityCap creates the stage. Caps below 1 are raised to 1.
func NewDiversityCap(maxConsecutive int) *DiversityCap {
	if maxConsecutive < 1 {
		maxConsecutive = 1
	}
	return &DiversityCap{maxConsecutive: maxConsecutive}
}

// Name returns the reranker identifier.
func (d *DiversityCap) Name() string {
	return "diversity_cap"
}

// MaxConsecutive returns the configured run-length cap.
func (d *DiversityCap) MaxConsecutive() int {
	return d.maxConsecutive
}

// Rerank walks the feed in order and keeps a post only if the current
// same-author run is shorter than the cap.
func (d *DiversityCap) Rerank(_ context.Context, posts []models.Post) ([]models.Post, error) {
	if len(posts) == 0 {
		return posts, nil
	}

	out := make([]models.Post, 0, len(posts))
	lastAuthor := ""
	run := 0

	for i := range posts {
		author := posts[i].AuthorID
		if len(out) > 0 && author == lastAuthor {
			if run >= d.maxConsecutive {
				continue
			}
			run++
		} else {
			lastAuthor = author
			run = 1
		}
		out = append(out, posts[i])
	}

	return out, nil
}

// LongestRun returns the longest run of consecutive posts by one author.
func LongestRun(posts []models.Post) int {
	longest, run := 0, 0
	for i := range posts {
		if i > 0 && posts[i].AuthorID == posts[i-1].AuthorID {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

var _ ranking.Reranker = (*DiversityCap)(nil)
