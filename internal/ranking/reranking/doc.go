// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

// Package reranking implements the post-processing stages of the
// personalized feed pipeline.
//
// Stages run on a feed that is already sorted by score:
//
//	Filter -> Score -> Sort -> DiversityCap -> Jitter -> DiversityCap
//
// # Available Rerankers
//
// DiversityCap:
//   - Enforces a maximum run of consecutive posts by one author
//   - Violating posts are dropped, never reinserted later
//
// Jitter:
//   - Adds bounded uniform noise to each score and re-sorts
//   - Seeded math/rand, safe for concurrent use
//
// The cap runs a second time after Jitter because the re-sort can rebuild
// a same-author run that the first pass had broken up.
//
// # Interface
//
// All stages implement ranking.Reranker:
//
//	type Reranker interface {
//	    Name() string
//	    Rerank(ctx context.Context, posts []models.Post) ([]models.Post, error)
//	}
package reranking

