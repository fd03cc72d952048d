// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package reranking

import "github.com/tomtom215/feedrank/internal/ranking"

// DefaultStages returns the standard stage list for cfg.
func DefaultStages(cfg *ranking.Config) []ranking.Reranker {
	if cfg == nil {
		cfg = ranking.DefaultConfig()
	}
	diversity := NewDiversityCap(cfg.Diversity.MaxConsecutive)
	if !cfg.Jitter.Enabled || cfg.Jitter.Amplitude == 0 {
		return []ranking.Reranker{diversity}
	}
	return []ranking.Reranker{
		diversity,
		NewJitter(cfg.Jitter.Amplitude, cfg.Seed),
		diversity,
	}
}
