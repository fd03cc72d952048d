// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package ranking turns an unordered post collection into an ordered feed.

# Strategies

Three RankingStrategy implementations are provided:

  - PersonalizedStrategy ("simple_v1"): filter, score, stable sort, then the
    reranker stages from the reranking package (diversity cap and jitter)
  - TrendingStrategy ("trending_v1"): engagement per hour inside a lookback
    window, top N, fully deterministic
  - ChronologicalStrategy ("chronological"): newest first

Strategies never return errors. When a stage fails, panics, or the context
is canceled, the result is the chronological ordering of the input posts
the viewer may see, with Result.Fallback and Result.Err set.

# Scoring

Scorer computes a weighted sum of four sub-scores in [0, 1]:

	recency      0.4   1.0 up to 24h, then linear decay to 0 at 72h
	engagement   0.3   log(likes + 2*comments + 3*shares + 1) / log(100)
	affinity     0.2   0.1 for the viewer's own posts, 0.5 otherwise
	content type 0.1   viewer's video/photo/music affinity, 0.5 for text

Video posts are boosted by 1.2 and the result is clamped to [0, 1]. All
coefficients live in Config and are checked by Config.Validate.

# Thread Safety

Scorer and the strategies hold no mutable state and can be shared. The
jitter stage guards its random source with a mutex.
*/
package ranking
