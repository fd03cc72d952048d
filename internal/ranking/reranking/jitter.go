// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package reranking

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"github.com/tomtom215/feedrank/internal/models"
	"github.com/tomtom215/feedrank/internal/ranking"
)

// defaultSeed is used when no seed is configured.
const defaultSeed = 42

// Jitter perturbs every FeedScore by uniform noise in [-amplitude, +amplitude]
// and re-sorts, so consecutive recomputations of a feed do not look static.
// Jittered scores are clamped to [0, 1].
type Jitter struct {
	amplitude float64

	// rng is shared across requests (protected by mu).
	rng *rand.Rand
	mu  sync.Mutex
}

// NewJitter creates the stage. Negative amplitudes are treated as zero.
func NewJitter(amplitude float64, seed int64) *Jitter {
	if amplitude < 0 {
		amplitude = 0
	}
	if seed == 0 {
		seed = defaultSeed
	}
	return &Jitter{
		amplitude: amplitude,
		rng:       rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for feed shuffling
	}
}

// Name returns the reranker identifier.
func (j *Jitter) Name() string {
	return "jitter"
}

// Amplitude returns the noise half-width.
func (j *Jitter) Amplitude() float64 {
	return j.amplitude
}

// Rerank adds noise to the scores and stable-sorts the result.
func (j *Jitter) Rerank(_ context.Context, posts []models.Post) ([]models.Post, error) {
	if len(posts) == 0 || j.amplitude == 0 {
		return posts, nil
	}

	out := make([]models.Post, len(posts))
	copy(out, posts)

	j.mu.Lock()
	for i := range out {
		noise := (j.rng.Float64()*2 - 1) * j.amplitude
		out[i].FeedScore = math.Min(math.Max(out[i].FeedScore+noise, 0), 1)
	}
	j.mu.Unlock()

	ranking.SortByScore(out)
	return out, nil
}

var _ ranking.Reranker = (*Jitter)(nil)
