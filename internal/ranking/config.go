// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package ranking

import (
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"
)

// weightSumTolerance is how far the score weights may drift from 1.0.
const weightSumTolerance = 1e-6

// Config contains all tunable coefficients of the ranking strategies.
type Config struct {
	// Weights defines the contribution of each sub-score to the final score.
	// Unlike a blend of independent models these are not normalized at
	// runtime: they must sum to 1.0.
	Weights ScoreWeights `json:"weights"`

	// Recency controls the time decay curve.
	Recency RecencyConfig `json:"recency"`

	// Engagement controls how counters map onto [0, 1].
	Engagement EngagementConfig `json:"engagement"`

	// Affinity holds the author-affinity placeholder constants.
	Affinity AffinityConfig `json:"affinity"`

	// NeutralContentScore is used for posts without media or music.
	// Default: 0.5.
	NeutralContentScore float64 `json:"neutral_content_score"`

	// VideoBoost multiplies the weighted sum of video posts.
	// Default: 1.2.
	VideoBoost float64 `json:"video_boost"`

	// Diversity contains the run-length cap.
	Diversity DiversityConfig `json:"diversity"`

	// Jitter contains the randomization applied after diversity.
	Jitter JitterConfig `json:"jitter"`

	// Trending contains the trending ranker parameters.
	Trending TrendingConfig `json:"trending"`

	// Seed is the random seed for the jitter stage.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed"`
}

// ScoreWeights defines the relative contribution of each sub-score.
type ScoreWeights struct {
	Recency     float64 `json:"recency"`
	Engagement  float64 `json:"engagement"`
	Affinity    float64 `json:"affinity"`
	ContentType float64 `json:"content_type"`
}

// Sum returns the total of all weights.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w ScoreWeights) Sum() float64 {
	return w.Recency + w.Engagement + w.Affinity + w.ContentType
}

// ToMap returns the weights keyed by sub-score name.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w ScoreWeights) ToMap() map[string]float64 {
	return map[string]float64{
		"recency":      w.Recency,
		"engagement":   w.Engagement,
		"affinity":     w.Affinity,
		"content_type": w.ContentType,
	}
}

// RecencyConfig controls the recency sub-score.
type RecencyConfig struct {
	// PeakWindow is the age up to which a post keeps the full recency score.
	// The boundary is inclusive.
	// Default: 24h.
	PeakWindow time.Duration `json:"peak_window"`

	// MaxAge is the age at which recency reaches zero. Older posts are
	// filtered out before scoring.
	// Default: 72h.
	MaxAge time.Duration `json:"max_age"`
}

// EngagementConfig controls the engagement sub-score.
type EngagementConfig struct {
	// CommentWeight multiplies the comment counter.
	// Default: 2.
	CommentWeight float64 `json:"comment_weight"`

	// ShareWeight multiplies the share counter.
	// Default: 3.
	ShareWeight float64 `json:"share_weight"`

	// Saturation is the weighted count that maps to a score of 1.0.
	// Default: 100.
	Saturation float64 `json:"saturation"`
}

// AffinityConfig holds the author-affinity constants.
type AffinityConfig struct {
	// Self is the score of the viewer's own posts.
	// Default: 0.1.
	Self float64 `json:"self"`

	// Other is the score of every other author.
	// Default: 0.5.
	Other float64 `json:"other"`
}

// DiversityConfig contains the same-author run-length cap.
type DiversityConfig struct {
	// MaxConsecutive is the longest allowed run of one author.
	// Default: 2.
	MaxConsecutive int `json:"max_consecutive"`
}

// JitterConfig contains the jitter stage parameters.
type JitterConfig struct {
	// Enabled toggles the jitter stage.
	// Default: true.
	Enabled bool `json:"enabled"`

	// Amplitude is the half-width of the uniform noise added to scores.
	// Default: 0.05.
	Amplitude float64 `json:"amplitude"`
}

// TrendingConfig contains the trending ranker parameters.
type TrendingConfig struct {
	// DefaultWindow is the lookback used when the caller gives none.
	// Default: 24h.
	DefaultWindow time.Duration `json:"default_window"`

	// Limit is the number of posts returned.
	// Default: 20.
	Limit int `json:"limit"`
}

// DefaultConfig returns a Config with the production coefficients.
func DefaultConfig() *Config {
	return &Config{
		Weights: ScoreWeights{
			Recency:     0.4,
			Engagement:  0.3,
			Affinity:    0.2,
			ContentType: 0.1,
		},
		Recency: RecencyConfig{
			PeakWindow: 24 * time.Hour,
			MaxAge:     72 * time.Hour,
		},
		Engagement: EngagementConfig{
			CommentWeight: 2,
			ShareWeight:   3,
			Saturation:    100,
		},
		Affinity: AffinityConfig{
			Self:  0.1,
			Other: 0.5,
		},
		NeutralContentScore: 0.5,
		VideoBoost:          1.2,
		Diversity: DiversityConfig{
			MaxConsecutive: 2,
		},
		Jitter: JitterConfig{
			Enabled:   true,
			Amplitude: 0.05,
		},
		Trending: TrendingConfig{
			DefaultWindow: 24 * time.Hour,
			Limit:         20,
		},
		Seed: 42,
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	w := c.Weights
	for name, v := range w.ToMap() {
		if v < 0 || v > 1 {
			return fmt.Errorf("weights.%s must be in [0, 1], got %f", name, v)
		}
	}
	if math.Abs(w.Sum()-1.0) > weightSumTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %f", w.Sum())
	}

	if c.Recency.PeakWindow < 0 {
		return fmt.Errorf("recency.peak_window must be non-negative, got %v", c.Recency.PeakWindow)
	}
	if c.Recency.MaxAge <= c.Recency.PeakWindow {
		return fmt.Errorf("recency.max_age must be greater than recency.peak_window, got %v <= %v",
			c.Recency.MaxAge, c.Recency.PeakWindow)
	}

	if c.Engagement.CommentWeight < 0 || c.Engagement.ShareWeight < 0 {
		return fmt.Errorf("engagement weights must be non-negative, got comment=%f share=%f",
			c.Engagement.CommentWeight, c.Engagement.ShareWeight)
	}
	if c.Engagement.Saturation <= 1 {
		return fmt.Errorf("engagement.saturation must be greater than 1, got %f", c.Engagement.Saturation)
	}

	if c.Affinity.Self < 0 || c.Affinity.Self > 1 {
		return fmt.Errorf("affinity.self must be in [0, 1], got %f", c.Affinity.Self)
	}
	if c.Affinity.Other < 0 || c.Affinity.Other > 1 {
		return fmt.Errorf("affinity.other must be in [0, 1], got %f", c.Affinity.Other)
	}
	if c.NeutralContentScore < 0 || c.NeutralContentScore > 1 {
		return fmt.Errorf("neutral_content_score must be in [0, 1], got %f", c.NeutralContentScore)
	}
	if c.VideoBoost < 1 {
		return fmt.Errorf("video_boost must be >= 1, got %f", c.VideoBoost)
	}

	if c.Diversity.MaxConsecutive < 1 {
		return fmt.Errorf("diversity.max_consecutive must be positive, got %d", c.Diversity.MaxConsecutive)
	}
	if c.Jitter.Amplitude < 0 || c.Jitter.Amplitude > 0.5 {
		return fmt.Errorf("jitter.amplitude must be in [0, 0.5], got %f", c.Jitter.Amplitude)
	}

	if c.Trending.DefaultWindow < time.Hour {
		return fmt.Errorf("trending.default_window must be at least 1h, got %v", c.Trending.DefaultWindow)
	}
	if c.Trending.Limit < 1 {
		return fmt.Errorf("trending.limit must be positive, got %d", c.Trending.Limit)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	clone := *c
	return &clone
}

// MarshalJSON renders durations as strings.
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	type durations struct {
		PeakWindow string `json:"peak_window"`
		MaxAge     string `json:"max_age"`
	}
	type trending struct {
		DefaultWindow string `json:"default_window"`
		Limit         int    `json:"limit"`
	}
	return json.Marshal(&struct {
		*Alias
		Recency  durations `json:"recency"`
		Trending trending  `json:"trending"`
	}{
		Alias: (*Alias)(c),
		Recency: durations{
			PeakWindow: c.Recency.PeakWindow.String(),
			MaxAge:     c.Recency.MaxAge.String(),
		},
		Trending: trending{
			DefaultWindow: c.Trending.DefaultWindow.String(),
			Limit:         c.Trending.Limit,
		},
	})
}
