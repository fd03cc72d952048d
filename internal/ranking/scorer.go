// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package ranking

import (
	"math"
	"time"

	"github.com/tomtom215/feedrank/internal/models"
)

// Scorer maps a post to a relevance score in [0, 1]. It holds no mutable
// state and is safe for concurrent use.
type Scorer struct {
	cfg *Config
}

// NewScorer creates a scorer for the given configuration.
func NewScorer(cfg *Config) *Scorer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Scorer{cfg: cfg}
}

// ScoreBreakdown exposes every part of a score.
type ScoreBreakdown struct {
	Recency     float64 `json:"recency"`
	Engagement  float64 `json:"engagement"`
	Affinity    float64 `json:"affinity"`
	ContentType float64 `json:"content_type"`

	// Weighted is the weighted sum before the video boost.
	Weighted float64 `json:"weighted"`

	// Boosted is Weighted after the video boost, before clamping.
	Boosted float64 `json:"boosted"`

	// Final is Boosted clamped to [0, 1].
	Final float64 `json:"final"`
}

// Score returns the final relevance score of post for viewerID.
func (s *Scorer) Score(post *models.Post, viewerID string, prefs models.PreferenceProfile, now time.Time) float64 {
	return s.Breakdown(post, viewerID, prefs, now).Final
}

// Breakdown computes the score and all of its parts.
func (s *Scorer) Breakdown(post *models.Post, viewerID string, prefs models.PreferenceProfile, now time.Time) ScoreBreakdown {
	b := ScoreBreakdown{
		Recency:     s.RecencyScore(post.Age(now)),
		Engagement:  s.EngagementScore(post),
		Affinity:    s.AffinityScore(post, viewerID),
		ContentType: s.ContentTypeScore(post, prefs),
	}

	w := s.cfg.Weights
	b.Weighted = b.Recency*w.Recency +
		b.Engagement*w.Engagement +
		b.Affinity*w.Affinity +
		b.ContentType*w.ContentType

	b.Boosted = b.Weighted
	if post.IsVideo() {
		b.Boosted *= s.cfg.VideoBoost
	}
	b.Final = clamp01(b.Boosted)
	return b
}

// RecencyScore is 1.0 up to and including the peak window, then decays
// linearly to 0 at the maximum age. Posts from the future count as fresh.
func (s *Scorer) RecencyScore(age time.Duration) float64 {
	peak := s.cfg.Recency.PeakWindow
	if age <= peak {
		return 1.0
	}
	span := s.cfg.Recency.MaxAge - peak
	if span <= 0 {
		return 0
	}
	return clamp01(1 - float64(age-peak)/float64(span))
}

// WeightedEngagement returns likes + commentWeight*comments + shareWeight*shares.
func (s *Scorer) WeightedEngagement(post *models.Post) float64 {
	e := s.cfg.Engagement
	return float64(post.Likes) +
		float64(post.Comments)*e.CommentWeight +
		float64(post.Shares)*e.ShareWeight
}

// EngagementScore maps the weighted engagement through log(c+1)/log(saturation).
func (s *Scorer) EngagementScore(post *models.Post) float64 {
	c := s.WeightedEngagement(post)
	if c <= 0 {
		return 0
	}
	return clamp01(math.Log(c+1) / math.Log(s.cfg.Engagement.Saturation))
}

// AffinityScore is a placeholder until a social graph is available: the
// viewer's own posts are demoted, everyone else is neutral.
func (s *Scorer) AffinityScore(post *models.Post, viewerID string) float64 {
	if viewerID != "" && post.AuthorID == viewerID {
		return s.cfg.Affinity.Self
	}
	return s.cfg.Affinity.Other
}

// ContentTypeScore looks up the viewer's affinity for the post's content.
// Video takes precedence over image, image over music.
func (s *Scorer) ContentTypeScore(post *models.Post, prefs models.PreferenceProfile) float64 {
	p := prefs.WithDefaults()
	switch {
	case post.IsVideo():
		return clamp01(p.VideoPreference)
	case post.IsImage():
		return clamp01(p.PhotoPreference)
	case post.HasMusic():
		return clamp01(p.MusicPreference)
	default:
		return s.cfg.NeutralContentScore
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), 1)
}
