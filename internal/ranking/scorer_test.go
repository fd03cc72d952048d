// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package ranking

import (
	"math"
	"testing"
	"time"

	"github.com/tomtom215/feedrank/internal/models"
)

const epsilon = 1e-9

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func postAged(id, author string, age time.Duration) models.Post {
	return models.Post{
		ID:        id,
		AuthorID:  author,
		IsPublic:  true,
		CreatedAt: testNow.Add(-age),
	}
}

func TestScorer_RecencyScore(t *testing.T) {
	s := NewScorer(DefaultConfig())

	tests := []struct {
		name string
		age  time.Duration
		want float64
	}{
		{"brand new", 0, 1.0},
		{"future post", -time.Hour, 1.0},
		{"inside peak window", 12 * time.Hour, 1.0},
		{"peak boundary inclusive", 24 * time.Hour, 1.0},
		{"halfway through decay", 48 * time.Hour, 0.5},
		{"at max age", 72 * time.Hour, 0.0},
		{"beyond max age", 100 * time.Hour, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.RecencyScore(tt.age); !approxEqual(got, tt.want) {
				t.Errorf("RecencyScore(%v) = %f, want %f", tt.age, got, tt.want)
			}
		})
	}
}

func TestScorer_RecencyScoreMonotonic(t *testing.T) {
	s := NewScorer(DefaultConfig())
	prev := s.RecencyScore(0)
	for age := time.Duration(0); age <= 80*time.Hour; age += 30 * time.Minute {
		got := s.RecencyScore(age)
		if got > prev+epsilon {
			t.Fatalf("RecencyScore increased at %v: %f > %f", age, got, prev)
		}
		prev = got
	}
}

func TestScorer_EngagementScore(t *testing.T) {
	s := NewScorer(DefaultConfig())

	tests := []struct {
		name     string
		likes    int64
		comments int64
		shares   int64
		want     float64
	}{
		{"no engagement", 0, 0, 0, 0},
		{"saturation point", 99, 0, 0, 1.0},
		{"beyond saturation clamps", 10000, 0, 0, 1.0},
		{"comments and shares weighted", 0, 3, 2, math.Log(13) / math.Log(100)},
		{"single like", 1, 0, 0, math.Log(2) / math.Log(100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.Post{Likes: tt.likes, Comments: tt.comments, Shares: tt.shares}
			if got := s.EngagementScore(&p); !approxEqual(got, tt.want) {
				t.Errorf("EngagementScore() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestScorer_WeightedEngagement(t *testing.T) {
	s := NewScorer(DefaultConfig())
	p := models.Post{Likes: 5, Comments: 2, Shares: 1}
	if got := s.WeightedEngagement(&p); got != 12 {
		t.Errorf("WeightedEngagement() = %f, want 12", got)
	}
}

func TestScorer_AffinityScore(t *testing.T) {
	s := NewScorer(DefaultConfig())
	own := models.Post{AuthorID: "viewer"}
	other := models.Post{AuthorID: "someone"}

	if got := s.AffinityScore(&own, "viewer"); got != 0.1 {
		t.Errorf("own post affinity = %f, want 0.1", got)
	}
	if got := s.AffinityScore(&other, "viewer"); got != 0.5 {
		t.Errorf("other post affinity = %f, want 0.5", got)
	}
	if got := s.AffinityScore(&models.Post{}, ""); got != 0.5 {
		t.Errorf("anonymous viewer affinity = %f, want 0.5", got)
	}
}

func TestScorer_ContentTypeScore(t *testing.T) {
	s := NewScorer(DefaultConfig())
	prefs := models.PreferenceProfile{VideoPreference: 0.9, PhotoPreference: 0.3, MusicPreference: 0.8}

	tests := []struct {
		name  string
		post  models.Post
		prefs models.PreferenceProfile
		want  float64
	}{
		{"video", models.Post{Media: &models.Media{Kind: models.MediaKindVideo}}, prefs, 0.9},
		{"reel", models.Post{Type: models.PostTypeReel}, prefs, 0.9},
		{"image", models.Post{Media: &models.Media{Kind: models.MediaKindImage}}, prefs, 0.3},
		{"music", models.Post{MusicTrack: &models.MusicTrack{ID: "t"}}, prefs, 0.8},
		{"image with music prefers image", models.Post{
			Media:      &models.Media{Kind: models.MediaKindImage},
			MusicTrack: &models.MusicTrack{ID: "t"},
		}, prefs, 0.3},
		{"text is neutral", models.Post{Body: "hello"}, prefs, 0.5},
		{"unset prefs use defaults", models.Post{Media: &models.Media{Kind: models.MediaKindVideo}},
			models.PreferenceProfile{}, models.DefaultVideoPreference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.ContentTypeScore(&tt.post, tt.prefs); !approxEqual(got, tt.want) {
				t.Errorf("ContentTypeScore() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestScorer_ScoreBounds(t *testing.T) {
	s := NewScorer(DefaultConfig())
	prefs := models.PreferenceProfile{VideoPreference: 1, PhotoPreference: 1, MusicPreference: 1}

	kinds := []*models.Media{nil, {Kind: models.MediaKindImage}, {Kind: models.MediaKindVideo}}
	for _, media := range kinds {
		for _, likes := range []int64{0, 1, 50, 1000000} {
			for _, age := range []time.Duration{-time.Hour, 0, 30 * time.Hour, 72 * time.Hour} {
				for _, author := range []string{"viewer", "other"} {
					p := postAged("p", author, age)
					p.Media = media
					p.Likes = likes
					got := s.Score(&p, "viewer", prefs, testNow)
					if got < 0 || got > 1 {
						t.Fatalf("Score() = %f out of [0,1] for likes=%d age=%v media=%v", got, likes, age, media)
					}
				}
			}
		}
	}
}

func TestScorer_VideoBoostNonNegative(t *testing.T) {
	s := NewScorer(DefaultConfig())
	prefs := models.PreferenceProfile{VideoPreference: 0.5, PhotoPreference: 0.5, MusicPreference: 0.5}

	for _, likes := range []int64{0, 10, 1000} {
		base := postAged("a", "x", 5*time.Hour)
		base.Likes = likes
		base.Media = &models.Media{Kind: models.MediaKindImage}

		video := base
		video.Media = &models.Media{Kind: models.MediaKindVideo}

		b := s.Breakdown(&base, "viewer", prefs, testNow)
		v := s.Breakdown(&video, "viewer", prefs, testNow)
		if v.Boosted < b.Boosted {
			t.Errorf("likes=%d: video pre-clamp %f < non-video %f", likes, v.Boosted, b.Boosted)
		}
		if !approxEqual(v.Boosted, v.Weighted*1.2) {
			t.Errorf("likes=%d: boosted %f != weighted %f * 1.2", likes, v.Boosted, v.Weighted)
		}
	}
}

func TestScorer_Deterministic(t *testing.T) {
	s := NewScorer(DefaultConfig())
	p := postAged("p", "x", 30*time.Hour)
	p.Likes, p.Comments, p.Shares = 7, 3, 1
	prefs := models.DefaultPreferences()

	first := s.Score(&p, "viewer", prefs, testNow)
	for i := 0; i < 10; i++ {
		if got := s.Score(&p, "viewer", prefs, testNow); got != first {
			t.Fatalf("Score() not deterministic: %f != %f", got, first)
		}
	}
}

func TestScorer_ScenarioScores(t *testing.T) {
	s := NewScorer(DefaultConfig())
	prefs := models.DefaultPreferences()

	a := postAged("A", "alice", time.Hour)
	a.Likes = 100
	b := postAged("B", "bob", 50*time.Hour)
	b.Likes = 5

	scoreA := s.Score(&a, "viewer", prefs, testNow)
	scoreB := s.Score(&b, "viewer", prefs, testNow)

	// 0.4 recency + 0.3 engagement (clamped) + 0.1 affinity + 0.05 text
	if !approxEqual(scoreA, 0.85) {
		t.Errorf("score(A) = %f, want 0.85", scoreA)
	}
	if scoreA <= scoreB+0.1 {
		t.Errorf("score(A) = %f should clearly beat score(B) = %f", scoreA, scoreB)
	}
}
