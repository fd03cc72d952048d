// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package ranking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/tomtom215/feedrank/internal/models"
)

func newTestTrending(t *testing.T) *TrendingStrategy {
	t.Helper()
	s, err := NewTrendingStrategy(DefaultConfig(), testLogger())
	if err != nil {
		t.Fatalf("NewTrendingStrategy() error = %v", err)
	}
	return s
}

func TestEngagementRate(t *testing.T) {
	tests := []struct {
		name string
		age  time.Duration
		want float64
	}{
		{"younger than an hour divides by one", 10 * time.Minute, 30},
		{"exactly one hour", time.Hour, 30},
		{"three hours", 3 * time.Hour, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := postAged("p", "x", tt.age)
			p.Likes, p.Comments, p.Shares = 10, 10, 10
			if got := EngagementRate(&p, testNow); !approxEqual(got, tt.want) {
				t.Errorf("EngagementRate() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestTrendingStrategy_EffectiveWindow(t *testing.T) {
	s := newTestTrending(t)

	tests := []struct {
		in   time.Duration
		want time.Duration
	}{
		{0, 24 * time.Hour},
		{time.Minute, time.Hour},
		{90 * time.Minute, time.Hour},
		{6*time.Hour + 59*time.Minute, 6 * time.Hour},
		{6 * time.Hour, 6 * time.Hour},
		{500 * time.Hour, 72 * time.Hour},
	}
	for _, tt := range tests {
		if got := s.EffectiveWindow(tt.in); got != tt.want {
			t.Errorf("EffectiveWindow(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTrendingStrategy_RankByRate(t *testing.T) {
	s := newTestTrending(t)

	slowBurn := postAged("slow", "a", 20*time.Hour)
	slowBurn.Likes = 100 // 5/h
	hot := postAged("hot", "b", 2*time.Hour)
	hot.Likes, hot.Shares = 30, 10 // 20/h
	outside := postAged("outside", "c", 30*time.Hour)
	outside.Likes = 10000
	removed := postAged("removed", "d", time.Hour)
	removed.Likes = 500
	removed.Flagged = true
	private := postAged("private", "e", time.Hour)
	private.Likes = 500
	private.IsPublic = false

	res := s.Rank(context.Background(), []models.Post{slowBurn, hot, outside, removed, private}, Request{Now: testNow})

	if res.AlgorithmID != AlgorithmTrendingV1 {
		t.Errorf("AlgorithmID = %q", res.AlgorithmID)
	}
	got := postIDs(res.Posts)
	if len(got) != 2 || got[0] != "hot" || got[1] != "slow" {
		t.Fatalf("trending = %v, want [hot slow]", got)
	}
	if !approxEqual(res.Posts[0].TrendingScore, 20) {
		t.Errorf("TrendingScore = %f, want 20", res.Posts[0].TrendingScore)
	}
	if !approxEqual(res.Posts[0].FeedScore, 1) || !approxEqual(res.Posts[1].FeedScore, 0.25) {
		t.Errorf("FeedScore = %f, %f; want 1, 0.25", res.Posts[0].FeedScore, res.Posts[1].FeedScore)
	}
}

func TestTrendingStrategy_FeedScoreBounded(t *testing.T) {
	s := newTestTrending(t)

	viral := postAged("viral", "a", time.Hour)
	viral.Likes = 500
	quiet := postAged("quiet", "b", 3*time.Hour)
	zero := postAged("zero", "c", 2*time.Hour)

	res := s.Rank(context.Background(), []models.Post{viral, quiet, zero}, Request{Now: testNow})
	if len(res.Posts) != 3 {
		t.Fatalf("trending = %v", postIDs(res.Posts))
	}
	if !approxEqual(res.Posts[0].TrendingScore, 500) {
		t.Errorf("TrendingScore = %f, want 500", res.Posts[0].TrendingScore)
	}
	for _, p := range res.Posts {
		if p.FeedScore < 0 || p.FeedScore > 1 {
			t.Errorf("post %s FeedScore = %f, want within [0, 1]", p.ID, p.FeedScore)
		}
	}

	idle := s.Rank(context.Background(), []models.Post{quiet, zero}, Request{Now: testNow})
	for _, p := range idle.Posts {
		if p.FeedScore != 0 {
			t.Errorf("post %s FeedScore = %f with no engagement, want 0", p.ID, p.FeedScore)
		}
	}
}

func TestTrendingStrategy_WindowBoundaryExclusive(t *testing.T) {
	s := newTestTrending(t)
	edge := postAged("edge", "a", 24*time.Hour)
	edge.Likes = 10

	res := s.Rank(context.Background(), []models.Post{edge}, Request{Now: testNow, Window: 24 * time.Hour})
	if len(res.Posts) != 0 {
		t.Errorf("post exactly at the cutoff should be excluded, got %v", postIDs(res.Posts))
	}
}

func TestTrendingStrategy_Top20(t *testing.T) {
	s := newTestTrending(t)

	posts := make([]models.Post, 30)
	for i := range posts {
		posts[i] = postAged(fmt.Sprintf("p%02d", i), "a", 2*time.Hour)
		posts[i].Likes = int64(i)
	}

	res := s.Rank(context.Background(), posts, Request{Now: testNow})
	if len(res.Posts) != 20 {
		t.Fatalf("len = %d, want 20", len(res.Posts))
	}
	if res.Posts[0].ID != "p29" {
		t.Errorf("first = %q, want p29", res.Posts[0].ID)
	}
}

func TestTrendingStrategy_StableAcrossRuns(t *testing.T) {
	s := newTestTrending(t)

	posts := make([]models.Post, 10)
	for i := range posts {
		posts[i] = postAged(fmt.Sprintf("p%d", i), fmt.Sprintf("u%d", i%3), time.Duration(i+1)*time.Hour)
		posts[i].Likes = int64(10 * (i % 4))
	}

	first := postIDs(s.Rank(context.Background(), posts, Request{Now: testNow}).Posts)
	for run := 0; run < 5; run++ {
		got := postIDs(s.Rank(context.Background(), posts, Request{Now: testNow}).Posts)
		for i := range first {
			if got[i] != first[i] {
				t.Fatalf("run %d differs: %v vs %v", run, got, first)
			}
		}
	}
}

func TestTrendingStrategy_NeverReturnsStalePosts(t *testing.T) {
	s := newTestTrending(t)
	stale := postAged("stale", "a", 80*time.Hour)
	stale.Likes = 1000

	res := s.Rank(context.Background(), []models.Post{stale}, Request{Now: testNow, Window: 1000 * time.Hour})
	if len(res.Posts) != 0 {
		t.Errorf("stale post trended: %v", postIDs(res.Posts))
	}
}
