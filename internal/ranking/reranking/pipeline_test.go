// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package reranking

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/feedrank/internal/models"
	"github.com/tomtom215/feedrank/internal/ranking"
)

var pipelineNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func newPipeline(t *testing.T, cfg *ranking.Config) *ranking.PersonalizedStrategy {
	t.Helper()
	if cfg == nil {
		cfg = ranking.DefaultConfig()
	}
	s, err := ranking.NewPersonalizedStrategy(cfg, zerolog.New(io.Discard), DefaultStages(cfg)...)
	if err != nil {
		t.Fatalf("NewPersonalizedStrategy() error = %v", err)
	}
	return s
}

func agedPost(id, author string, age time.Duration, likes int64) models.Post {
	return models.Post{
		ID:        id,
		AuthorID:  author,
		IsPublic:  true,
		Likes:     likes,
		CreatedAt: pipelineNow.Add(-age),
	}
}

func TestDefaultStages(t *testing.T) {
	cfg := ranking.DefaultConfig()
	stages := DefaultStages(cfg)
	if len(stages) != 3 {
		t.Fatalf("len(stages) = %d, want 3", len(stages))
	}
	want := []string{"diversity_cap", "jitter", "diversity_cap"}
	for i := range want {
		if stages[i].Name() != want[i] {
			t.Errorf("stage %d = %q, want %q", i, stages[i].Name(), want[i])
		}
	}

	cfg.Jitter.Enabled = false
	if got := DefaultStages(cfg); len(got) != 1 || got[0].Name() != "diversity_cap" {
		t.Errorf("jitter disabled stages = %v", got)
	}
}

func TestPipeline_ScenarioRecencyDominates(t *testing.T) {
	s := newPipeline(t, nil)

	a := agedPost("A", "alice", time.Hour, 100)
	b := agedPost("B", "bob", 50*time.Hour, 5)
	c := agedPost("C", "carol", 80*time.Hour, 500)

	for run := 0; run < 20; run++ {
		res := s.Rank(context.Background(), []models.Post{c, b, a}, ranking.Request{
			ViewerID:    "V",
			Preferences: models.DefaultPreferences(),
			Now:         pipelineNow,
		})
		if res.Fallback {
			t.Fatalf("unexpected fallback: %v", res.Err)
		}
		if len(res.Posts) != 2 {
			t.Fatalf("run %d: got %d posts, want 2 (C filtered)", run, len(res.Posts))
		}
		if res.Posts[0].ID != "A" || res.Posts[1].ID != "B" {
			t.Fatalf("run %d: order = [%s %s], want [A B]", run, res.Posts[0].ID, res.Posts[1].ID)
		}
	}
}

func TestPipeline_TenPostsFromOneAuthor(t *testing.T) {
	s := newPipeline(t, nil)

	posts := make([]models.Post, 10)
	for i := range posts {
		posts[i] = agedPost(fmt.Sprintf("x%d", i), "X", time.Duration(i+1)*time.Hour, int64(i))
	}

	res := s.Rank(context.Background(), posts, ranking.Request{ViewerID: "V", Now: pipelineNow})
	if got := LongestRun(res.Posts); got > 2 {
		t.Errorf("longest run = %d, want <= 2", got)
	}
	if len(res.Posts) == 0 {
		t.Error("expected at least one post from X")
	}
}

func TestPipeline_DiversityHoldsAfterJitter(t *testing.T) {
	rng := rand.New(rand.NewSource(11)) //nolint:gosec // test data
	authors := []string{"a", "b", "c"}

	for trial := 0; trial < 50; trial++ {
		cfg := ranking.DefaultConfig()
		cfg.Seed = int64(trial + 1)
		s := newPipeline(t, cfg)

		posts := make([]models.Post, 30)
		for i := range posts {
			// Near-identical scores so jitter reorders freely.
			posts[i] = agedPost(fmt.Sprintf("p%d", i), authors[rng.Intn(len(authors))], 2*time.Hour, 10)
		}

		res := s.Rank(context.Background(), posts, ranking.Request{ViewerID: "V", Now: pipelineNow})
		if got := LongestRun(res.Posts); got > cfg.Diversity.MaxConsecutive {
			t.Fatalf("trial %d: longest run = %d, cap %d", trial, got, cfg.Diversity.MaxConsecutive)
		}
	}
}

func TestPipeline_ScoresStayInUnitInterval(t *testing.T) {
	s := newPipeline(t, nil)

	posts := []models.Post{
		agedPost("hot", "a", time.Minute, 100000),
		agedPost("cold", "b", 71*time.Hour, 0),
	}
	posts[0].Media = &models.Media{Kind: models.MediaKindVideo}

	res := s.Rank(context.Background(), posts, ranking.Request{ViewerID: "V", Now: pipelineNow})
	for i := range res.Posts {
		if res.Posts[i].FeedScore < 0 || res.Posts[i].FeedScore > 1 {
			t.Errorf("%s FeedScore = %f", res.Posts[i].ID, res.Posts[i].FeedScore)
		}
	}
}

func TestPipeline_NeverReturnsStalePosts(t *testing.T) {
	s := newPipeline(t, nil)

	posts := make([]models.Post, 0, 20)
	for i := 0; i < 20; i++ {
		posts = append(posts, agedPost(fmt.Sprintf("p%d", i), fmt.Sprintf("u%d", i), time.Duration(i*6)*time.Hour, 50))
	}

	res := s.Rank(context.Background(), posts, ranking.Request{ViewerID: "V", Now: pipelineNow})
	for i := range res.Posts {
		if res.Posts[i].Age(pipelineNow) > 72*time.Hour {
			t.Errorf("stale post %s (age %v) in feed", res.Posts[i].ID, res.Posts[i].Age(pipelineNow))
		}
	}
}
