// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package models

import (
	"math"
	"testing"
	"time"
)

func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestPostIsVideo(t *testing.T) {
	tests := []struct {
		name string
		post Post
		want bool
	}{
		{"text", Post{}, false},
		{"image", Post{Media: &Media{Kind: MediaKindImage}}, false},
		{"video media", Post{Media: &Media{Kind: MediaKindVideo}}, true},
		{"reel without media", Post{Type: PostTypeReel}, true},
		{"reel with image", Post{Type: PostTypeReel, Media: &Media{Kind: MediaKindImage}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.post.IsVideo(); got != tt.want {
				t.Errorf("IsVideo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPostIsImage(t *testing.T) {
	p := Post{Type: PostTypeReel, Media: &Media{Kind: MediaKindImage}}
	if p.IsImage() {
		t.Error("reel should not count as image")
	}
	p.Type = PostTypePost
	if !p.IsImage() {
		t.Error("image post should count as image")
	}
}

func TestPostCloneDoesNotAlias(t *testing.T) {
	orig := Post{
		ID:         "p1",
		Tags:       []string{"music"},
		Media:      &Media{Kind: MediaKindVideo, Locator: "a.mp4"},
		MusicTrack: &MusicTrack{ID: "t1"},
	}
	c := orig.Clone()
	c.Tags[0] = "changed"
	c.Media.Locator = "b.mp4"
	c.MusicTrack.ID = "t2"

	if orig.Tags[0] != "music" {
		t.Errorf("tags aliased: %v", orig.Tags)
	}
	if orig.Media.Locator != "a.mp4" {
		t.Errorf("media aliased: %v", orig.Media.Locator)
	}
	if orig.MusicTrack.ID != "t1" {
		t.Errorf("music track aliased: %v", orig.MusicTrack.ID)
	}
}

func TestPostCanonicalClearsScores(t *testing.T) {
	p := Post{ID: "p1", FeedScore: 0.7, TrendingScore: 12}
	c := p.Canonical()
	if c.FeedScore != 0 || c.TrendingScore != 0 {
		t.Errorf("Canonical() kept transient scores: %+v", c)
	}
	if p.FeedScore != 0.7 {
		t.Error("Canonical() mutated receiver")
	}
}

func TestPostUpdateApply(t *testing.T) {
	p := Post{Likes: 2, Comments: 1, Shares: 0, Views: 10}
	u := PostUpdate{
		LikesDelta:  int64Ptr(3),
		SharesDelta: int64Ptr(-5),
		Deleted:     boolPtr(true),
	}
	u.Apply(&p)

	if p.Likes != 5 {
		t.Errorf("Likes = %d, want 5", p.Likes)
	}
	if p.Shares != 0 {
		t.Errorf("Shares = %d, want floor at 0", p.Shares)
	}
	if p.Comments != 1 || p.Views != 10 {
		t.Errorf("untouched counters changed: %+v", p)
	}
	if !p.Deleted {
		t.Error("Deleted not applied")
	}
}

func TestPostUpdateApply_Saturates(t *testing.T) {
	tests := []struct {
		name  string
		start int64
		delta int64
		want  int64
	}{
		{"large positive delta", 10, math.MaxInt64, math.MaxInt64},
		{"at the ceiling", math.MaxInt64, 1, math.MaxInt64},
		{"exactly fits", 1, math.MaxInt64 - 1, math.MaxInt64},
		{"large negative delta", 10, math.MinInt64, 0},
		{"ordinary increment", 7, 3, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Post{Likes: tt.start}
			(&PostUpdate{LikesDelta: int64Ptr(tt.delta)}).Apply(&p)
			if p.Likes != tt.want {
				t.Errorf("Likes = %d, want %d", p.Likes, tt.want)
			}
		})
	}
}

func TestPostUpdateIsEmpty(t *testing.T) {
	if !(&PostUpdate{}).IsEmpty() {
		t.Error("zero update should be empty")
	}
	if (&PostUpdate{Flagged: boolPtr(false)}).IsEmpty() {
		t.Error("update with Flagged should not be empty")
	}
}

func TestPostAge(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	p := Post{CreatedAt: now.Add(-3 * time.Hour)}
	if got := p.Age(now); got != 3*time.Hour {
		t.Errorf("Age() = %v, want 3h", got)
	}
}

func TestPreferenceProfileWithDefaults(t *testing.T) {
	p := PreferenceProfile{VideoPreference: 0.9}.WithDefaults()
	if p.VideoPreference != 0.9 {
		t.Errorf("VideoPreference = %v, want 0.9", p.VideoPreference)
	}
	if p.PhotoPreference != DefaultPhotoPreference {
		t.Errorf("PhotoPreference = %v, want %v", p.PhotoPreference, DefaultPhotoPreference)
	}
	if p.MusicPreference != DefaultMusicPreference {
		t.Errorf("MusicPreference = %v, want %v", p.MusicPreference, DefaultMusicPreference)
	}
}

func TestPreferenceProfileLists(t *testing.T) {
	p := PreferenceProfile{BlockedUsers: []string{"troll"}, FollowedUsers: []string{"friend"}}
	if !p.IsBlocked("troll") || p.IsBlocked("friend") {
		t.Error("IsBlocked mismatch")
	}
	if !p.Follows("friend") || p.Follows("troll") {
		t.Error("Follows mismatch")
	}
}

func TestInteractionKindValid(t *testing.T) {
	for _, k := range InteractionKinds {
		if !k.Valid() {
			t.Errorf("%q should be valid", k)
		}
	}
	for _, k := range []InteractionKind{"", "LIKE", "bookmark"} {
		if k.Valid() {
			t.Errorf("%q should be invalid", k)
		}
	}
}
