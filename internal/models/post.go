// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package models

import (
	"math"
	"time"
)

// MediaKind identifies the kind of media attached to a post.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// PostType is the presentation type chosen at post creation.
type PostType string

const (
	PostTypePost  PostType = "post"
	PostTypeReel  PostType = "reel"
	PostTypeStory PostType = "story"
)

// Media references an uploaded image or video. Locator is opaque to
// ranking; it is whatever the media collaborator handed back (URI, object key).
type Media struct {
	Kind      MediaKind `json:"kind" validate:"required,oneof=image video"`
	Locator   string    `json:"locator" validate:"required"`
	Thumbnail string    `json:"thumbnail,omitempty"`
}

// MusicTrack references a track attached to a post.
type MusicTrack struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist,omitempty"`
}

// Post is one unit of shareable content.
//
// Engagement counters are only adjusted through PostStore.Update. CreatedAt is
// set once at creation and never changes afterwards.
//
// FeedScore and TrendingScore are transient ranking values. They are attached
// to the copies handed out by a ranking pass and are stripped by every store
// before a post is persisted.
type Post struct {
	ID       string `json:"id"`
	AuthorID string `json:"author_id"`

	Body       string      `json:"body"`
	Type       PostType    `json:"type"`
	Media      *Media      `json:"media,omitempty"`
	MusicTrack *MusicTrack `json:"music_track,omitempty"`
	Tags       []string    `json:"tags,omitempty"`
	Location   string      `json:"location,omitempty"`

	IsPublic bool `json:"is_public"`
	Deleted  bool `json:"deleted,omitempty"`
	Flagged  bool `json:"flagged,omitempty"`

	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Shares   int64 `json:"shares"`
	Views    int64 `json:"views"`

	CreatedAt time.Time `json:"created_at"`

	FeedScore     float64 `json:"feed_score,omitempty"`
	TrendingScore float64 `json:"trending_score,omitempty"`
}

// IsVideo reports whether the post counts as video content. Reels are
// always video, regardless of the attached media.
func (p *Post) IsVideo() bool {
	if p.Type == PostTypeReel {
		return true
	}
	return p.Media != nil && p.Media.Kind == MediaKindVideo
}

// IsImage reports whether the post carries an image.
func (p *Post) IsImage() bool {
	return !p.IsVideo() && p.Media != nil && p.Media.Kind == MediaKindImage
}

// HasMusic reports whether a music track is attached.
func (p *Post) HasMusic() bool {
	return p.MusicTrack != nil
}

// Removed reports whether the post was soft-deleted or flagged.
func (p *Post) Removed() bool {
	return p.Deleted || p.Flagged
}

// Age returns how old the post is at now.
func (p *Post) Age(now time.Time) time.Duration {
	return now.Sub(p.CreatedAt)
}

// Clone returns a deep copy. Slices and pointer fields are not shared.
func (p *Post) Clone() Post {
	c := *p
	if p.Media != nil {
		m := *p.Media
		c.Media = &m
	}
	if p.MusicTrack != nil {
		t := *p.MusicTrack
		c.MusicTrack = &t
	}
	if p.Tags != nil {
		c.Tags = append([]string(nil), p.Tags...)
	}
	return c
}

// Canonical returns a copy with the transient ranking fields cleared.
func (p *Post) Canonical() Post {
	c := p.Clone()
	c.FeedScore = 0
	c.TrendingScore = 0
	return c
}

// ClonePosts deep-copies a slice of posts.
func ClonePosts(posts []Post) []Post {
	if posts == nil {
		return nil
	}
	out := make([]Post, len(posts))
	for i := range posts {
		out[i] = posts[i].Clone()
	}
	return out
}

// PostUpdate describes a partial update applied by PostStore.Update.
// Nil fields are left untouched. Counter deltas are added to the current
// value and the result is floored at zero.
type PostUpdate struct {
	LikesDelta    *int64 `json:"likes_delta,omitempty"`
	CommentsDelta *int64 `json:"comments_delta,omitempty"`
	SharesDelta   *int64 `json:"shares_delta,omitempty"`
	ViewsDelta    *int64 `json:"views_delta,omitempty"`

	Body     *string `json:"body,omitempty"`
	IsPublic *bool   `json:"is_public,omitempty"`
	Deleted  *bool   `json:"deleted,omitempty"`
	Flagged  *bool   `json:"flagged,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u *PostUpdate) IsEmpty() bool {
	return u.LikesDelta == nil && u.CommentsDelta == nil && u.SharesDelta == nil &&
		u.ViewsDelta == nil && u.Body == nil && u.IsPublic == nil &&
		u.Deleted == nil && u.Flagged == nil
}

// Apply mutates p according to the update.
func (u *PostUpdate) Apply(p *Post) {
	p.Likes = addFloorZero(p.Likes, u.LikesDelta)
	p.Comments = addFloorZero(p.Comments, u.CommentsDelta)
	p.Shares = addFloorZero(p.Shares, u.SharesDelta)
	p.Views = addFloorZero(p.Views, u.ViewsDelta)
	if u.Body != nil {
		p.Body = *u.Body
	}
	if u.IsPublic != nil {
		p.IsPublic = *u.IsPublic
	}
	if u.Deleted != nil {
		p.Deleted = *u.Deleted
	}
	if u.Flagged != nil {
		p.Flagged = *u.Flagged
	}
}

// addFloorZero applies delta to a counter, clamping to [0, MaxInt64].
func addFloorZero(v int64, delta *int64) int64 {
	if delta == nil {
		return v
	}
	if v < 0 {
		v = 0
	}
	d := *delta
	if d > 0 && v > math.MaxInt64-d {
		return math.MaxInt64
	}
	v += d
	if v < 0 {
		return 0
	}
	return v
}

// NewPost is the payload accepted by post creation.
type NewPost struct {
	AuthorID   string      `json:"author_id" validate:"required,max=128"`
	Body       string      `json:"body" validate:"max=5000"`
	Type       PostType    `json:"type,omitempty" validate:"omitempty,oneof=post reel story"`
	Media      *Media      `json:"media,omitempty"`
	MusicTrack *MusicTrack `json:"music_track,omitempty"`
	Tags       []string    `json:"tags,omitempty" validate:"max=30,dive,max=64"`
	Location   string      `json:"location,omitempty" validate:"max=256"`
	IsPublic   *bool       `json:"is_public,omitempty"`
}
