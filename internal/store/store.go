// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package store

import (
	"context"
	"errors"

	"github.com/tomtom215/feedrank/internal/models"
)

var (
	// ErrNotFound is returned when a post id does not exist.
	ErrNotFound = errors.New("post not found")

	// ErrAlreadyExists is returned by Append for a duplicate post id.
	ErrAlreadyExists = errors.New("post already exists")

	// ErrUnavailable is returned when the backing store cannot serve reads,
	// including when a circuit breaker is open.
	ErrUnavailable = errors.New("post store unavailable")
)

// PostStore is the post collection the feed service ranks over.
//
// Implementations return copies; callers may mutate returned posts freely.
// The transient FeedScore and TrendingScore fields are never persisted.
type PostStore interface {
	// ListAll returns every stored post, including removed ones.
	ListAll(ctx context.Context) ([]models.Post, error)

	// ListByUser returns the posts authored by userID.
	ListByUser(ctx context.Context, userID string) ([]models.Post, error)

	// Append stores a new post.
	Append(ctx context.Context, post models.Post) error

	// Update applies a partial update and returns the stored result.
	Update(ctx context.Context, postID string, update models.PostUpdate) (*models.Post, error)
}

// PreferenceStore resolves a viewer's preference profile.
type PreferenceStore interface {
	// GetPreferences returns the profile for userID. Unknown users get the
	// default profile and a nil error.
	GetPreferences(ctx context.Context, userID string) (models.PreferenceProfile, error)
}
