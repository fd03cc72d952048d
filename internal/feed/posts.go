// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tomtom215/feedrank/internal/metrics"
	"github.com/tomtom215/feedrank/internal/models"
	"github.com/tomtom215/feedrank/internal/ranking"
	"github.com/tomtom215/feedrank/internal/store"
	"github.com/tomtom215/feedrank/internal/validation"
)

// storeError tags failures of the backing store as ErrDataUnavailable,
// leaving caller errors such as store.ErrNotFound untouched.
func storeError(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrAlreadyExists) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrDataUnavailable, err)
}

// CreatePost validates np, stores a new post and announces it. Every cached
// feed is cleared, through the PostCreated subscriber when a publisher is
// configured and directly otherwise.
func (s *Service) CreatePost(ctx context.Context, np models.NewPost) (*models.Post, error) {
	if verr := validation.ValidateStruct(&np); verr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPost, verr)
	}

	post := models.Post{
		ID:         uuid.NewString(),
		AuthorID:   np.AuthorID,
		Body:       np.Body,
		Type:       np.Type,
		Media:      np.Media,
		MusicTrack: np.MusicTrack,
		Tags:       np.Tags,
		Location:   np.Location,
		IsPublic:   true,
		CreatedAt:  s.now().UTC(),
	}
	if post.Type == "" {
		post.Type = models.PostTypePost
	}
	if np.IsPublic != nil {
		post.IsPublic = *np.IsPublic
	}

	if err := s.posts.Append(ctx, post); err != nil {
		return nil, storeError("create post", err)
	}
	metrics.RecordPostCreated()

	s.logger.Info().
		Str("post_id", post.ID).
		Str("author_id", post.AuthorID).
		Str("type", string(post.Type)).
		Msg("Post created")

	if s.pub == nil {
		s.cache.ClearAll()
		return &post, nil
	}
	if err := s.pub.PublishPostCreated(ctx, &post); err != nil {
		s.logger.Warn().Err(err).Str("post_id", post.ID).Msg("Failed to publish post event, clearing cache directly")
		s.cache.ClearAll()
	}
	return &post, nil
}

// UpdatePost applies counter adjustments or moderation flags. Counters feed
// every ranking, so the whole cache is cleared afterwards.
func (s *Service) UpdatePost(ctx context.Context, postID string, update models.PostUpdate) (*models.Post, error) {
	if update.IsEmpty() {
		return nil, fmt.Errorf("%w: empty update", ErrInvalidPost)
	}

	post, err := s.posts.Update(ctx, postID, update)
	if err != nil {
		return nil, storeError("update post", err)
	}

	s.ClearAllCache(ctx)
	return post, nil
}

// ListUserPosts returns the visible posts authored by userID, newest first.
func (s *Service) ListUserPosts(ctx context.Context, userID string) ([]models.Post, error) {
	posts, err := s.posts.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError("list user posts", err)
	}

	out := make([]models.Post, 0, len(posts))
	for i := range posts {
		if !posts[i].Removed() {
			out = append(out, posts[i])
		}
	}
	ranking.SortChronological(out)
	return out, nil
}
