// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/tomtom215/feedrank/internal/models"
)

// MemoryPostStore implements PostStore in process memory.
// Posts are listed in insertion order.
type MemoryPostStore struct {
	mu    sync.RWMutex
	posts map[string]*models.Post
	order []string
}

// NewMemoryPostStore creates a store seeded with posts. Seed posts with a
// duplicate id are ignored after the first.
func NewMemoryPostStore(seed ...models.Post) *MemoryPostStore {
	s := &MemoryPostStore{
		posts: make(map[string]*models.Post, len(seed)),
	}
	for i := range seed {
		if _, ok := s.posts[seed[i].ID]; ok {
			continue
		}
		p := seed[i].Canonical()
		s.posts[p.ID] = &p
		s.order = append(s.order, p.ID)
	}
	return s
}

// ListAll returns copies of every post in insertion order.
func (s *MemoryPostStore) ListAll(ctx context.Context) ([]models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Post, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.posts[id].Clone())
	}
	return out, nil
}

// ListByUser returns copies of the posts authored by userID.
func (s *MemoryPostStore) ListByUser(ctx context.Context, userID string) ([]models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Post
	for _, id := range s.order {
		if p := s.posts[id]; p.AuthorID == userID {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

// Append stores a new post.
func (s *MemoryPostStore) Append(ctx context.Context, post models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if post.ID == "" {
		return fmt.Errorf("append post: empty id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[post.ID]; ok {
		return fmt.Errorf("append post %s: %w", post.ID, ErrAlreadyExists)
	}
	p := post.Canonical()
	s.posts[p.ID] = &p
	s.order = append(s.order, p.ID)
	return nil
}

// Update applies update to the stored post.
func (s *MemoryPostStore) Update(ctx context.Context, postID string, update models.PostUpdate) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[postID]
	if !ok {
		return nil, fmt.Errorf("update post %s: %w", postID, ErrNotFound)
	}
	update.Apply(p)
	out := p.Clone()
	return &out, nil
}

// Len returns the number of stored posts.
func (s *MemoryPostStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

var _ PostStore = (*MemoryPostStore)(nil)

// MemoryPreferenceStore implements PreferenceStore with per-user overrides.
type MemoryPreferenceStore struct {
	mu       sync.RWMutex
	profiles map[string]models.PreferenceProfile
}

// NewMemoryPreferenceStore creates an empty store; every user resolves to
// the default profile until SetPreferences is called.
func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{
		profiles: make(map[string]models.PreferenceProfile),
	}
}

// GetPreferences returns the stored profile with unset affinities filled in.
func (s *MemoryPreferenceStore) GetPreferences(ctx context.Context, userID string) (models.PreferenceProfile, error) {
	if err := ctx.Err(); err != nil {
		return models.PreferenceProfile{}, err
	}

	s.mu.RLock()
	p, ok := s.profiles[userID]
	s.mu.RUnlock()

	if !ok {
		return models.DefaultPreferences(), nil
	}
	return p.WithDefaults(), nil
}

// SetPreferences replaces the profile for userID.
func (s *MemoryPreferenceStore) SetPreferences(userID string, profile models.PreferenceProfile) {
	profile.FollowedUsers = append([]string(nil), profile.FollowedUsers...)
	profile.BlockedUsers = append([]string(nil), profile.BlockedUsers...)
	profile.Interests = append([]string(nil), profile.Interests...)

	s.mu.Lock()
	s.profiles[userID] = profile
	s.mu.Unlock()
}

var _ PreferenceStore = (*MemoryPreferenceStore)(nil)
