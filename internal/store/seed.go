// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/feedrank/internal/models"
)

// demoPost describes one seeded post relative to the seeding time.
type demoPost struct {
	author   string
	postType models.PostType
	media    models.MediaKind
	body     string
	age      time.Duration
	likes    int64
	comments int64
	shares   int64
	views    int64
}

var demoPosts = []demoPost{
	{"alice", models.PostTypePost, models.MediaKindImage, "Morning light over the harbour", 45 * time.Minute, 12, 3, 1, 140},
	{"bob", models.PostTypeReel, models.MediaKindVideo, "Thirty seconds of latte art", 2 * time.Hour, 88, 14, 9, 2300},
	{"carol", models.PostTypePost, "", "Reading list for the long weekend", 3 * time.Hour, 5, 7, 0, 90},
	{"alice", models.PostTypeStory, models.MediaKindImage, "Trail run, day four", 5 * time.Hour, 21, 2, 0, 310},
	{"dave", models.PostTypeReel, models.MediaKindVideo, "Bike commute timelapse", 8 * time.Hour, 140, 22, 31, 5100},
	{"erin", models.PostTypePost, models.MediaKindImage, "Sourdough attempt number nine", 13 * time.Hour, 34, 11, 2, 620},
	{"bob", models.PostTypePost, "", "Anyone else at the meetup tonight?", 20 * time.Hour, 3, 19, 0, 210},
	{"frank", models.PostTypeReel, models.MediaKindVideo, "Street band at the market", 28 * time.Hour, 260, 40, 55, 9800},
	{"carol", models.PostTypePost, models.MediaKindImage, "New desk setup", 40 * time.Hour, 47, 9, 4, 800},
	{"dave", models.PostTypePost, "", "Notes from the planning session", 60 * time.Hour, 8, 2, 1, 150},
	{"erin", models.PostTypeStory, models.MediaKindVideo, "Rainy walk home", 70 * time.Hour, 15, 0, 0, 400},
	{"frank", models.PostTypePost, models.MediaKindImage, "Garden update", 6 * 24 * time.Hour, 60, 6, 3, 1200},
}

// SeedDemoPosts loads a fixed set of demo posts into an empty store. A store
// that already holds posts is left untouched. It returns the number of posts
// written.
//
//nolint:gocritic // zerolog.Logger is passed by value throughout the codebase
func SeedDemoPosts(ctx context.Context, s PostStore, now time.Time, logger zerolog.Logger) (int, error) {
	existing, err := s.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed demo posts: %w", err)
	}
	if len(existing) > 0 {
		logger.Debug().Int("posts", len(existing)).Msg("Store not empty, skipping demo seed")
		return 0, nil
	}

	written := 0
	for i, d := range demoPosts {
		post := models.Post{
			ID:        fmt.Sprintf("demo-%02d", i+1),
			AuthorID:  d.author,
			Body:      d.body,
			Type:      d.postType,
			IsPublic:  true,
			Likes:     d.likes,
			Comments:  d.comments,
			Shares:    d.shares,
			Views:     d.views,
			CreatedAt: now.Add(-d.age).UTC(),
		}
		if d.media != "" {
			post.Media = &models.Media{
				Kind:    d.media,
				Locator: fmt.Sprintf("demo/%s.%s", post.ID, mediaExt(d.media)),
			}
		}

		if err := s.Append(ctx, post); err != nil {
			if errors.Is(err, ErrAlreadyExists) {
				continue
			}
			return written, fmt.Errorf("seed demo post %s: %w", post.ID, err)
		}
		written++
	}

	logger.Info().Int("posts", written).Msg("Seeded demo posts")
	return written, nil
}

func mediaExt(kind models.MediaKind) string {
	if kind == models.MediaKindVideo {
		return "mp4"
	}
	return "jpg"
}
