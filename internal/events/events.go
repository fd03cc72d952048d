// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package events

import "time"

// TopicPrefix is prepended to the event name to form the topic.
const TopicPrefix = "feed."

// Topic returns the topic an event name is published on.
func Topic(eventName string) string {
	return TopicPrefix + eventName
}

// PostCreated is published after a new post was stored.
type PostCreated struct {
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	PostType  string    `json:"post_type"`
	CreatedAt time.Time `json:"created_at"`
}

// InteractionRecorded is published after an interaction was accepted.
type InteractionRecorded struct {
	UserID     string    `json:"user_id"`
	PostID     string    `json:"post_id"`
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
}

// CacheInvalidated is published after feed cache entries were cleared.
// UserID is empty when Scope is "all".
type CacheInvalidated struct {
	Scope      string    `json:"scope"`
	UserID     string    `json:"user_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
