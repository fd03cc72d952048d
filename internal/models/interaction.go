// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package models

import "time"

// InteractionKind enumerates what a viewer did with a post.
type InteractionKind string

const (
	InteractionLike    InteractionKind = "like"
	InteractionComment InteractionKind = "comment"
	InteractionShare   InteractionKind = "share"
	InteractionView    InteractionKind = "view"
	InteractionSkip    InteractionKind = "skip"
)

// InteractionKinds lists every accepted kind in a stable order.
var InteractionKinds = []InteractionKind{
	InteractionLike,
	InteractionComment,
	InteractionShare,
	InteractionView,
	InteractionSkip,
}

// Valid reports whether k is one of the accepted kinds.
func (k InteractionKind) Valid() bool {
	switch k {
	case InteractionLike, InteractionComment, InteractionShare, InteractionView, InteractionSkip:
		return true
	default:
		return false
	}
}

func (k InteractionKind) String() string {
	return string(k)
}

// Interaction is an ephemeral record of a viewer acting on a post. It is
// consumed once by the preference learner and cache invalidation and is not
// retained.
type Interaction struct {
	UserID    string            `json:"user_id" validate:"required,max=128"`
	PostID    string            `json:"post_id" validate:"required,max=128"`
	Kind      InteractionKind   `json:"kind" validate:"required,oneof=like comment share view skip"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty" validate:"max=32"`
}
