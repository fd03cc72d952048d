// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package models

import "slices"

// Default content-type affinities used when a profile leaves one unset.
const (
	DefaultVideoPreference = 0.6
	DefaultPhotoPreference = 0.4
	DefaultMusicPreference = 0.7
)

// PreferenceProfile holds per-viewer weighting consumed by the scorer.
// Affinities are expected in [0, 1]; zero means "not set".
type PreferenceProfile struct {
	VideoPreference float64  `json:"video_preference"`
	PhotoPreference float64  `json:"photo_preference"`
	MusicPreference float64  `json:"music_preference"`
	FollowedUsers   []string `json:"followed_users,omitempty"`
	BlockedUsers    []string `json:"blocked_users,omitempty"`
	Interests       []string `json:"interests,omitempty"`
}

// DefaultPreferences returns the neutral profile used for unknown viewers.
func DefaultPreferences() PreferenceProfile {
	return PreferenceProfile{
		VideoPreference: DefaultVideoPreference,
		PhotoPreference: DefaultPhotoPreference,
		MusicPreference: DefaultMusicPreference,
	}
}

// WithDefaults fills unset affinities from DefaultPreferences.
func (p PreferenceProfile) WithDefaults() PreferenceProfile {
	if p.VideoPreference == 0 {
		p.VideoPreference = DefaultVideoPreference
	}
	if p.PhotoPreference == 0 {
		p.PhotoPreference = DefaultPhotoPreference
	}
	if p.MusicPreference == 0 {
		p.MusicPreference = DefaultMusicPreference
	}
	return p
}

// IsBlocked reports whether userID is on the blocked list.
func (p *PreferenceProfile) IsBlocked(userID string) bool {
	return slices.Contains(p.BlockedUsers, userID)
}

// Follows reports whether userID is followed.
func (p *PreferenceProfile) Follows(userID string) bool {
	return slices.Contains(p.FollowedUsers, userID)
}
