// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/feedrank/internal/metrics"
	"github.com/tomtom215/feedrank/internal/models"
	"github.com/tomtom215/feedrank/internal/validation"
)

// PreferenceLearner receives every accepted interaction. Implementations
// may update a user's preference profile; ranking never waits on them.
type PreferenceLearner interface {
	Learn(ctx context.Context, interaction models.Interaction) error
}

// LoggingLearner is the placeholder learner: it logs and learns nothing.
type LoggingLearner struct {
	logger zerolog.Logger
}

// NewLoggingLearner creates a LoggingLearner.
//
//nolint:gocritic // zerolog.Logger is passed by value throughout the codebase
func NewLoggingLearner(logger zerolog.Logger) *LoggingLearner {
	return &LoggingLearner{logger: logger.With().Str("component", "learner").Logger()}
}

// Learn logs the interaction.
func (l *LoggingLearner) Learn(_ context.Context, in models.Interaction) error {
	l.logger.Debug().
		Str("user_id", in.UserID).
		Str("post_id", in.PostID).
		Str("kind", in.Kind.String()).
		Msg("Interaction received")
	return nil
}

var _ PreferenceLearner = (*LoggingLearner)(nil)

// Recorder accepts interactions and purges the affected cache entries.
// It never touches ranked output directly.
type Recorder struct {
	learner PreferenceLearner
	cache   *FeedCache
	now     func() time.Time
	logger  zerolog.Logger
}

// NewRecorder creates a Recorder. A nil learner is replaced by a LoggingLearner.
//
//nolint:gocritic // zerolog.Logger is passed by value throughout the codebase
func NewRecorder(learner PreferenceLearner, fc *FeedCache, logger zerolog.Logger) *Recorder {
	if learner == nil {
		learner = NewLoggingLearner(logger)
	}
	return &Recorder{
		learner: learner,
		cache:   fc,
		now:     time.Now,
		logger:  logger.With().Str("component", "recorder").Logger(),
	}
}

// Record validates and records an interaction. Rejected interactions change
// nothing. Accepted ones are passed to the learner and then the user's cached
// feeds are cleared, even if the learner fails.
func (r *Recorder) Record(ctx context.Context, in models.Interaction) (models.Interaction, error) {
	if !in.Kind.Valid() {
		metrics.RecordInteraction("invalid", false)
		return models.Interaction{}, fmt.Errorf("%w: %q", ErrInvalidInteractionKind, in.Kind)
	}
	if verr := validation.ValidateStruct(&in); verr != nil {
		metrics.RecordInteraction(in.Kind.String(), false)
		return models.Interaction{}, fmt.Errorf("%w: %w", ErrInvalidInteraction, verr)
	}

	if in.Timestamp.IsZero() {
		in.Timestamp = r.now().UTC()
	}

	if err := r.learner.Learn(ctx, in); err != nil {
		r.logger.Warn().Err(err).
			Str("user_id", in.UserID).
			Str("kind", in.Kind.String()).
			Msg("Preference learner failed, invalidating anyway")
	}

	r.cache.ClearUser(in.UserID)
	metrics.RecordInteraction(in.Kind.String(), true)
	return in, nil
}
