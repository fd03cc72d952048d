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
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/feedrank/internal/metrics"
	"github.com/tomtom215/feedrank/internal/models"
)

// BreakerSettings configures BreakerPostStore.
type BreakerSettings struct {
	Name string

	// MaxRequests is the number of probe requests allowed while half-open.
	MaxRequests uint32

	// Interval resets the failure counts while closed.
	Interval time.Duration

	// Timeout is how long the circuit stays open before probing.
	Timeout time.Duration

	// MinRequests is the sample size required before the circuit can trip.
	MinRequests uint32

	// FailureRatio trips the circuit once reached.
	FailureRatio float64
}

// DefaultBreakerSettings returns the production breaker configuration.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:         "post-store",
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.6,
	}
}

// BreakerPostStore wraps a PostStore with a circuit breaker. While the
// circuit is open every call fails fast with ErrUnavailable.
//
// Lookup misses and duplicate ids are caller errors and count as successes.
// Cancelled requests are not counted at all.
type BreakerPostStore struct {
	next   PostStore
	cb     *gobreaker.CircuitBreaker[any]
	name   string
	logger zerolog.Logger
}

// NewBreakerPostStore wraps next.
func NewBreakerPostStore(next PostStore, settings BreakerSettings, logger zerolog.Logger) *BreakerPostStore {
	if settings.Name == "" {
		settings.Name = DefaultBreakerSettings().Name
	}
	if settings.MinRequests == 0 {
		settings.MinRequests = 1
	}

	s := &BreakerPostStore{
		next:   next,
		name:   settings.Name,
		logger: logger.With().Str("component", "breaker").Str("breaker", settings.Name).Logger(),
	}

	metrics.CircuitBreakerState.WithLabelValues(settings.Name).Set(0) // 0 = closed

	s.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= settings.FailureRatio {
				s.logger.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("Opening circuit")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Info().Str("from", from.String()).Str("to", to.String()).Msg("Circuit state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyExists)
		},
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
	})

	return s
}

// State returns the current circuit state.
func (s *BreakerPostStore) State() gobreaker.State {
	return s.cb.State()
}

// ListAll lists through the breaker.
func (s *BreakerPostStore) ListAll(ctx context.Context) ([]models.Post, error) {
	return execute[[]models.Post](s, func() (any, error) {
		return s.next.ListAll(ctx)
	})
}

// ListByUser lists through the breaker.
func (s *BreakerPostStore) ListByUser(ctx context.Context, userID string) ([]models.Post, error) {
	return execute[[]models.Post](s, func() (any, error) {
		return s.next.ListByUser(ctx, userID)
	})
}

// Append writes through the breaker.
func (s *BreakerPostStore) Append(ctx context.Context, post models.Post) error {
	_, err := s.cb.Execute(func() (any, error) {
		return nil, s.next.Append(ctx, post)
	})
	return s.mapError(err)
}

// Update writes through the breaker.
func (s *BreakerPostStore) Update(ctx context.Context, postID string, update models.PostUpdate) (*models.Post, error) {
	return execute[*models.Post](s, func() (any, error) {
		return s.next.Update(ctx, postID, update)
	})
}

func execute[T any](s *BreakerPostStore, fn func() (any, error)) (T, error) {
	var zero T
	result, err := s.cb.Execute(fn)
	if err := s.mapError(err); err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok && result != nil {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func (s *BreakerPostStore) mapError(err error) error {
	if err == nil {
		metrics.CircuitBreakerRequests.WithLabelValues(s.name, "success").Inc()
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.CircuitBreakerRequests.WithLabelValues(s.name, "rejected").Inc()
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	metrics.CircuitBreakerRequests.WithLabelValues(s.name, "failure").Inc()
	return err
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

var _ PostStore = (*BreakerPostStore)(nil)
