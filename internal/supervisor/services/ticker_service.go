// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// TickerService runs a task on a fixed interval until canceled.
//
// Task errors are logged and the next tick proceeds; a failing maintenance
// task is not a reason to restart the service.
type TickerService struct {
	name     string
	interval time.Duration
	task     func(ctx context.Context) error
	logger   zerolog.Logger
}

// NewTickerService creates a periodic service. A non-positive interval
// defaults to one minute.
//
//nolint:gocritic // zerolog.Logger is passed by value throughout the codebase
func NewTickerService(name string, interval time.Duration, task func(ctx context.Context) error, logger zerolog.Logger) *TickerService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &TickerService{
		name:     name,
		interval: interval,
		task:     task,
		logger:   logger.With().Str("component", name).Logger(),
	}
}

// Serve implements suture.Service.
func (s *TickerService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.task(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("Periodic task failed")
				continue
			}
			s.logger.Debug().Dur("duration", time.Since(start)).Msg("Periodic task completed")
		}
	}
}

// String names the service in supervisor events.
func (s *TickerService) String() string {
	return s.name
}
