// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package services

import (
	"context"
	"fmt"

	"github.com/thejerf/suture/v4"
)

// EventRouter is satisfied by *events.Processor.
type EventRouter interface {
	Run(ctx context.Context) error
	Close() error
}

// EventRouterService runs the watermill event router under supervision.
//
// A watermill router runs at most once, so a router that stops on its own
// is reported with suture.ErrDoNotRestart instead of being restarted into
// an "already running" error loop.
type EventRouterService struct {
	router EventRouter
	name   string
}

// NewEventRouterService wraps router.
func NewEventRouterService(router EventRouter) *EventRouterService {
	return &EventRouterService{
		router: router,
		name:   "event-router",
	}
}

// Serve implements suture.Service.
func (s *EventRouterService) Serve(ctx context.Context) error {
	err := s.router.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("event router stopped: %w: %w", suture.ErrDoNotRestart, err)
	}
	return suture.ErrDoNotRestart
}

// String names the service in supervisor events.
func (s *EventRouterService) String() string {
	return s.name
}
