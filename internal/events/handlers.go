// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"github.com/tomtom215/feedrank/internal/metrics"
)

// Handler names, also used as metric labels.
const (
	HandlerCacheClear        = "feed_cache_clear"
	HandlerNotifyPostCreated = "notify_post_created"
	HandlerNotifyInteraction = "notify_interaction_recorded"
	HandlerNotifyInvalidated = "notify_cache_invalidated"
)

// handle wraps a typed handler function into a cqrs.EventHandler and
// records its outcome.
func handle[T any](name string, fn func(ctx context.Context, event *T) error) cqrs.EventHandler {
	return cqrs.NewEventHandler(name, func(ctx context.Context, event *T) error {
		err := fn(ctx, event)
		metrics.RecordEventHandled(name, err)
		return err
	})
}

// CacheClearer drops every cached feed.
type CacheClearer interface {
	ClearAll()
}

// CacheHandlers returns the handlers keeping the feed cache coherent with
// the post store. A new post can appear in any feed, so every entry goes.
func CacheHandlers(c CacheClearer) []cqrs.EventHandler {
	return []cqrs.EventHandler{
		handle(HandlerCacheClear, func(_ context.Context, _ *PostCreated) error {
			c.ClearAll()
			return nil
		}),
	}
}

// Notifier pushes events to connected clients.
type Notifier interface {
	NotifyPostCreated(event *PostCreated)
	NotifyInteraction(event *InteractionRecorded)
	NotifyInvalidated(event *CacheInvalidated)
}

// NotificationHandlers returns handlers forwarding events to n.
// Notification is best effort and never fails the message.
func NotificationHandlers(n Notifier) []cqrs.EventHandler {
	return []cqrs.EventHandler{
		handle(HandlerNotifyPostCreated, func(_ context.Context, e *PostCreated) error {
			n.NotifyPostCreated(e)
			return nil
		}),
		handle(HandlerNotifyInteraction, func(_ context.Context, e *InteractionRecorded) error {
			n.NotifyInteraction(e)
			return nil
		}),
		handle(HandlerNotifyInvalidated, func(_ context.Context, e *CacheInvalidated) error {
			n.NotifyInvalidated(e)
			return nil
		}),
	}
}
