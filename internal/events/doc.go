// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

// Package events carries domain events between the feed service and its
// subscribers using Watermill's CQRS component.
//
// Events travel over an in-process gochannel pub/sub. Topics are the event
// struct name prefixed with "feed.":
//
//	feed.PostCreated          -> cache clear, websocket broadcast
//	feed.InteractionRecorded  -> websocket notification to the user
//	feed.CacheInvalidated     -> websocket notification
//
// The pub/sub blocks Publish until every subscriber acknowledged the
// message. When PublishPostCreated returns without error, the feed cache
// has already been cleared.
//
// Usage:
//
//	pubsub := events.NewPubSub(wmLogger)
//	bus, _ := events.NewBus(pubsub, wmLogger)
//	proc, _ := events.NewProcessor(events.DefaultProcessorConfig(), pubsub, wmLogger)
//	_ = proc.AddHandlers(events.CacheHandlers(feedCache)...)
//	go proc.Run(ctx)
//	<-proc.Running()
package events
