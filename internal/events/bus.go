// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/feedrank/internal/metrics"
	"github.com/tomtom215/feedrank/internal/models"
)

// NewPubSub creates the in-process transport. Publish blocks until every
// subscriber acknowledged the message, so side effects of handlers are
// visible when Publish returns.
func NewPubSub(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		BlockPublishUntilSubscriberAck: true,
	}, logger)
}

// marshaler names events after their struct type.
func marshaler() cqrs.CommandEventMarshaler {
	return cqrs.JSONMarshaler{GenerateName: cqrs.StructName}
}

// Bus provides type-safe event publishing using Watermill's CQRS component.
type Bus struct {
	bus    *cqrs.EventBus
	now    func() time.Time
	logger watermill.LoggerAdapter
}

// NewBus creates a Bus publishing to publisher.
func NewBus(publisher message.Publisher, logger watermill.LoggerAdapter) (*Bus, error) {
	if publisher == nil {
		return nil, fmt.Errorf("publisher required")
	}
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	bus, err := cqrs.NewEventBusWithConfig(publisher, cqrs.EventBusConfig{
		GeneratePublishTopic: func(params cqrs.GenerateEventPublishTopicParams) (string, error) {
			return Topic(params.EventName), nil
		},
		Marshaler: marshaler(),
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create event bus: %w", err)
	}

	return &Bus{bus: bus, now: time.Now, logger: logger}, nil
}

// Publish sends an event to its topic.
func (b *Bus) Publish(ctx context.Context, event any) error {
	name := cqrs.StructName(event)
	err := b.bus.Publish(ctx, event)
	metrics.RecordEventPublished(name, err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", name, err)
	}
	return nil
}

// PublishPostCreated announces a stored post.
func (b *Bus) PublishPostCreated(ctx context.Context, post *models.Post) error {
	return b.Publish(ctx, &PostCreated{
		PostID:    post.ID,
		AuthorID:  post.AuthorID,
		PostType:  string(post.Type),
		CreatedAt: post.CreatedAt,
	})
}

// PublishInteractionRecorded announces an accepted interaction.
func (b *Bus) PublishInteractionRecorded(ctx context.Context, in *models.Interaction) error {
	occurred := in.Timestamp
	if occurred.IsZero() {
		occurred = b.now().UTC()
	}
	return b.Publish(ctx, &InteractionRecorded{
		UserID:     in.UserID,
		PostID:     in.PostID,
		Kind:       in.Kind.String(),
		OccurredAt: occurred,
	})
}

// PublishCacheInvalidated announces cleared feed cache entries.
func (b *Bus) PublishCacheInvalidated(ctx context.Context, scope, userID string) error {
	return b.Publish(ctx, &CacheInvalidated{
		Scope:      scope,
		UserID:     userID,
		OccurredAt: b.now().UTC(),
	})
}
