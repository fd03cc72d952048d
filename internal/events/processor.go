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
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// ProcessorConfig holds configuration for the event router.
type ProcessorConfig struct {
	// CloseTimeout is how long to wait for handlers to finish when closing.
	CloseTimeout time.Duration

	// RetryCount is how often a failing handler is retried before the
	// message is dropped.
	RetryCount int

	// RetryInterval is the first backoff interval, doubled per attempt.
	RetryInterval time.Duration
}

// DefaultProcessorConfig returns production defaults.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		CloseTimeout:  10 * time.Second,
		RetryCount:    3,
		RetryInterval: 100 * time.Millisecond,
	}
}

// Processor routes events from the subscriber to typed handlers.
//
// The router handles:
//   - Automatic Ack/Nack based on handler success/failure
//   - Panic recovery
//   - Exponential backoff retry for transient failures
type Processor struct {
	router    *message.Router
	processor *cqrs.EventProcessor
	logger    watermill.LoggerAdapter
}

// NewProcessor creates a Processor reading from subscriber. Handlers must
// be added before Run.
func NewProcessor(cfg ProcessorConfig, subscriber message.Subscriber, logger watermill.LoggerAdapter) (*Processor, error) {
	if subscriber == nil {
		return nil, fmt.Errorf("subscriber required")
	}
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = DefaultProcessorConfig().CloseTimeout
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	// Recoverer: Convert panics to errors
	router.AddMiddleware(middleware.Recoverer)

	if cfg.RetryCount > 0 {
		retry := middleware.Retry{
			MaxRetries:      cfg.RetryCount,
			InitialInterval: cfg.RetryInterval,
			MaxInterval:     10 * cfg.RetryInterval,
			Multiplier:      2.0,
			Logger:          logger,
		}
		router.AddMiddleware(retry.Middleware)
	}

	processor, err := cqrs.NewEventProcessorWithConfig(router, cqrs.EventProcessorConfig{
		GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			return Topic(params.EventName), nil
		},
		SubscriberConstructor: func(cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return subscriber, nil
		},
		Marshaler: marshaler(),
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create event processor: %w", err)
	}

	return &Processor{router: router, processor: processor, logger: logger}, nil
}

// AddHandlers registers typed handlers.
func (p *Processor) AddHandlers(handlers ...cqrs.EventHandler) error {
	if err := p.processor.AddHandlers(handlers...); err != nil {
		return fmt.Errorf("add event handlers: %w", err)
	}
	return nil
}

// Run starts the router and blocks until ctx is cancelled or Close is called.
// A router runs at most once.
func (p *Processor) Run(ctx context.Context) error {
	return p.router.Run(ctx)
}

// Running returns a channel that closes when the router is running.
func (p *Processor) Running() <-chan struct{} {
	return p.router.Running()
}

// IsRunning reports whether the router is processing messages.
func (p *Processor) IsRunning() bool {
	return p.router.IsRunning()
}

// Close gracefully stops the router.
// Waits for in-flight messages to complete up to CloseTimeout.
func (p *Processor) Close() error {
	return p.router.Close()
}
