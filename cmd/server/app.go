// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/feedrank/internal/api"
	"github.com/tomtom215/feedrank/internal/cache"
	"github.com/tomtom215/feedrank/internal/config"
	"github.com/tomtom215/feedrank/internal/events"
	"github.com/tomtom215/feedrank/internal/feed"
	"github.com/tomtom215/feedrank/internal/logging"
	"github.com/tomtom215/feedrank/internal/ranking"
	"github.com/tomtom215/feedrank/internal/ranking/reranking"
	"github.com/tomtom215/feedrank/internal/store"
	"github.com/tomtom215/feedrank/internal/supervisor"
	"github.com/tomtom215/feedrank/internal/supervisor/services"
	ws "github.com/tomtom215/feedrank/internal/websocket"
)

const (
	// gcDiscardRatio is the value log discard ratio passed to badger GC.
	gcDiscardRatio = 0.5

	// limiterPruneInterval is how often idle per-user notification
	// limiters are dropped from the hub.
	limiterPruneInterval = time.Minute
)

// app holds the wired components of one server process.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger

	db        *badger.DB // nil for the memory backend
	cache     *cache.Cache
	pubSub    *gochannel.GoChannel
	processor *events.Processor
	hub       *ws.Hub // nil when WebSocket notifications are disabled
	service   *feed.Service
	handler   http.Handler
}

// newApp builds every component from cfg. Nothing is started; see tree.
//
//nolint:gocritic // zerolog.Logger is passed by value throughout the codebase
func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	posts, err := a.buildPostStore(ctx)
	if err != nil {
		return nil, err
	}

	registry, err := buildRegistry(cfg.RankingSettings(), logger)
	if err != nil {
		a.close()
		return nil, err
	}

	a.cache = cache.New(cfg.Cache.TTL, cache.WithCleanupInterval(cfg.Cache.CleanupInterval))
	feedCache := feed.NewFeedCache(a.cache, logger)

	if cfg.WebSocket.Enabled {
		a.hub = ws.NewHub(ws.HubConfig{
			NotifyRate:  cfg.WebSocket.NotifyRate,
			NotifyBurst: cfg.WebSocket.NotifyBurst,
		}, logger)
	}

	bus, err := a.buildEvents(feedCache)
	if err != nil {
		a.close()
		return nil, err
	}

	a.service, err = feed.NewService(posts, store.NewMemoryPreferenceStore(), registry, feedCache, feed.Options{
		PersonalizedAlgorithm: cfg.Ranking.PersonalizedAlgorithm,
		Learner:               feed.NewLoggingLearner(logger),
		Publisher:             bus,
	}, logger)
	if err != nil {
		a.close()
		return nil, err
	}

	chiMW := api.NewChiMiddleware(&api.ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		CORSAllowedMethods: api.DefaultChiMiddlewareConfig().CORSAllowedMethods,
		CORSAllowedHeaders: api.DefaultChiMiddlewareConfig().CORSAllowedHeaders,
		CORSMaxAge:         api.DefaultChiMiddlewareConfig().CORSMaxAge,
		RateLimitRequests:  cfg.Security.RateLimitReqs,
		RateLimitWindow:    cfg.Security.RateLimitWindow,
		RateLimitDisabled:  cfg.Security.RateLimitDisabled,
	})
	handler := api.NewHandler(a.service, api.HandlerOptions{
		Hub:        a.hub,
		Middleware: chiMW,
		Version:    version,
	}, logger)
	a.handler = api.NewRouter(handler, chiMW, logger).SetupChi()

	return a, nil
}

// buildPostStore opens the configured backend, seeds it when asked and
// wraps it in the circuit breaker.
func (a *app) buildPostStore(ctx context.Context) (store.PostStore, error) {
	var posts store.PostStore

	switch a.cfg.Storage.Backend {
	case config.StorageBadger, config.StorageMemoryBadger:
		db, err := store.OpenBadger(store.BadgerOptions{
			Path:     a.cfg.Storage.Path,
			InMemory: a.cfg.Storage.Backend == config.StorageMemoryBadger,
		})
		if err != nil {
			return nil, err
		}
		a.db = db
		posts = store.NewBadgerPostStore(db)
	default:
		posts = store.NewMemoryPostStore()
	}

	if a.cfg.Storage.SeedDemoData {
		if _, err := store.SeedDemoPosts(ctx, posts, time.Now(), a.logger); err != nil {
			a.close()
			return nil, err
		}
	}

	if a.cfg.Breaker.Enabled {
		posts = store.NewBreakerPostStore(posts, a.cfg.BreakerSettings(), a.logger)
	}

	a.logger.Info().
		Str("backend", a.cfg.Storage.Backend).
		Bool("breaker", a.cfg.Breaker.Enabled).
		Msg("Post store ready")
	return posts, nil
}

//nolint:gocritic // zerolog.Logger is passed by value throughout the codebase
func buildRegistry(rc *ranking.Config, logger zerolog.Logger) (*ranking.Registry, error) {
	personalized, err := ranking.NewPersonalizedStrategy(rc, logger, reranking.DefaultStages(rc)...)
	if err != nil {
		return nil, fmt.Errorf("personalized strategy: %w", err)
	}
	trending, err := ranking.NewTrendingStrategy(rc, logger)
	if err != nil {
		return nil, fmt.Errorf("trending strategy: %w", err)
	}
	return ranking.NewRegistry(personalized, trending, ranking.NewChronologicalStrategy())
}

// buildEvents wires the in-process pub/sub, the publishing bus and the
// router with the cache and notification subscribers.
func (a *app) buildEvents(feedCache *feed.FeedCache) (*events.Bus, error) {
	wmLogger := logging.NewWatermillAdapter(a.logger.With().Str("component", "events").Logger())

	a.pubSub = events.NewPubSub(wmLogger)

	bus, err := events.NewBus(a.pubSub, wmLogger)
	if err != nil {
		return nil, err
	}

	a.processor, err = events.NewProcessor(events.ProcessorConfig{
		CloseTimeout:  a.cfg.Events.CloseTimeout,
		RetryCount:    a.cfg.Events.RetryCount,
		RetryInterval: a.cfg.Events.RetryInterval,
	}, a.pubSub, wmLogger)
	if err != nil {
		return nil, err
	}

	if err := a.processor.AddHandlers(events.CacheHandlers(feedCache)...); err != nil {
		return nil, err
	}
	if a.hub != nil {
		if err := a.processor.AddHandlers(events.NotificationHandlers(a.hub)...); err != nil {
			return nil, err
		}
	}
	return bus, nil
}

// tree assembles the supervisor tree around server.
func (a *app) tree(server services.HTTPServer) (*supervisor.SupervisorTree, error) {
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(a.logger), supervisor.TreeConfig{
		ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return nil, err
	}

	if a.db != nil && a.cfg.Storage.Backend == config.StorageBadger && a.cfg.Storage.GCInterval > 0 {
		db := a.db
		tree.AddDataService(services.NewTickerService("badger-gc", a.cfg.Storage.GCInterval,
			func(context.Context) error {
				_, err := store.CollectGarbage(db, gcDiscardRatio)
				return err
			}, a.logger))
	}

	tree.AddMessagingService(services.NewEventRouterService(a.processor))
	if a.hub != nil {
		hub := a.hub
		tree.AddMessagingService(services.NewWebSocketHubService(hub))
		tree.AddMessagingService(services.NewTickerService("ws-limiter-prune", limiterPruneInterval,
			func(context.Context) error {
				hub.PruneLimiters(time.Now())
				return nil
			}, a.logger))
	}

	tree.AddAPIService(services.NewHTTPServerService(server, a.cfg.Server.ShutdownTimeout).
		WaitFor(a.processor.Running()))

	return tree, nil
}

// close releases resources the supervisor does not own.
func (a *app) close() {
	if a.cache != nil {
		a.cache.Close()
	}
	if a.pubSub != nil {
		if err := a.pubSub.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("Error closing event pub/sub")
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Error closing badger database")
		}
	}
}
