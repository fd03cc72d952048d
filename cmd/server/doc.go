// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package main is the entry point for the feedrank server.

Feedrank serves personalized, trending and chronological feeds over a post
collection, caches ranked feeds per user and keeps the cache consistent
with writes through an in-process event bus.

# Application Architecture

	RootSupervisor ("feedrank")
	├── DataSupervisor ("data-layer")
	│   └── badger-gc (STORAGE_BACKEND=badger, STORAGE_GC_INTERVAL > 0)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── event-router (watermill, cache invalidation + notifications)
	│   ├── websocket-hub (WEBSOCKET_ENABLED)
	│   └── ws-limiter-prune (WEBSOCKET_ENABLED)
	└── APISupervisor ("api-layer")
	    └── http-server (starts once the event router is running)

Startup order:

 1. Configuration: koanf defaults, optional config.yaml, environment
 2. Logging: zerolog, JSON or console
 3. Post store: memory, badger or in-memory badger, behind a gobreaker
 4. Ranking registry: simple_v1, trending_v1, chronological
 5. Feed cache and the event router subscribers
 6. HTTP API (chi) and the supervisor tree

# Configuration

Common environment variables:

	HTTP_PORT=8080
	LOG_LEVEL=info
	STORAGE_BACKEND=memory        # memory | badger | memory_badger
	STORAGE_PATH=/data/feedrank
	SEED_DEMO_DATA=false
	FEED_CACHE_TTL=5m
	RANKING_PERSONALIZED_ALGORITHM=simple_v1
	CORS_ORIGINS=https://app.example.com

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for
HTTP_SHUTDOWN_TIMEOUT, the event router finishes in-flight messages and the
hub closes client connections before the process exits.
*/
package main
