// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package supervisor runs the long-lived parts of feedrank under a suture v4
supervisor tree.

# Layout

	RootSupervisor ("feedrank")
	├── DataSupervisor ("data-layer")
	│   └── TickerService "badger-gc" (badger backends only)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── EventRouterService
	│   └── WebSocketHubService (if WEBSOCKET_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Layers count failures independently. A handler panic loop in the event
router backs off the messaging layer while the API keeps serving feeds.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logger), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(services.NewEventRouterService(processor))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logger.Error().Err(err).Msg("Supervisor stopped")
	}

# Logging

Supervisor events (service failures, backoff, restarts) go through
sutureslog. The slog logger passed in is normally the zerolog bridge from
internal/logging, so these events land in the same JSON stream as the
rest of the application.

# Shutdown

Canceling the context passed to Serve stops every layer. Services get
TreeConfig.ShutdownTimeout to return; UnstoppedServiceReport lists the
ones that did not.
*/
package supervisor
