// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package logging provides centralized zerolog-based logging.

# Quick Start

	logging.Init(logging.Config{Level: "info", Format: "json"})

	logging.Info().Msg("Server starting")
	logging.Error().Err(err).Msg("Operation failed")

Components take a zerolog.Logger and derive their own child:

	logger = logger.With().Str("component", "feed_service").Logger()

# Request Context

The API middleware stores the request id on the context; Ctx attaches it:

	logging.Ctx(ctx).Warn().Str("user_id", id).Msg("Serving fallback feed")

# Bridges

  - NewSlogLogger: *slog.Logger for sutureslog
  - NewWatermillAdapter: watermill.LoggerAdapter for the event router

Always terminate log chains with .Msg() or .Send().
*/
package logging
