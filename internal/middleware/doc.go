// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package middleware provides HTTP middleware for the feed API.

All middleware uses the standard func(http.Handler) http.Handler shape and
plugs into chi's r.Use:

  - RequestID: Assigns or propagates X-Request-ID and stores it for logging
  - RequestLogger: Request-scoped zerolog logger plus one access log line
  - PrometheusMetrics: Request count and latency labeled by chi route pattern

Recommended order:

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)

RequestID must run before RequestLogger so the access log carries the ID.
*/
package middleware
