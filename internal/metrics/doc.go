// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package metrics provides Prometheus metrics for the feed service.

All collectors are registered on the default registry through promauto and
exposed at /metrics by the API router.

# Available Metrics

Feed Metrics:
  - feedrank_feed_requests_total: Feed requests (counter)
    Labels: feed_type, cache
  - feedrank_ranking_duration_seconds: Ranking pass latency (histogram)
    Labels: algorithm
  - feedrank_ranking_fallbacks_total: Chronological fallbacks (counter)
    Labels: feed_type, reason

Cache Metrics:
  - feedrank_cache_operations_total: Get/set outcomes (counter)
  - feedrank_cache_entries: Live entries (gauge)
  - feedrank_cache_invalidations_total: Clears by scope (counter)

Interaction Metrics:
  - feedrank_interactions_total: Interactions by kind and status (counter)
  - feedrank_posts_created_total: Created posts (counter)

Event Metrics:
  - feedrank_events_published_total, feedrank_events_handled_total

Resilience Metrics:
  - feedrank_circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - feedrank_circuit_breaker_requests_total (counter)

HTTP and WebSocket Metrics:
  - feedrank_api_requests_total, feedrank_api_request_duration_seconds
  - feedrank_websocket_clients, feedrank_websocket_notifications_dropped_total

# Usage

	start := time.Now()
	res := strategy.Rank(ctx, posts, req)
	metrics.RecordRanking(res.AlgorithmID, time.Since(start))
*/
package metrics
