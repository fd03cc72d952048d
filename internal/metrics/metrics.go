// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Feed Metrics
	FeedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedrank_feed_requests_total",
			Help: "Total feed requests by feed type and cache outcome",
		},
		[]string{"feed_type", "cache"}, // cache: "hit", "miss", "bypass"
	)

	RankingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feedrank_ranking_duration_seconds",
			Help:    "Duration of a ranking pass in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"algorithm"},
	)

	RankingFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedrank_ranking_fallbacks_total",
			Help: "Ranking passes that fell back to chronological order",
		},
		[]string{"feed_type", "reason"}, // reason: "ranking", "data_unavailable"
	)

	// Cache Metrics
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedrank_cache_operations_total",
			Help: "Feed cache operations by kind and result",
		},
		[]string{"operation", "result"}, // operation: "get", "set"; result: "hit", "miss", "corrupt", "stale", "ok"
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feedrank_cache_entries",
			Help: "Current number of feed cache entries",
		},
	)

	CacheInvalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedrank_cache_invalidations_total",
			Help: "Feed cache invalidations by scope",
		},
		[]string{"scope"}, // "user", "all"
	)

	// Interaction and Post Metrics
	InteractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedrank_interactions_total",
			Help: "Recorded interactions by kind and outcome",
		},
		[]string{"kind", "status"}, // status: "recorded", "rejected"
	)

	PostsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedrank_posts_created_total",
			Help: "Total posts created",
		},
	)

	// Event Metrics
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedrank_events_published_total",
			Help: "Domain events published by name and outcome",
		},
		[]string{"event", "status"},
	)

	EventsHandledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedrank_events_handled_total",
			Help: "Domain events handled by handler and outcome",
		},
		[]string{"handler", "status"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "feedrank_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedrank_circuit_breaker_requests_total",
			Help: "Requests passing through a circuit breaker by outcome",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedrank_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feedrank_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feedrank_websocket_clients",
			Help: "Number of connected WebSocket clients",
		},
	)

	WSNotificationsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedrank_websocket_notifications_dropped_total",
			Help: "WebSocket notifications not delivered",
		},
		[]string{"reason"}, // "throttled", "buffer_full"
	)
)

// RecordFeedRequest records a served feed.
func RecordFeedRequest(feedType string, cached bool) {
	outcome := "miss"
	switch {
	case feedType == "chronological":
		outcome = "bypass"
	case cached:
		outcome = "hit"
	}
	FeedRequestsTotal.WithLabelValues(feedType, outcome).Inc()
}

// RecordRanking records the duration of one ranking pass.
func RecordRanking(algorithm string, duration time.Duration) {
	RankingDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
}

// RecordFallback records a chronological fallback.
func RecordFallback(feedType, reason string) {
	RankingFallbacksTotal.WithLabelValues(feedType, reason).Inc()
}

// RecordCacheOperation records a cache access outcome.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordCacheInvalidation records a cache clear.
func RecordCacheInvalidation(scope string) {
	CacheInvalidationsTotal.WithLabelValues(scope).Inc()
}

// SetCacheEntries updates the cache size gauge.
func SetCacheEntries(n int) {
	CacheEntries.Set(float64(n))
}

// RecordInteraction records an interaction attempt.
func RecordInteraction(kind string, recorded bool) {
	status := "rejected"
	if recorded {
		status = "recorded"
	}
	InteractionsTotal.WithLabelValues(kind, status).Inc()
}

// RecordPostCreated increments the created post counter.
func RecordPostCreated() {
	PostsCreatedTotal.Inc()
}

// RecordEventPublished records a publish attempt for a domain event.
func RecordEventPublished(event string, err error) {
	EventsPublishedTotal.WithLabelValues(event, statusLabel(err)).Inc()
}

// RecordEventHandled records a handler invocation.
func RecordEventHandled(handler string, err error) {
	EventsHandledTotal.WithLabelValues(handler, statusLabel(err)).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordNotificationDropped records an undelivered WebSocket notification.
func RecordNotificationDropped(reason string) {
	WSNotificationsDropped.WithLabelValues(reason).Inc()
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
