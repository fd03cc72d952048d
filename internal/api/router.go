// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomtom215/feedrank/internal/middleware"
)

// feedRequestTimeout bounds a feed request, including a ranking recompute.
const feedRequestTimeout = 10 * time.Second

// Router holds the handler and middleware factories used to build routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	logger        zerolog.Logger
}

// NewRouter creates a Router.
//
//nolint:gocritic // zerolog.Logger is passed by value throughout the codebase
func NewRouter(handler *Handler, chiMiddleware *ChiMiddleware, logger zerolog.Logger) *Router {
	if chiMiddleware == nil {
		chiMiddleware = handler.middleware
	}
	return &Router{handler: handler, chiMiddleware: chiMiddleware, logger: logger}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Applied to ALL routes in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(router.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	r.Get("/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", router.handler.WebSocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chimiddleware.Compress(5, "application/json"))

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Timeout(feedRequestTimeout))
			r.Get("/feed/{userID}", router.handler.Feed)
			r.Get("/trending", router.handler.Trending)
		})

		r.Post("/posts", router.handler.CreatePost)
		r.Patch("/posts/{postID}", router.handler.UpdatePost)
		r.Get("/users/{userID}/posts", router.handler.UserPosts)

		r.Post("/interactions", router.handler.RecordInteraction)

		r.Route("/cache", func(r chi.Router) {
			r.Get("/stats", router.handler.CacheStats)
			r.Delete("/", router.handler.ClearCache)
			r.Delete("/users/{userID}", router.handler.ClearUserCache)
		})

		r.Put("/algorithm", router.handler.SetAlgorithm)
	})

	return r
}
