// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tomtom215/feedrank/internal/feed"
	"github.com/tomtom215/feedrank/internal/models"
	"github.com/tomtom215/feedrank/internal/ranking"
	ws "github.com/tomtom215/feedrank/internal/websocket"
)

// FeedService is the feed facade the handlers depend on.
type FeedService interface {
	GetFeed(ctx context.Context, userID string, feedType ranking.FeedType, opts feed.FeedOptions) *feed.FeedResponse
	RecordInteraction(ctx context.Context, in models.Interaction) *feed.InteractionResponse
	CreatePost(ctx context.Context, np models.NewPost) (*models.Post, error)
	UpdatePost(ctx context.Context, postID string, update models.PostUpdate) (*models.Post, error)
	ListUserPosts(ctx context.Context, userID string) ([]models.Post, error)
	ClearCacheForUser(ctx context.Context, userID string) int
	ClearAllCache(ctx context.Context)
	SetStrategy(ctx context.Context, name string) error
	Stats() feed.Stats
}

var _ FeedService = (*feed.Service)(nil)

// Handler serves the feed API.
type Handler struct {
	svc        FeedService
	hub        *ws.Hub
	middleware *ChiMiddleware
	startTime  time.Time
	version    string
	logger     zerolog.Logger
}

// HandlerOptions holds the optional collaborators of a Handler.
type HandlerOptions struct {
	// Hub serves /ws. When nil the endpoint answers 503.
	Hub *ws.Hub

	// Middleware supplies the WebSocket origin policy.
	Middleware *ChiMiddleware

	// Version is reported by /health.
	Version string
}

// NewHandler creates a Handler.
//
//nolint:gocritic // zerolog.Logger is passed by value throughout the codebase
func NewHandler(svc FeedService, opts HandlerOptions, logger zerolog.Logger) *Handler {
	if opts.Middleware == nil {
		opts.Middleware = NewChiMiddleware(nil)
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	return &Handler{
		svc:        svc,
		hub:        opts.Hub,
		middleware: opts.Middleware,
		startTime:  time.Now(),
		version:    opts.Version,
		logger:     logger.With().Str("component", "api").Logger(),
	}
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status           string  `json:"status"`
	Version          string  `json:"version"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
	ActiveAlgorithm  string  `json:"active_algorithm"`
	CacheEntries     int     `json:"cache_entries"`
	WebSocketClients int     `json:"websocket_clients"`
}

// Health reports liveness and a few cheap gauges.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats := h.svc.Stats()
	resp := HealthResponse{
		Status:          "healthy",
		Version:         h.version,
		UptimeSeconds:   time.Since(h.startTime).Seconds(),
		ActiveAlgorithm: stats.ActiveAlgorithm,
		CacheEntries:    stats.Cache.Size,
	}
	if h.hub != nil {
		resp.WebSocketClients = h.hub.GetClientCount()
	}
	WriteSuccess(w, r, resp)
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if h.middleware.AllowsOrigin(origin) {
				return true
			}
			h.logger.Warn().Str("origin", origin).Msg("WebSocket connection rejected from unauthorized origin")
			return false
		},
	}
}

// WebSocket upgrades the connection and registers a client for the
// user_id query parameter.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		NewResponseWriter(w, r).ServiceUnavailable("WebSocket service unavailable")
		return
	}

	userID := r.URL.Query().Get("user_id")
	if len(userID) > 128 {
		NewResponseWriter(w, r).BadRequest("user_id is too long")
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn, userID)
	h.hub.Register <- client
	client.Start()
}
