// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/feedrank/internal/events"
	"github.com/tomtom215/feedrank/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication
const (
	MessageTypeFeedInvalidated     = "feed_invalidated"
	MessageTypePostCreated         = "post_created"
	MessageTypeInteractionRecorded = "interaction_recorded"
	MessageTypePing                = "ping"
	MessageTypePong                = "pong"
)

// Drop reasons reported to metrics.
const (
	dropThrottled  = "throttled"
	dropBufferFull = "buffer_full"
)

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// FeedInvalidatedData is sent when cached feeds were cleared.
type FeedInvalidatedData struct {
	Scope     string `json:"scope"`
	UserID    string `json:"user_id,omitempty"`
	Timestamp string `json:"timestamp"`
}

// PostCreatedData is sent to every client when a post was published.
type PostCreatedData struct {
	PostID    string `json:"post_id"`
	AuthorID  string `json:"author_id"`
	PostType  string `json:"post_type"`
	CreatedAt string `json:"created_at"`
}

// InteractionRecordedData is sent to the clients of the acting user.
type InteractionRecordedData struct {
	PostID    string `json:"post_id"`
	Kind      string `json:"kind"`
	Timestamp string `json:"timestamp"`
}

// envelope addresses a message to every client, or only to the clients of
// userID when it is set.
type envelope struct {
	msg    Message
	userID string
}

// HubConfig configures notification throttling.
type HubConfig struct {
	// NotifyRate is the sustained number of feed_invalidated notices per
	// second sent to one user.
	NotifyRate float64

	// NotifyBurst is how many notices one user may receive at once.
	NotifyBurst int

	// BufferSize is the capacity of the broadcast queue.
	BufferSize int
}

// DefaultHubConfig returns production defaults.
func DefaultHubConfig() HubConfig {
	return HubConfig{NotifyRate: 2, NotifyBurst: 5, BufferSize: 256}
}

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan envelope
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex

	limiterMu sync.Mutex
	limiters  map[string]*rate.Limiter
	rate      rate.Limit
	burst     int

	logger zerolog.Logger
}

var _ events.Notifier = (*Hub)(nil)

// NewHub creates a new Hub
//
//nolint:gocritic // zerolog.Logger is passed by value throughout the codebase
func NewHub(cfg HubConfig, logger zerolog.Logger) *Hub {
	defaults := DefaultHubConfig()
	if cfg.NotifyRate <= 0 {
		cfg.NotifyRate = defaults.NotifyRate
	}
	if cfg.NotifyBurst <= 0 {
		cfg.NotifyBurst = defaults.NotifyBurst
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaults.BufferSize
	}

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan envelope, cfg.BufferSize),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		limiters:   make(map[string]*rate.Limiter),
		rate:       rate.Limit(cfg.NotifyRate),
		burst:      cfg.NotifyBurst,
		logger:     logger.With().Str("component", "websocket-hub").Logger(),
	}
}

// RunWithContext starts the hub and blocks until ctx is canceled.
// All connected clients are closed on return so a supervisor can restart
// the hub without leaving orphaned connections.
//
// Client lifecycle events take priority over broadcasts so that a message
// is never delivered to a client that has already unregistered.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.register(client)
			continue
		case client := <-h.Unregister:
			h.unregister(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.register(client)
		case client := <-h.Unregister:
			h.unregister(client)
		case env := <-h.broadcast:
			h.deliver(env)
		}
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	h.logger.Info().Str("user_id", client.userID).Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	h.logger.Info().Int("total_clients", total).Msg("websocket client disconnected")
}

func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	h.logger.Info().
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// sortedClients returns the clients in ID order. Callers hold h.mu.
func (h *Hub) sortedClients() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// deliver sends a message to its recipients in client ID order. Clients
// whose send buffer is full are disconnected.
func (h *Hub) deliver(env envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var toRemove []*Client
	for _, client := range h.sortedClients() {
		if env.userID != "" && client.userID != env.userID {
			continue
		}
		select {
		case client.send <- env.msg:
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
		metrics.RecordNotificationDropped(dropBufferFull)
	}
	if len(toRemove) > 0 {
		metrics.WSConnections.Set(float64(len(h.clients)))
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.sortedClients() {
		close(client.send)
		delete(h.clients, client)
	}
	metrics.WSConnections.Set(0)
}

// enqueue queues a message without blocking the caller.
func (h *Hub) enqueue(env envelope) bool {
	select {
	case h.broadcast <- env:
		return true
	default:
		metrics.RecordNotificationDropped(dropBufferFull)
		h.logger.Warn().Str("message_type", env.msg.Type).Msg("broadcast channel full, dropping message")
		return false
	}
}

// allow reports whether userID may receive another feed_invalidated notice.
func (h *Hub) allow(userID string) bool {
	h.limiterMu.Lock()
	limiter, ok := h.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(h.rate, h.burst)
		h.limiters[userID] = limiter
	}
	h.limiterMu.Unlock()
	return limiter.Allow()
}

// PruneLimiters drops the per-user limiters whose bucket has refilled by
// now. A full bucket behaves exactly like a new one, so throttling is
// unaffected. It returns the number of limiters removed.
func (h *Hub) PruneLimiters(now time.Time) int {
	h.limiterMu.Lock()
	defer h.limiterMu.Unlock()

	pruned := 0
	for userID, limiter := range h.limiters {
		if limiter.TokensAt(now) >= float64(h.burst) {
			delete(h.limiters, userID)
			pruned++
		}
	}
	if pruned > 0 {
		h.logger.Debug().Int("pruned", pruned).Int("remaining", len(h.limiters)).Msg("pruned idle notification limiters")
	}
	return pruned
}

func (h *Hub) limiterCount() int {
	h.limiterMu.Lock()
	defer h.limiterMu.Unlock()
	return len(h.limiters)
}

// BroadcastJSON sends a JSON message to all connected clients
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	h.enqueue(envelope{msg: Message{Type: messageType, Data: data}})
}

// SendToUser sends a message to the clients of one user.
func (h *Hub) SendToUser(userID, messageType string, data interface{}) {
	h.enqueue(envelope{msg: Message{Type: messageType, Data: data}, userID: userID})
}

// NotifyPostCreated tells every client a new post exists.
func (h *Hub) NotifyPostCreated(e *events.PostCreated) {
	h.BroadcastJSON(MessageTypePostCreated, PostCreatedData{
		PostID:    e.PostID,
		AuthorID:  e.AuthorID,
		PostType:  e.PostType,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// NotifyInteraction confirms a recorded interaction to the acting user.
func (h *Hub) NotifyInteraction(e *events.InteractionRecorded) {
	h.SendToUser(e.UserID, MessageTypeInteractionRecorded, InteractionRecordedData{
		PostID:    e.PostID,
		Kind:      e.Kind,
		Timestamp: e.OccurredAt.UTC().Format(time.RFC3339),
	})
}

// NotifyInvalidated tells clients their feed is stale. Notices for a single
// user are throttled; a global clear always goes out.
func (h *Hub) NotifyInvalidated(e *events.CacheInvalidated) {
	data := FeedInvalidatedData{
		Scope:     e.Scope,
		UserID:    e.UserID,
		Timestamp: e.OccurredAt.UTC().Format(time.RFC3339),
	}

	if e.UserID == "" {
		h.BroadcastJSON(MessageTypeFeedInvalidated, data)
		return
	}

	if !h.allow(e.UserID) {
		metrics.RecordNotificationDropped(dropThrottled)
		h.logger.Debug().Str("user_id", e.UserID).Msg("feed_invalidated notice throttled")
		return
	}
	h.SendToUser(e.UserID, MessageTypeFeedInvalidated, data)
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
