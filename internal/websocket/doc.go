// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package websocket pushes live feed notifications to connected clients.

The package uses gorilla/websocket with a hub-client architecture. The Hub
implements events.Notifier, so it subscribes to the event processor and
turns domain events into messages:

	PostCreated          -> post_created to every client
	InteractionRecorded  -> interaction_recorded to the acting user
	CacheInvalidated     -> feed_invalidated to the user, or to all clients

A client connects with GET /ws?user_id=<id>. Clients without a user id
receive broadcasts only.

Each client has two goroutines:
  - readPump: Reads from WebSocket, answers ping messages with pong
  - writePump: Writes queued messages and keeps the connection alive

Throttling:

Every interaction clears the user's cached feed, so a burst of likes would
produce a burst of feed_invalidated notices. Notices addressed to one user
pass through a per-user token bucket (golang.org/x/time/rate). Dropped
notices are counted in feedrank_websocket_notifications_dropped_total.

Slow clients whose send buffer fills up are disconnected rather than
blocking the hub.
*/
package websocket
