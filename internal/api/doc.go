// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package api provides the HTTP REST API for feed serving and cache control.

Routes:

	GET    /health                         liveness and cheap gauges
	GET    /metrics                        Prometheus exposition
	GET    /ws?user_id=<id>                live notifications (WebSocket)

	GET    /api/v1/feed/{userID}           ?type=personalized|trending|chronological&window=24&limit=20
	GET    /api/v1/trending                ?window=24&limit=20
	POST   /api/v1/posts                   create a post
	PATCH  /api/v1/posts/{postID}          adjust counters, edit, soft delete or flag
	GET    /api/v1/users/{userID}/posts    a user's visible posts, newest first
	POST   /api/v1/interactions            record like/comment/share/view/skip
	GET    /api/v1/cache/stats             cache and strategy statistics
	DELETE /api/v1/cache                   clear every cached feed
	DELETE /api/v1/cache/users/{userID}    clear one user's feeds and all trending feeds
	PUT    /api/v1/algorithm               switch the personalized strategy

Responses use one envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}}
	{"success": false, "error": {"code": "VALIDATION_ERROR", "message": "...", "details": {...}}}

When the post store is down, feed endpoints answer 503 with code
DATA_UNAVAILABLE; when ranking fails the code is RANKING_FAILED. Both still
include the chronological fallback feed under "data".

Middleware (in order): request ID, real IP, request logging, panic
recovery, CORS, Prometheus request metrics. API routes additionally get a
per-IP rate limit (go-chi/httprate) and gzip compression.
*/
package api
