// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/feedrank/internal/feed"
	"github.com/tomtom215/feedrank/internal/logging"
	"github.com/tomtom215/feedrank/internal/models"
	"github.com/tomtom215/feedrank/internal/ranking"
	"github.com/tomtom215/feedrank/internal/validation"
)

// maxIDLength bounds user and post IDs taken from the path.
const maxIDLength = 128

func pathID(r *http.Request, name string) (string, bool) {
	id := chi.URLParam(r, name)
	return id, id != "" && len(id) <= maxIDLength
}

// Feed serves GET /api/v1/feed/{userID}.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userID")
	if !ok {
		NewResponseWriter(w, r).BadRequest("invalid user id")
		return
	}

	feedType, err := ranking.ParseFeedType(r.URL.Query().Get("type"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.serveFeed(w, r, userID, feedType)
}

// Trending serves GET /api/v1/trending.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	h.serveFeed(w, r, "", ranking.FeedTrending)
}

func (h *Handler) serveFeed(w http.ResponseWriter, r *http.Request, userID string, feedType ranking.FeedType) {
	opts, err := parseFeedOptions(r)
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}

	resp := h.svc.GetFeed(r.Context(), userID, feedType, opts)

	switch {
	case resp.Success:
		WriteSuccess(w, r, resp)
	case errors.Is(resp.Err, feed.ErrDataUnavailable):
		NewResponseWriter(w, r).Degraded(http.StatusServiceUnavailable, ErrCodeDataUnavailable,
			"Post data is temporarily unavailable", nil, resp)
	case resp.Fallback:
		NewResponseWriter(w, r).Degraded(http.StatusServiceUnavailable, ErrCodeRankingFailed,
			"Ranking failed, serving chronological order", nil, resp)
	default:
		writeServiceError(w, r, resp.Err)
	}
}

// CreatePost serves POST /api/v1/posts.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req models.NewPost
	if err := decodeJSON(r, &req); err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}

	post, err := h.svc.CreatePost(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(post)
}

// UpdatePost serves PATCH /api/v1/posts/{postID}.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "postID")
	if !ok {
		NewResponseWriter(w, r).BadRequest("invalid post id")
		return
	}

	var update models.PostUpdate
	if err := decodeJSON(r, &update); err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}

	post, err := h.svc.UpdatePost(r.Context(), postID, update)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, r, post)
}

// UserPosts serves GET /api/v1/users/{userID}/posts.
func (h *Handler) UserPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userID")
	if !ok {
		NewResponseWriter(w, r).BadRequest("invalid user id")
		return
	}

	posts, err := h.svc.ListUserPosts(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, r, map[string]interface{}{
		"posts": posts,
		"total": len(posts),
	})
}

// RecordInteraction serves POST /api/v1/interactions.
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	var req InteractionRequest
	if err := decodeJSON(r, &req); err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeValidation(w, r, verr)
		return
	}

	resp := h.svc.RecordInteraction(r.Context(), req.ToInteraction())
	if !resp.Success {
		writeServiceError(w, r, resp.Err)
		return
	}
	NewResponseWriter(w, r).Created(resp.Interaction)
}

// ClearUserCache serves DELETE /api/v1/cache/users/{userID}.
func (h *Handler) ClearUserCache(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userID")
	if !ok {
		NewResponseWriter(w, r).BadRequest("invalid user id")
		return
	}

	removed := h.svc.ClearCacheForUser(r.Context(), userID)
	logging.Ctx(r.Context()).Info().Str("user_id", userID).Int("removed", removed).Msg("User feed cache cleared")
	WriteSuccess(w, r, map[string]interface{}{
		"user_id": userID,
		"removed": removed,
	})
}

// ClearCache serves DELETE /api/v1/cache.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearAllCache(r.Context())
	logging.Ctx(r.Context()).Info().Msg("Feed cache cleared")
	WriteSuccess(w, r, map[string]interface{}{"cleared": true})
}

// CacheStats serves GET /api/v1/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, h.svc.Stats())
}

// SetAlgorithm serves PUT /api/v1/algorithm.
func (h *Handler) SetAlgorithm(w http.ResponseWriter, r *http.Request) {
	var req AlgorithmRequest
	if err := decodeJSON(r, &req); err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeValidation(w, r, verr)
		return
	}

	if err := h.svc.SetStrategy(r.Context(), req.Algorithm); err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, r, map[string]interface{}{"algorithm": req.Algorithm})
}
