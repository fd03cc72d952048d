// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/feedrank/internal/feed"
	"github.com/tomtom215/feedrank/internal/models"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// maxWindowHours bounds the trending window query parameter.
const maxWindowHours = 24 * 7

// AlgorithmRequest switches the personalized ranking strategy.
type AlgorithmRequest struct {
	Algorithm string `json:"algorithm" validate:"required,max=64"`
}

// InteractionRequest is the body of POST /api/v1/interactions. The kind is
// checked by the recorder so that unknown kinds map to their own error.
type InteractionRequest struct {
	UserID    string            `json:"user_id" validate:"required,max=128"`
	PostID    string            `json:"post_id" validate:"required,max=128"`
	Kind      string            `json:"kind" validate:"max=32"`
	Timestamp *time.Time        `json:"timestamp,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty" validate:"max=32"`
}

// ToInteraction converts the request into the domain type.
func (r *InteractionRequest) ToInteraction() models.Interaction {
	in := models.Interaction{
		UserID:   r.UserID,
		PostID:   r.PostID,
		Kind:     models.InteractionKind(r.Kind),
		Metadata: r.Metadata,
	}
	if r.Timestamp != nil {
		in.Timestamp = r.Timestamp.UTC()
	}
	return in
}

// decodeJSON reads a single JSON object from the request body.
// Unknown fields are rejected so typos surface as errors.
func decodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// parseFeedOptions reads the window (hours) and limit query parameters.
func parseFeedOptions(r *http.Request) (feed.FeedOptions, error) {
	var opts feed.FeedOptions
	q := r.URL.Query()

	if raw := q.Get("window"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours < 1 || hours > maxWindowHours {
			return opts, fmt.Errorf("window must be an integer number of hours between 1 and %d", maxWindowHours)
		}
		opts.Window = time.Duration(hours) * time.Hour
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return opts, errors.New("limit must be a non-negative integer")
		}
		if limit > feed.MaxFeedLimit {
			limit = feed.MaxFeedLimit
		}
		opts.Limit = limit
	}

	return opts, nil
}
