// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/feedrank/internal/feed"
	"github.com/tomtom215/feedrank/internal/logging"
	"github.com/tomtom215/feedrank/internal/ranking"
	"github.com/tomtom215/feedrank/internal/store"
	"github.com/tomtom215/feedrank/internal/validation"
)

// writeServiceError maps domain errors onto HTTP status codes and error
// codes. Unknown errors are logged and reported as internal errors without
// leaking their text.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	rw := NewResponseWriter(w, r)

	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		apiErr := verr.ToAPIError()
		rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
	case errors.Is(err, feed.ErrInvalidInteractionKind):
		rw.Error(http.StatusBadRequest, ErrCodeInvalidInteractionKind, err.Error())
	case errors.Is(err, feed.ErrInvalidPost), errors.Is(err, feed.ErrInvalidInteraction):
		rw.Error(http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
	case errors.Is(err, ranking.ErrUnknownFeedType):
		rw.Error(http.StatusBadRequest, ErrCodeUnknownFeedType, err.Error())
	case errors.Is(err, ranking.ErrUnknownStrategy):
		rw.Error(http.StatusBadRequest, ErrCodeUnknownAlgorithm, err.Error())
	case errors.Is(err, store.ErrNotFound):
		rw.NotFound("Post not found")
	case errors.Is(err, feed.ErrDataUnavailable):
		rw.Error(http.StatusServiceUnavailable, ErrCodeDataUnavailable, "Post data is temporarily unavailable")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		rw.ServiceUnavailable("Request canceled")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Unhandled service error")
		rw.InternalError("Internal server error")
	}
}

// writeValidation renders a request validation failure.
func writeValidation(w http.ResponseWriter, r *http.Request, verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	NewResponseWriter(w, r).ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
}
