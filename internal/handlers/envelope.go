package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/videotube/backend/internal/guard"
	"github.com/videotube/backend/internal/logging"
	"github.com/videotube/backend/internal/query"
	"github.com/videotube/backend/internal/repositories"
)

// apiResponse is the uniform success envelope.
type apiResponse struct {
	Status  int    `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// apiError is the uniform failure envelope.
type apiError struct {
	Status  int      `json:"status"`
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// feedPayload wraps paginated feed results. Items is always a slice, never
// null, and TotalCount covers the full match independent of the page. An
// empty feed is a valid zero-length payload, not an error.
type feedPayload struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
}

func newFeedPayload(items any, total int64, page query.PageRequest) feedPayload {
	return feedPayload{Items: items, TotalCount: total, Page: page.Number, Limit: page.Size}
}

// respond writes a success envelope.
func respond(ctx context.Context, w http.ResponseWriter, status int, data any, message string) {
	writeJSON(ctx, w, status, apiResponse{Status: status, Data: data, Message: message})
}

// respondErr writes a failure envelope.
func respondErr(ctx context.Context, w http.ResponseWriter, status int, message string, details ...string) {
	writeJSON(ctx, w, status, apiError{Status: status, Error: message, Details: details})
}

// respondMapped translates guard, pagination, and store errors into their
// transport statuses so every handler fails the same way.
func respondMapped(ctx context.Context, w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, guard.ErrInvalidID), errors.Is(err, query.ErrInvalidPage), errors.Is(err, repositories.ErrInvalidTarget):
		respondErr(ctx, w, http.StatusBadRequest, err.Error())
	case errors.Is(err, guard.ErrNotFound), errors.Is(err, repositories.ErrNotFound):
		respondErr(ctx, w, http.StatusNotFound, err.Error())
	case errors.Is(err, guard.ErrForbidden):
		respondErr(ctx, w, http.StatusForbidden, "you do not own this resource")
	case errors.Is(err, repositories.ErrConflict):
		respondErr(ctx, w, http.StatusConflict, err.Error())
	default:
		logging.FromContext(ctx).Error(fallback, "error", err)
		respondErr(ctx, w, http.StatusInternalServerError, fallback)
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}
