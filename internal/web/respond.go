package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/conorfennell/flashmark/internal/domain"
	"github.com/conorfennell/flashmark/internal/generation"
	"github.com/conorfennell/flashmark/internal/review"
)

// maxBodyBytes caps JSON and CSV request bodies.
const maxBodyBytes = 8 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.ErrorContext(r.Context(), "failed to encode JSON response", "error", err)
	}
}

// respondError maps err onto a status code and a message safe to show the
// client. Only validation and request errors echo their text.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classify(err)

	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.log.Log(r.Context(), level, "request failed",
		"status", status,
		"path", r.URL.Path,
		"error", err,
	)
	s.respondJSON(w, r, status, errorResponse{Error: message})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, review.ErrSessionNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, review.ErrEmptySession):
		return http.StatusConflict, err.Error()
	case errors.Is(err, generation.ErrNotConfigured):
		return http.StatusServiceUnavailable, generation.ErrNotConfigured.Error()
	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusBadGateway, generation.ErrContentBlocked.Error()
	case errors.Is(err, generation.ErrInvalidResponse):
		return http.StatusBadGateway, generation.ErrInvalidResponse.Error()
	case errors.Is(err, generation.ErrCompletionFailed):
		return http.StatusBadGateway, generation.ErrCompletionFailed.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"
	}
	return http.StatusInternalServerError, "internal server error"
}

// decodeJSON reads a JSON body into v. Malformed bodies are validation
// errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.NewValidationError("", "request body is required")
		}
		return domain.NewValidationError("", fmt.Sprintf("request body is not valid JSON: %v", err))
	}
	return nil
}
