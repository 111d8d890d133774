package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/input"
)

// StatusLoopDetected is returned when an invocation hits the round cap.
const StatusLoopDetected = http.StatusLoopDetected

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// statusFor maps domain errors to HTTP status codes and stable error codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrThreadIDRequired),
		errors.Is(err, input.ErrInputTooLarge),
		errors.Is(err, input.ErrInvalidUTF8),
		errors.Is(err, input.ErrEmptyInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "thread_not_found"
	case errors.Is(err, domain.ErrToolLoopExceeded):
		return StatusLoopDetected, "tool_loop_exceeded"
	case errors.Is(err, domain.ErrModelFailed):
		return http.StatusBadGateway, "model_failed"
	case errors.Is(err, domain.ErrUnknownTool):
		return http.StatusBadGateway, "unknown_tool"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "canceled"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func writeDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "code", code, "err", err)
	} else {
		logger.Debug("Request rejected", "code", code, "err", err)
	}
	writeError(w, status, code, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "err", err)
	}
}
