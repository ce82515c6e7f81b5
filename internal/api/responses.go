package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	app_errors "relaychat/internal/errors"
)

// This file contains shared DTOs for API responses and helper functions for
// sending consistent HTTP responses.

// ErrorResponse defines the standard JSON structure for error messages.
// Detail carries the underlying diagnostic for upstream failures.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// StatusResponse defines a generic success response.
type StatusResponse struct {
	Status string `json:"status"`
}

// errorStatus maps business-layer errors to an HTTP status, a client message
// and an optional detail.
func errorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, app_errors.ErrValidation):
		// Validation messages are already user-facing.
		return http.StatusBadRequest, err.Error(), ""
	case errors.Is(err, app_errors.ErrModelUnavailable):
		return http.StatusServiceUnavailable, "The language model is unavailable.", err.Error()
	case errors.Is(err, app_errors.ErrUnsupported):
		return http.StatusUnsupportedMediaType, err.Error(), ""
	case errors.Is(err, app_errors.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error(), ""
	case errors.Is(err, app_errors.ErrRateLimited):
		return http.StatusTooManyRequests, "Too many requests, slow down.", ""
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "The request timed out.", ""
	default:
		// Anything else is internal; details stay in the log.
		return http.StatusInternalServerError, "An unexpected internal server error occurred.", ""
	}
}

// respondWithError is the centralized error handling function for the API layer.
func respondWithError(w http.ResponseWriter, err error) {
	statusCode, message, detail := errorStatus(err)

	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)

	respondWithJSON(w, statusCode, ErrorResponse{Error: message, Detail: detail})
}

// respondWithJSON marshals payload and writes it with the given status code.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

// respondWithRaw writes an already-encoded JSON body untouched.
func respondWithRaw(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

// writeFragment writes one fragment of a raw byte stream and flushes it so
// the client sees it immediately. A write error means the client is gone.
func writeFragment(w http.ResponseWriter, fragment string) error {
	if _, err := w.Write([]byte(fragment)); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}
