package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hszk-dev/gotube/internal/apperr"
)

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
		}
	}
}

// SuccessResponse is the envelope for every successful response.
type SuccessResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorResponse is the envelope for every failed response.
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
	Success    bool     `json:"success"`
}

func Success(w http.ResponseWriter, status int, data any, message string) {
	JSON(w, status, SuccessResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

func Error(w http.ResponseWriter, status int, message string, errs ...string) {
	if errs == nil {
		errs = []string{}
	}
	JSON(w, status, ErrorResponse{
		StatusCode: status,
		Message:    message,
		Errors:     errs,
		Success:    false,
	})
}

// StatusFor maps an error kind onto an HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindDependency:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError writes err as an error envelope. Causes of dependency
// and unknown failures are logged but never sent to the client.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		slog.ErrorContext(r.Context(), "unhandled service error",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		Error(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	status := StatusFor(ae.Kind)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "service dependency failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}
	Error(w, status, ae.Message, ae.Details...)
}
