package handlers

import (
	"delivery-analytics-service/internal/domain"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "encode failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
}

// WriteError writes the JSON error envelope {"error": msg} used by every endpoint.
func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeServiceError maps domain errors to HTTP statuses. Unexpected errors
// are logged and reported as 500 without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidCoordinate):
		WriteError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		WriteError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrForbidden):
		WriteError(w, r, http.StatusForbidden, "forbidden")
	default:
		slog.ErrorContext(r.Context(), op+" failed", "error", err)
		WriteError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// Marks a successful response that was computed over zero events.
func markNoData(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrDataUnavailable) {
		w.Header().Set("X-Data-Status", "no-data")
	}
}
