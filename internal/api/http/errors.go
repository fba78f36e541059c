package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"carmarket-rental-backend/internal/domain"
	"carmarket-rental-backend/internal/logger"
	"carmarket-rental-backend/internal/service"
)

var errUnauthenticated = errors.New("authentication required")

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps service errors onto HTTP status codes. Anything unclassified
// is an internal error.
func statusFor(err error) int {
	if errors.Is(err, errUnauthenticated) || errors.Is(err, service.ErrInvalidCredentials) {
		return http.StatusUnauthorized
	}
	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindConflict, domain.KindStateTransition:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindPermission:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}
