// Package handlers implements the HTTP layer of the API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aktywni/backend/internal/services"
	"go.uber.org/zap"
)

type BaseHandler struct {
	logger *zap.Logger
}

// respondJSON sends a JSON response
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// decodeJSON decodes the request body into dst, reporting a 400 on malformed
// input. Returns false when the response has already been written.
func (h *BaseHandler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// respondError sends an error JSON response
func (h *BaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// respondServiceError maps a service error onto an HTTP status. Validation
// messages are safe to reveal; anything unrecognized is logged and hidden
// behind a generic 500.
func (h *BaseHandler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrEmailExists):
		h.respondError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, services.ErrInvalidCredentials):
		h.respondError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrInvalidToken):
		h.respondError(w, http.StatusBadRequest, "Invalid token")
	case errors.Is(err, services.ErrTokenExpired):
		h.respondError(w, http.StatusBadRequest, "Token expired")
	case errors.Is(err, services.ErrActivityNotFound):
		h.respondError(w, http.StatusNotFound, "Activity not found")
	case errors.Is(err, services.ErrTrackNotFound):
		h.respondError(w, http.StatusNotFound, "Track not found")
	default:
		h.logger.Error(fallback, zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, fallback)
	}
}
