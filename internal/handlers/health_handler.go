package handlers

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go.uber.org/zap"
)

// HealthHandler reports liveness of the API and its database
type HealthHandler struct {
	BaseHandler
	db *sql.DB
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *sql.DB, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:          db,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers the health check route
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/health", h.Health)
}

// Health handles GET /api/health
// @Summary Health check
// @Description Report API and database liveness
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	var one int
	if err := h.db.QueryRowContext(r.Context(), `SELECT 1`).Scan(&one); err != nil {
		h.logger.Error("health check failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "database unavailable")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
