package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	authmiddleware "github.com/aktywni/backend/internal/auth/middleware"
	"github.com/aktywni/backend/internal/models"
	"go.uber.org/zap"
)

// AdminService is the interface that wraps methods for the admin panel business logic.
type AdminService interface {
	// Method ListUsers retrieves all accounts, ordered by ID.
	ListUsers(ctx context.Context) ([]models.AdminUserItem, error)
	// Method SearchActivities retrieves activities matching the filters,
	// newest first. An empty filter returns everything.
	SearchActivities(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, error)
	// Method DeleteActivity removes an activity and its track.
	//
	// If no activity with such ID exists, services.ErrActivityNotFound is
	// returned.
	DeleteActivity(ctx context.Context, id int) error
	// Method Stats aggregates the platform-wide counters.
	Stats(ctx context.Context) (*models.Stats, error)
}

// AdminHandler handles HTTP requests for the admin panel
type AdminHandler struct {
	BaseHandler
	service AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(svc AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service:     svc,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all admin handler routes. The caller is expected
// to mount them behind the admin role middleware.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/users", h.ListUsers)
	r.Get("/activities", h.SearchActivities)
	r.Delete("/activities/{id}", h.DeleteActivity)
	r.Get("/stats", h.Stats)
}

// ListUsers handles GET /api/admin/users
// @Summary List all users
// @Description List every account with its role, admin only
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.AdminUserItem
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.respondServiceError(w, err, "failed to list users")
		return
	}

	h.respondJSON(w, http.StatusOK, users)
}

// SearchActivities handles GET /api/admin/activities
// @Summary Search activities
// @Description Search all activities by user, type, name, distance and date range, admin only
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId query int false "Filter by user"
// @Param type query string false "Filter by activity type"
// @Param q query string false "Substring match against the name"
// @Param minDistance query number false "Minimum distance in km"
// @Param maxDistance query number false "Maximum distance in km"
// @Param dateFrom query string false "Earliest start date (RFC3339 or YYYY-MM-DD)"
// @Param dateTo query string false "Latest start date (RFC3339 or YYYY-MM-DD)"
// @Success 200 {array} models.Activity
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/admin/activities [get]
func (h *AdminHandler) SearchActivities(w http.ResponseWriter, r *http.Request) {
	filter, err := parseActivityFilter(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	activities, err := h.service.SearchActivities(r.Context(), filter)
	if err != nil {
		h.respondServiceError(w, err, "failed to search activities")
		return
	}

	h.respondJSON(w, http.StatusOK, activities)
}

// DeleteActivity handles DELETE /api/admin/activities/{id}
// @Summary Delete an activity
// @Description Delete an activity and its track, admin only
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Activity ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/admin/activities/{id} [delete]
func (h *AdminHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "invalid activity id")
		return
	}

	if err := h.service.DeleteActivity(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "failed to delete activity")
		return
	}

	if adminID, ok := authmiddleware.GetUserID(r.Context()); ok {
		h.logger.Info("activity deleted",
			zap.Int("activityId", id),
			zap.Int("adminId", adminID),
		)
	}

	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/admin/stats
// @Summary Platform statistics
// @Description Aggregate user count, activity count and total distance, admin only
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Stats
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/admin/stats [get]
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.respondServiceError(w, err, "failed to get stats")
		return
	}

	h.respondJSON(w, http.StatusOK, stats)
}

// dateLayouts are the accepted formats for the dateFrom/dateTo filters
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseActivityFilter reads the admin search filters from the query string
func parseActivityFilter(r *http.Request) (models.ActivityFilter, error) {
	var filter models.ActivityFilter
	query := r.URL.Query()

	if raw := query.Get("userId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errBadFilter("userId")
		}
		filter.UserID = &id
	}

	filter.Type = query.Get("type")
	filter.Query = query.Get("q")

	if raw := query.Get("minDistance"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, errBadFilter("minDistance")
		}
		filter.MinDistance = &v
	}
	if raw := query.Get("maxDistance"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, errBadFilter("maxDistance")
		}
		filter.MaxDistance = &v
	}

	if raw := query.Get("dateFrom"); raw != "" {
		ts, err := parseFilterDate(raw)
		if err != nil {
			return filter, errBadFilter("dateFrom")
		}
		filter.DateFrom = &ts
	}
	if raw := query.Get("dateTo"); raw != "" {
		ts, err := parseFilterDate(raw)
		if err != nil {
			return filter, errBadFilter("dateTo")
		}
		filter.DateTo = &ts
	}

	return filter, nil
}

// parseFilterDate parses a date filter in any accepted layout
func parseFilterDate(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		ts, err := time.Parse(layout, raw)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// errBadFilter reports an unparseable filter parameter
type errBadFilter string

func (e errBadFilter) Error() string {
	return "invalid " + string(e) + " parameter"
}
