package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aktywni/backend/internal/gpx"
	"github.com/aktywni/backend/internal/models"
	"go.uber.org/zap"
)

// ActivityService is the interface that wraps methods for activity business logic.
type ActivityService interface {
	// Method List retrieves activities, newest first.
	//
	// "userID" parameter optionally restricts the listing to one user;
	// pass nil for all activities.
	List(ctx context.Context, userID *int) ([]models.Activity, error)
	// Method Get retrieves a single activity.
	//
	// If no activity with such ID exists, services.ErrActivityNotFound is
	// returned together with "nil" value.
	Get(ctx context.Context, id int) (*models.Activity, error)
	// Method Create validates and records a new activity, returning its ID.
	Create(ctx context.Context, req *models.CreateActivityRequest) (int, error)
	// Method GetTrack retrieves the GPS track of an activity. An activity
	// without points yields an empty track, not an error.
	GetTrack(ctx context.Context, activityID int) (*models.Track, error)
	// Method ReplaceTrack swaps the whole GPS track of an activity for the
	// uploaded points, atomically.
	ReplaceTrack(ctx context.Context, activityID int, req *models.PutTrackRequest) error
	// Method ExportTrack retrieves an activity together with its track for
	// GPX export.
	//
	// An activity without points is reported through services.ErrTrackNotFound.
	ExportTrack(ctx context.Context, activityID int) (*models.Activity, []models.TrackPoint, error)
}

// ActivityHandler handles HTTP requests for activities
type ActivityHandler struct {
	BaseHandler
	service ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(svc ActivityService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		service:     svc,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all activity handler routes
func (h *ActivityHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/activities", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Get("/track", h.GetTrack)
			r.Put("/track", h.PutTrack)
			r.Get("/export.gpx", h.Export)
		})
	})
}

// activityID parses the {id} path parameter. Returns false when the response
// has already been written.
func (h *ActivityHandler) activityID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "invalid activity id")
		return 0, false
	}
	return id, true
}

// List handles GET /api/activities
// @Summary List activities
// @Description List activities, newest first, optionally filtered by user
// @Tags activities
// @Accept json
// @Produce json
// @Param userId query int false "Restrict to one user"
// @Success 200 {array} models.Activity
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/activities [get]
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	var userID *int
	if raw := r.URL.Query().Get("userId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid userId parameter")
			return
		}
		userID = &id
	}

	activities, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err, "failed to list activities")
		return
	}
	if activities == nil {
		activities = []models.Activity{}
	}

	h.respondJSON(w, http.StatusOK, activities)
}

// Get handles GET /api/activities/{id}
// @Summary Get an activity
// @Description Get a single activity by ID
// @Tags activities
// @Accept json
// @Produce json
// @Param id path int true "Activity ID"
// @Success 200 {object} models.Activity
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/activities/{id} [get]
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.activityID(w, r)
	if !ok {
		return
	}

	activity, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "failed to get activity")
		return
	}

	h.respondJSON(w, http.StatusOK, activity)
}

// Create handles POST /api/activities
// @Summary Record an activity
// @Description Record a new workout activity
// @Tags activities
// @Accept json
// @Produce json
// @Param request body models.CreateActivityRequest true "Activity payload"
// @Success 201 {object} map[string]int
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/activities [post]
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateActivityRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	id, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, err, "failed to create activity")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]int{"id": id})
}

// GetTrack handles GET /api/activities/{id}/track
// @Summary Get an activity track
// @Description Get the GPS track of an activity, ordered by timestamp
// @Tags activities
// @Accept json
// @Produce json
// @Param id path int true "Activity ID"
// @Success 200 {object} models.Track
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/activities/{id}/track [get]
func (h *ActivityHandler) GetTrack(w http.ResponseWriter, r *http.Request) {
	id, ok := h.activityID(w, r)
	if !ok {
		return
	}

	track, err := h.service.GetTrack(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "failed to get track")
		return
	}

	h.respondJSON(w, http.StatusOK, track)
}

// PutTrack handles PUT /api/activities/{id}/track
// @Summary Replace an activity track
// @Description Replace the whole GPS track of an activity with the uploaded points
// @Tags activities
// @Accept json
// @Produce json
// @Param id path int true "Activity ID"
// @Param request body models.PutTrackRequest true "Track payload"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/activities/{id}/track [put]
func (h *ActivityHandler) PutTrack(w http.ResponseWriter, r *http.Request) {
	id, ok := h.activityID(w, r)
	if !ok {
		return
	}

	var req models.PutTrackRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ReplaceTrack(r.Context(), id, &req); err != nil {
		h.respondServiceError(w, err, "failed to replace track")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /api/activities/{id}/export.gpx
// @Summary Export an activity as GPX
// @Description Download the GPS track of an activity as a GPX 1.1 document
// @Tags activities
// @Produce application/gpx+xml
// @Param id path int true "Activity ID"
// @Success 200 {string} string "GPX document"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/activities/{id}/export.gpx [get]
func (h *ActivityHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, ok := h.activityID(w, r)
	if !ok {
		return
	}

	activity, points, err := h.service.ExportTrack(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "failed to export track")
		return
	}

	w.Header().Set("Content-Type", "application/gpx+xml")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="activity-%d.gpx"`, id))
	if err := gpx.Write(w, activity, points); err != nil {
		h.logger.Error("failed to write GPX document", zap.Int("activityId", id), zap.Error(err))
	}
}
