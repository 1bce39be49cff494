package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aktywni/backend/internal/models"
	"github.com/aktywni/backend/internal/repositories"
)

// timestampLayouts are the accepted formats for started_at and track point
// timestamps, tried in order
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ActivityRepository is the interface that wraps methods for Activity table data access
type ActivityRepository interface {
	// Method Create inserts a new activity and fills in its ID.
	Create(ctx context.Context, activity *models.Activity) error
	// Method GetByID retrieves an activity by ID.
	//
	// If no activity with such ID exists, repositories.ErrNotFound is
	// returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Activity, error)
	// Method GetAll retrieves activities, optionally filtered by user,
	// newest first.
	GetAll(ctx context.Context, userID *int) ([]models.Activity, error)
}

// TrackRepository is the interface that wraps methods for the activity_points table
type TrackRepository interface {
	// Method GetByActivityID retrieves the GPS points of an activity
	// ordered by timestamp.
	GetByActivityID(ctx context.Context, activityID int) ([]models.TrackPoint, error)
	// Method Replace swaps the whole track of an activity for the given
	// points, atomically.
	Replace(ctx context.Context, activityID int, points []models.TrackPoint) error
}

// activityService implements the activity business logic
type activityService struct {
	activityRepo ActivityRepository
	trackRepo    TrackRepository
}

// NewActivityService creates a new activity service
func NewActivityService(activityRepo ActivityRepository, trackRepo TrackRepository) *activityService {
	return &activityService{
		activityRepo: activityRepo,
		trackRepo:    trackRepo,
	}
}

// List retrieves activities, optionally restricted to one user
func (s *activityService) List(ctx context.Context, userID *int) ([]models.Activity, error) {
	return s.activityRepo.GetAll(ctx, userID)
}

// Get retrieves a single activity
func (s *activityService) Get(ctx context.Context, id int) (*models.Activity, error) {
	activity, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	return activity, nil
}

// Create validates and records a new activity, returning its ID
func (s *activityService) Create(ctx context.Context, req *models.CreateActivityRequest) (int, error) {
	if req.UserID == 0 || req.Name == "" || req.Type == "" || req.StartedAt == "" {
		return 0, fmt.Errorf("%w: user_id, name, type, started_at required", ErrValidation)
	}

	startedAt, err := parseTimestamp(req.StartedAt)
	if err != nil {
		return 0, fmt.Errorf("%w: started_at invalid date", ErrValidation)
	}

	activity := &models.Activity{
		UserID:      req.UserID,
		Name:        req.Name,
		Type:        req.Type,
		DistanceKm:  req.DistanceKm,
		DurationMin: req.DurationMin,
		StartedAt:   startedAt,
	}

	if err := s.activityRepo.Create(ctx, activity); err != nil {
		return 0, err
	}

	return activity.ID, nil
}

// GetTrack retrieves the GPS track of an activity
func (s *activityService) GetTrack(ctx context.Context, activityID int) (*models.Track, error) {
	if _, err := s.Get(ctx, activityID); err != nil {
		return nil, err
	}

	points, err := s.trackRepo.GetByActivityID(ctx, activityID)
	if err != nil {
		return nil, err
	}

	if points == nil {
		points = []models.TrackPoint{}
	}
	return &models.Track{ActivityID: activityID, Points: points}, nil
}

// ReplaceTrack validates and swaps the whole GPS track of an activity
func (s *activityService) ReplaceTrack(ctx context.Context, activityID int, req *models.PutTrackRequest) error {
	if len(req.Points) == 0 {
		return fmt.Errorf("%w: points array required", ErrValidation)
	}

	if _, err := s.Get(ctx, activityID); err != nil {
		return err
	}

	points := make([]models.TrackPoint, len(req.Points))
	for i, p := range req.Points {
		ts, err := parseTimestamp(p.Timestamp)
		if err != nil {
			return fmt.Errorf("%w: invalid timestamp in points", ErrValidation)
		}
		points[i] = models.TrackPoint{Lat: p.Lat, Lon: p.Lon, Timestamp: ts}
	}

	return s.trackRepo.Replace(ctx, activityID, points)
}

// ExportTrack retrieves an activity together with its track for GPX export
func (s *activityService) ExportTrack(ctx context.Context, activityID int) (*models.Activity, []models.TrackPoint, error) {
	activity, err := s.Get(ctx, activityID)
	if err != nil {
		return nil, nil, err
	}

	points, err := s.trackRepo.GetByActivityID(ctx, activityID)
	if err != nil {
		return nil, nil, err
	}
	if len(points) == 0 {
		return nil, nil, ErrTrackNotFound
	}

	return activity, points, nil
}

// parseTimestamp parses a client-supplied timestamp in any accepted layout
func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
