package models

import "time"

// Activity represents a recorded workout activity
type Activity struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	DistanceKm  float64   `json:"distance_km"`
	DurationMin int       `json:"duration_min"`
	StartedAt   time.Time `json:"started_at"`
	StartPlace  string    `json:"start_place"`
	EndPlace    string    `json:"end_place"`
}

// TrackPoint is a single GPS sample of an activity track
type TrackPoint struct {
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Timestamp time.Time `json:"timestamp"`
}

// Track is the ordered GPS track of an activity
type Track struct {
	ActivityID int          `json:"activity_id"`
	Points     []TrackPoint `json:"points"`
}

// CreateActivityRequest represents an activity creation request
type CreateActivityRequest struct {
	UserID      int     `json:"user_id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	DistanceKm  float64 `json:"distance_km"`
	DurationMin int     `json:"duration_min"`
	StartedAt   string  `json:"started_at"`
}

// PutTrackRequest represents a track replacement request
type PutTrackRequest struct {
	Points []PutTrackPoint `json:"points"`
}

// PutTrackPoint is a single point of a track replacement request
type PutTrackPoint struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Timestamp string  `json:"timestamp"`
}

// ActivityFilter holds the optional admin search filters
type ActivityFilter struct {
	UserID      *int
	Type        string
	Query       string
	MinDistance *float64
	MaxDistance *float64
	DateFrom    *time.Time
	DateTo      *time.Time
}

// Stats is the admin summary report
type Stats struct {
	TotalUsers      int     `json:"totalUsers"`
	TotalActivities int     `json:"totalActivities"`
	TotalDistance   float64 `json:"totalDistance"`
}
