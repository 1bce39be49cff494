package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/aktywni/backend/internal/models"
)

// trackRepository implements the activity track data access methods
type trackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new track repository
func NewTrackRepository(db *sql.DB) *trackRepository {
	return &trackRepository{
		db: db,
	}
}

// GetByActivityID retrieves the GPS points of an activity ordered by timestamp
func (r *trackRepository) GetByActivityID(ctx context.Context, activityID int) ([]models.TrackPoint, error) {
	query := `
		SELECT lat, lon, timestamp
		FROM activity_points
		WHERE activity_id = ?
		ORDER BY timestamp ASC
	`

	rows, err := r.db.QueryContext(ctx, query, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query track points: %w", err)
	}
	defer rows.Close()

	var points []models.TrackPoint
	for rows.Next() {
		var point models.TrackPoint
		if err := rows.Scan(&point.Lat, &point.Lon, &point.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan track point: %w", err)
		}
		points = append(points, point)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return points, nil
}

// Replace swaps the whole track of an activity for the given points. Delete
// and insert run in one transaction so a failed upload never leaves a
// half-written track.
func (r *trackRepository) Replace(ctx context.Context, activityID int, points []models.TrackPoint) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM activity_points WHERE activity_id = ?`, activityID); err != nil {
		return fmt.Errorf("failed to delete old track: %w", err)
	}

	if len(points) > 0 {
		if err := insertPoints(ctx, tx, activityID, points); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit track replacement: %w", err)
	}

	return nil
}

// insertPoints bulk-inserts the points with a single multi-row statement
func insertPoints(ctx context.Context, tx *sql.Tx, activityID int, points []models.TrackPoint) error {
	placeholders := make([]string, len(points))
	args := make([]any, 0, len(points)*4)
	for i, point := range points {
		placeholders[i] = "(?, ?, ?, ?)"
		args = append(args, activityID, point.Lat, point.Lon, point.Timestamp)
	}

	query := fmt.Sprintf(
		`INSERT INTO activity_points (activity_id, lat, lon, timestamp) VALUES %s`,
		strings.Join(placeholders, ","),
	)

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert track points: %w", err)
	}

	return nil
}
