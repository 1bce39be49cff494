package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/aktywni/backend/internal/models"
)

// activityColumns are the columns returned for every activity listing
const activityColumns = `id, user_id, name, type, distance_km, duration_min, started_at, start_place, end_place`

// activityRepository implements the activity data access methods
type activityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *sql.DB) *activityRepository {
	return &activityRepository{
		db: db,
	}
}

// Create inserts a new activity into the database
func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	query := `
		INSERT INTO activities (user_id, name, type, distance_km, duration_min, started_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		activity.UserID,
		activity.Name,
		activity.Type,
		activity.DistanceKm,
		activity.DurationMin,
		activity.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	activity.ID = int(id)
	return nil
}

// GetByID retrieves an activity by ID
func (r *activityRepository) GetByID(ctx context.Context, id int) (*models.Activity, error) {
	query := fmt.Sprintf(`SELECT %s FROM activities WHERE id = ? LIMIT 1`, activityColumns)

	row := r.db.QueryRowContext(ctx, query, id)
	activity, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	return activity, nil
}

// GetAll retrieves activities, optionally filtered by user, newest first
func (r *activityRepository) GetAll(ctx context.Context, userID *int) ([]models.Activity, error) {
	query := fmt.Sprintf(`SELECT %s FROM activities`, activityColumns)
	var args []any

	if userID != nil {
		query += ` WHERE user_id = ?`
		args = append(args, *userID)
	}

	query += ` ORDER BY started_at DESC`

	return r.queryActivities(ctx, query, args...)
}

// Search retrieves activities matching the admin filters, newest first
func (r *activityRepository) Search(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, error) {
	var conditions []string
	var args []any

	if filter.UserID != nil {
		conditions = append(conditions, "user_id = ?")
		args = append(args, *filter.UserID)
	}
	if filter.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, filter.Type)
	}
	if filter.Query != "" {
		conditions = append(conditions, "name LIKE ?")
		args = append(args, "%"+filter.Query+"%")
	}
	if filter.MinDistance != nil {
		conditions = append(conditions, "distance_km >= ?")
		args = append(args, *filter.MinDistance)
	}
	if filter.MaxDistance != nil {
		conditions = append(conditions, "distance_km <= ?")
		args = append(args, *filter.MaxDistance)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, "started_at >= ?")
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, "started_at <= ?")
		args = append(args, *filter.DateTo)
	}

	query := fmt.Sprintf(`SELECT %s FROM activities`, activityColumns)
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY started_at DESC`

	return r.queryActivities(ctx, query, args...)
}

// Delete removes an activity by ID. Track points cascade in the store.
func (r *activityRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// CountAndDistance returns the total number of activities and the summed
// distance for the admin stats report
func (r *activityRepository) CountAndDistance(ctx context.Context) (int, float64, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(distance_km), 0) FROM activities`

	var count int
	var distance float64
	if err := r.db.QueryRowContext(ctx, query).Scan(&count, &distance); err != nil {
		return 0, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	return count, distance, nil
}

// queryActivities runs a listing query and scans the rows
func (r *activityRepository) queryActivities(ctx context.Context, query string, args ...any) ([]models.Activity, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, *activity)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return activities, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// scanActivity scans one activity row in activityColumns order
func scanActivity(row rowScanner) (*models.Activity, error) {
	activity := &models.Activity{}
	var startPlace, endPlace sql.NullString
	err := row.Scan(
		&activity.ID,
		&activity.UserID,
		&activity.Name,
		&activity.Type,
		&activity.DistanceKm,
		&activity.DurationMin,
		&activity.StartedAt,
		&startPlace,
		&endPlace,
	)
	if err != nil {
		return nil, err
	}
	if startPlace.Valid {
		activity.StartPlace = startPlace.String
	}
	if endPlace.Valid {
		activity.EndPlace = endPlace.String
	}
	return activity, nil
}
