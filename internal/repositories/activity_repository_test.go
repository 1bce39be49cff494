package repositories

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aktywni/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// activityTestColumns mirrors the listing column order
var activityTestColumns = []string{
	"id", "user_id", "name", "type", "distance_km", "duration_min", "started_at", "start_place", "end_place",
}

// setupActivityRepository creates an activity repository with a mock database
func setupActivityRepository(t *testing.T) (*activityRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewActivityRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestActivityRepository_Create(t *testing.T) {
	repo, mock, cleanup := setupActivityRepository(t)
	defer cleanup()

	startedAt := time.Date(2025, 6, 1, 7, 30, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO activities (user_id, name, type, distance_km, duration_min, started_at) VALUES (?, ?, ?, ?, ?, ?)`)).
		WithArgs(2, "Morning run", "run", 5.2, 31, startedAt).
		WillReturnResult(sqlmock.NewResult(9, 1))

	activity := &models.Activity{
		UserID:      2,
		Name:        "Morning run",
		Type:        "run",
		DistanceKm:  5.2,
		DurationMin: 31,
		StartedAt:   startedAt,
	}

	err := repo.Create(context.Background(), activity)

	require.NoError(t, err)
	assert.Equal(t, 9, activity.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepository_GetByID(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT id, user_id, name, type, distance_km, duration_min, started_at, start_place, end_place FROM activities WHERE id = ? LIMIT 1`)

	t.Run("success", func(t *testing.T) {
		repo, mock, cleanup := setupActivityRepository(t)
		defer cleanup()

		startedAt := time.Date(2025, 6, 1, 7, 30, 0, 0, time.UTC)
		rows := sqlmock.NewRows(activityTestColumns).
			AddRow(1, 2, "Morning run", "run", 5.2, 31, startedAt, "Poznan", nil)
		mock.ExpectQuery(query).WithArgs(1).WillReturnRows(rows)

		activity, err := repo.GetByID(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, "Morning run", activity.Name)
		assert.Equal(t, "Poznan", activity.StartPlace)
		assert.Empty(t, activity.EndPlace)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock, cleanup := setupActivityRepository(t)
		defer cleanup()

		mock.ExpectQuery(query).WithArgs(99).WillReturnError(sql.ErrNoRows)

		activity, err := repo.GetByID(context.Background(), 99)

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, activity)
	})
}

func TestActivityRepository_GetAll(t *testing.T) {
	t.Run("all activities", func(t *testing.T) {
		repo, mock, cleanup := setupActivityRepository(t)
		defer cleanup()

		startedAt := time.Date(2025, 6, 1, 7, 30, 0, 0, time.UTC)
		rows := sqlmock.NewRows(activityTestColumns).
			AddRow(2, 1, "Evening ride", "ride", 20.1, 55, startedAt.Add(time.Hour), nil, nil).
			AddRow(1, 2, "Morning run", "run", 5.2, 31, startedAt, nil, nil)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, name, type, distance_km, duration_min, started_at, start_place, end_place FROM activities ORDER BY started_at DESC`)).
			WillReturnRows(rows)

		activities, err := repo.GetAll(context.Background(), nil)

		require.NoError(t, err)
		require.Len(t, activities, 2)
		assert.Equal(t, "Evening ride", activities[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filtered by user", func(t *testing.T) {
		repo, mock, cleanup := setupActivityRepository(t)
		defer cleanup()

		startedAt := time.Date(2025, 6, 1, 7, 30, 0, 0, time.UTC)
		rows := sqlmock.NewRows(activityTestColumns).
			AddRow(1, 2, "Morning run", "run", 5.2, 31, startedAt, nil, nil)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, name, type, distance_km, duration_min, started_at, start_place, end_place FROM activities WHERE user_id = ? ORDER BY started_at DESC`)).
			WithArgs(2).
			WillReturnRows(rows)

		userID := 2
		activities, err := repo.GetAll(context.Background(), &userID)

		require.NoError(t, err)
		require.Len(t, activities, 1)
		assert.Equal(t, 2, activities[0].UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestActivityRepository_Search(t *testing.T) {
	startedAt := time.Date(2025, 6, 1, 7, 30, 0, 0, time.UTC)

	t.Run("empty filter returns everything", func(t *testing.T) {
		repo, mock, cleanup := setupActivityRepository(t)
		defer cleanup()

		rows := sqlmock.NewRows(activityTestColumns).
			AddRow(1, 2, "Morning run", "run", 5.2, 31, startedAt, nil, nil)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, name, type, distance_km, duration_min, started_at, start_place, end_place FROM activities ORDER BY started_at DESC`)).
			WillReturnRows(rows)

		activities, err := repo.Search(context.Background(), models.ActivityFilter{})

		require.NoError(t, err)
		assert.Len(t, activities, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("all filters combine with AND", func(t *testing.T) {
		repo, mock, cleanup := setupActivityRepository(t)
		defer cleanup()

		rows := sqlmock.NewRows(activityTestColumns).
			AddRow(1, 2, "Morning run", "run", 5.2, 31, startedAt, nil, nil)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, name, type, distance_km, duration_min, started_at, start_place, end_place FROM activities WHERE user_id = ? AND type = ? AND name LIKE ? AND distance_km >= ? AND distance_km <= ? AND started_at >= ? AND started_at <= ? ORDER BY started_at DESC`)).
			WithArgs(2, "run", "%morning%", 1.0, 10.0, startedAt.Add(-time.Hour), startedAt.Add(time.Hour)).
			WillReturnRows(rows)

		userID := 2
		minDistance := 1.0
		maxDistance := 10.0
		dateFrom := startedAt.Add(-time.Hour)
		dateTo := startedAt.Add(time.Hour)

		activities, err := repo.Search(context.Background(), models.ActivityFilter{
			UserID:      &userID,
			Type:        "run",
			Query:       "morning",
			MinDistance: &minDistance,
			MaxDistance: &maxDistance,
			DateFrom:    &dateFrom,
			DateTo:      &dateTo,
		})

		require.NoError(t, err)
		assert.Len(t, activities, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestActivityRepository_Delete(t *testing.T) {
	query := regexp.QuoteMeta(`DELETE FROM activities WHERE id = ?`)

	t.Run("success", func(t *testing.T) {
		repo, mock, cleanup := setupActivityRepository(t)
		defer cleanup()

		mock.ExpectExec(query).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), 1)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows affected", func(t *testing.T) {
		repo, mock, cleanup := setupActivityRepository(t)
		defer cleanup()

		mock.ExpectExec(query).WithArgs(99).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), 99)

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("database error", func(t *testing.T) {
		repo, mock, cleanup := setupActivityRepository(t)
		defer cleanup()

		mock.ExpectExec(query).WithArgs(1).WillReturnError(errors.New("database error"))

		err := repo.Delete(context.Background(), 1)

		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestActivityRepository_CountAndDistance(t *testing.T) {
	repo, mock, cleanup := setupActivityRepository(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"count", "distance"}).AddRow(34, 567.8)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*), COALESCE(SUM(distance_km), 0) FROM activities`)).
		WillReturnRows(rows)

	count, distance, err := repo.CountAndDistance(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 34, count)
	assert.Equal(t, 567.8, distance)
	assert.NoError(t, mock.ExpectationsWereMet())
}
