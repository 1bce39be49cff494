package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aktywni/backend/internal/models"
	"github.com/aktywni/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAdminUserRepository is a mock implementation of AdminUserRepository
type mockAdminUserRepository struct {
	users       []models.AdminUserItem
	count       int
	getAllErr   error
	countAllErr error
}

func (m *mockAdminUserRepository) GetAll(ctx context.Context) ([]models.AdminUserItem, error) {
	if m.getAllErr != nil {
		return nil, m.getAllErr
	}
	return m.users, nil
}

func (m *mockAdminUserRepository) CountAll(ctx context.Context) (int, error) {
	if m.countAllErr != nil {
		return 0, m.countAllErr
	}
	return m.count, nil
}

// mockAdminActivityRepository is a mock implementation of AdminActivityRepository
type mockAdminActivityRepository struct {
	activities []models.Activity
	count      int
	distance   float64
	searchErr  error
	deleteErr  error
	countErr   error

	searchedFilter models.ActivityFilter
	deletedID      int
}

func (m *mockAdminActivityRepository) Search(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	m.searchedFilter = filter
	return m.activities, nil
}

func (m *mockAdminActivityRepository) Delete(ctx context.Context, id int) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedID = id
	return nil
}

func (m *mockAdminActivityRepository) CountAndDistance(ctx context.Context) (int, float64, error) {
	if m.countErr != nil {
		return 0, 0, m.countErr
	}
	return m.count, m.distance, nil
}

func TestAdminService_ListUsers(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		users := []models.AdminUserItem{
			{ID: 1, Email: "admin@example.com", Role: models.RoleAdmin, CreatedAt: time.Now()},
			{ID: 2, Email: "user@example.com", Role: models.RoleUser, CreatedAt: time.Now()},
		}
		svc := NewAdminService(&mockAdminUserRepository{users: users}, &mockAdminActivityRepository{})

		got, err := svc.ListUsers(context.Background())

		require.NoError(t, err)
		assert.Equal(t, users, got)
	})

	t.Run("empty store yields empty slice", func(t *testing.T) {
		svc := NewAdminService(&mockAdminUserRepository{}, &mockAdminActivityRepository{})

		got, err := svc.ListUsers(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("database error", func(t *testing.T) {
		svc := NewAdminService(
			&mockAdminUserRepository{getAllErr: errors.New("database error")},
			&mockAdminActivityRepository{},
		)

		got, err := svc.ListUsers(context.Background())

		assert.Error(t, err)
		assert.Nil(t, got)
	})
}

func TestAdminService_SearchActivities(t *testing.T) {
	t.Run("filter is passed through", func(t *testing.T) {
		repo := &mockAdminActivityRepository{
			activities: []models.Activity{{ID: 1, Name: "Morning run", Type: "run"}},
		}
		svc := NewAdminService(&mockAdminUserRepository{}, repo)

		userID := 2
		minDistance := 5.0
		filter := models.ActivityFilter{
			UserID:      &userID,
			Type:        "run",
			Query:       "morning",
			MinDistance: &minDistance,
		}

		got, err := svc.SearchActivities(context.Background(), filter)

		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, filter, repo.searchedFilter)
	})

	t.Run("no match yields empty slice", func(t *testing.T) {
		svc := NewAdminService(&mockAdminUserRepository{}, &mockAdminActivityRepository{})

		got, err := svc.SearchActivities(context.Background(), models.ActivityFilter{})

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestAdminService_DeleteActivity(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := &mockAdminActivityRepository{}
		svc := NewAdminService(&mockAdminUserRepository{}, repo)

		err := svc.DeleteActivity(context.Background(), 7)

		require.NoError(t, err)
		assert.Equal(t, 7, repo.deletedID)
	})

	t.Run("not found", func(t *testing.T) {
		svc := NewAdminService(
			&mockAdminUserRepository{},
			&mockAdminActivityRepository{deleteErr: repositories.ErrNotFound},
		)

		err := svc.DeleteActivity(context.Background(), 99)

		assert.ErrorIs(t, err, ErrActivityNotFound)
	})

	t.Run("database error", func(t *testing.T) {
		svc := NewAdminService(
			&mockAdminUserRepository{},
			&mockAdminActivityRepository{deleteErr: errors.New("database error")},
		)

		err := svc.DeleteActivity(context.Background(), 7)

		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrActivityNotFound)
	})
}

func TestAdminService_Stats(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := NewAdminService(
			&mockAdminUserRepository{count: 12},
			&mockAdminActivityRepository{count: 34, distance: 567.8},
		)

		stats, err := svc.Stats(context.Background())

		require.NoError(t, err)
		assert.Equal(t, &models.Stats{
			TotalUsers:      12,
			TotalActivities: 34,
			TotalDistance:   567.8,
		}, stats)
	})

	t.Run("user count error", func(t *testing.T) {
		svc := NewAdminService(
			&mockAdminUserRepository{countAllErr: errors.New("database error")},
			&mockAdminActivityRepository{},
		)

		stats, err := svc.Stats(context.Background())

		assert.Error(t, err)
		assert.Nil(t, stats)
	})

	t.Run("activity count error", func(t *testing.T) {
		svc := NewAdminService(
			&mockAdminUserRepository{count: 12},
			&mockAdminActivityRepository{countErr: errors.New("database error")},
		)

		stats, err := svc.Stats(context.Background())

		assert.Error(t, err)
		assert.Nil(t, stats)
	})
}
