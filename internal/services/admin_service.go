package services

import (
	"context"
	"errors"

	"github.com/aktywni/backend/internal/models"
	"github.com/aktywni/backend/internal/repositories"
)

// AdminUserRepository is the interface that wraps the User table methods used
// by the admin panel
type AdminUserRepository interface {
	// Method GetAll retrieves all users ordered by ID.
	GetAll(ctx context.Context) ([]models.AdminUserItem, error)
	// Method CountAll returns the total number of users.
	CountAll(ctx context.Context) (int, error)
}

// AdminActivityRepository is the interface that wraps the Activity table
// methods used by the admin panel
type AdminActivityRepository interface {
	// Method Search retrieves activities matching the filters, newest first.
	Search(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, error)
	// Method Delete removes an activity by ID.
	//
	// If no activity with such ID exists, repositories.ErrNotFound is
	// returned.
	Delete(ctx context.Context, id int) error
	// Method CountAndDistance returns the total number of activities and the
	// summed distance.
	CountAndDistance(ctx context.Context) (int, float64, error)
}

// adminService implements the admin panel business logic
type adminService struct {
	userRepo     AdminUserRepository
	activityRepo AdminActivityRepository
}

// NewAdminService creates a new admin service
func NewAdminService(userRepo AdminUserRepository, activityRepo AdminActivityRepository) *adminService {
	return &adminService{
		userRepo:     userRepo,
		activityRepo: activityRepo,
	}
}

// ListUsers retrieves all accounts for the admin listing
func (s *adminService) ListUsers(ctx context.Context) ([]models.AdminUserItem, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.AdminUserItem{}
	}
	return users, nil
}

// SearchActivities retrieves activities matching the admin filters
func (s *adminService) SearchActivities(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, error) {
	activities, err := s.activityRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	if activities == nil {
		activities = []models.Activity{}
	}
	return activities, nil
}

// DeleteActivity removes an activity and its track
func (s *adminService) DeleteActivity(ctx context.Context, id int) error {
	if err := s.activityRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrActivityNotFound
		}
		return err
	}
	return nil
}

// Stats aggregates the platform-wide counters
func (s *adminService) Stats(ctx context.Context) (*models.Stats, error) {
	users, err := s.userRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	activities, distance, err := s.activityRepo.CountAndDistance(ctx)
	if err != nil {
		return nil, err
	}

	return &models.Stats{
		TotalUsers:      users,
		TotalActivities: activities,
		TotalDistance:   distance,
	}, nil
}
