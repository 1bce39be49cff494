package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/aktywni/backend/internal/auth/service"
	"github.com/aktywni/backend/internal/models"
	"github.com/aktywni/backend/internal/repositories"
	"go.uber.org/zap"
)

// minRegisterPasswordLength is the policy threshold for new account passwords
const minRegisterPasswordLength = 8

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	// Method Create inserts a new user into the database.
	//
	// The user's credential must already be in its stored (hashed) form.
	//
	// If some error occurs during user creation, the error will be returned.
	// A collision on the email uniqueness constraint is reported through
	// repositories.IsDuplicateEntry.
	Create(ctx context.Context, user *models.User) error
	// Method GetByEmail retrieves a user by normalized email.
	//
	// If no user with such email exists, repositories.ErrNotFound is
	// returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method ExistsByEmail checks if a user with such email exists.
	//
	// If some error occurs during check, the error will be returned together
	// with "false" value.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Method UpdateCredential rewrites the stored credential for a user.
	//
	// Used to persist the opportunistic plaintext-to-hash upgrade emitted by
	// a successful legacy login.
	UpdateCredential(ctx context.Context, userID int, credential string) error
}

// authService implements AuthService
type authService struct {
	userRepo       UserRepository
	tokenGenerator *service.TokenGenerator
	logger         *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserRepository, tokenGenerator *service.TokenGenerator, logger *zap.Logger) *authService {
	return &authService{
		userRepo:       userRepo,
		tokenGenerator: tokenGenerator,
		logger:         logger,
	}
}

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// NormalizeEmail lowercases and trims an email so lookups and the store's
// uniqueness constraint agree on identity
func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// Register creates a new user account and returns it with a bearer token
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	email := NormalizeEmail(req.Email)

	if !emailRegex.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if len(req.Password) < minRegisterPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minRegisterPasswordLength)
	}
	if req.Password != req.ConfirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", ErrValidation)
	}

	// Fast-path existence check for a friendly error. The store's uniqueness
	// constraint is what actually closes the check-then-insert race below.
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:      email,
		Credential: models.Credential{Scheme: models.SchemeBcrypt, Value: hash},
		Role:       models.RoleUser, // Default role
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if repositories.IsDuplicateEntry(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	token, err := s.tokenGenerator.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.AuthResponse{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
		Token: token,
	}, nil
}

// Login authenticates a user and returns it with a bearer token. A legacy
// plaintext row that matches is upgraded to the hashed form in passing.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	email := NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Same failure as a wrong password
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	matched, upgraded := VerifyCredential(req.Password, user.Credential)
	if !matched {
		return nil, ErrInvalidCredentials
	}

	if upgraded != "" {
		// A concurrent login may race this write; both sides write a valid
		// hash of the same password, so last write wins harmlessly. A failed
		// write keeps the row legacy until the next login.
		if err := s.userRepo.UpdateCredential(ctx, user.ID, upgraded); err != nil {
			s.logger.Warn("failed to upgrade legacy credential",
				zap.Int("userId", user.ID), zap.Error(err))
		}
	}

	token, err := s.tokenGenerator.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.AuthResponse{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
		Token: token,
	}, nil
}
