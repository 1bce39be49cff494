package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/aktywni/backend/internal/models"
	"github.com/aktywni/backend/internal/repositories"
	"go.uber.org/zap"
)

// resetTokenBytes is the entropy of a raw reset token (256 bits)
const resetTokenBytes = 32

// PasswordResetRepository is the interface that wraps the User table methods
// used by the password reset flow
type PasswordResetRepository interface {
	// Method GetByEmail retrieves a user by normalized email.
	//
	// If no user with such email exists, repositories.ErrNotFound is
	// returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method SetResetToken stores the digest and expiry of a freshly issued
	// reset token, overwriting any earlier outstanding grant.
	SetResetToken(ctx context.Context, userID int, tokenHash string, expiresAt time.Time) error
	// Method GetByResetTokenHash retrieves the user holding an outstanding
	// grant with the given digest, together with the grant.
	//
	// If no grant matches, repositories.ErrNotFound is returned.
	GetByResetTokenHash(ctx context.Context, tokenHash string) (*models.User, *models.ResetGrant, error)
	// Method RedeemReset rewrites the credential and clears the grant in a
	// single write, making the token strictly single-use.
	RedeemReset(ctx context.Context, userID int, credential string) error
}

// ResetMailer delivers the reset link to the account owner
type ResetMailer interface {
	// Method SendResetLink sends the reset link to the given address.
	SendResetLink(to, link string) error
}

// passwordResetService implements the password reset flow
type passwordResetService struct {
	userRepo      PasswordResetRepository
	mailer        ResetMailer
	logger        *zap.Logger
	tokenTTL      time.Duration
	minPasswordLn int
	publicBaseURL string
	now           func() time.Time
}

// NewPasswordResetService creates a new password reset service. The mailer
// may be nil when no delivery channel is configured; the link is then only
// logged at debug level.
func NewPasswordResetService(
	userRepo PasswordResetRepository,
	mailer ResetMailer,
	logger *zap.Logger,
	tokenTTL time.Duration,
	minPasswordLength int,
	publicBaseURL string,
) *passwordResetService {
	return &passwordResetService{
		userRepo:      userRepo,
		mailer:        mailer,
		logger:        logger,
		tokenTTL:      tokenTTL,
		minPasswordLn: minPasswordLength,
		publicBaseURL: publicBaseURL,
		now:           time.Now,
	}
}

// Forgot issues a reset token for the account behind the email, if one
// exists. It returns the raw token for the matched case and "" otherwise.
//
// Callers must not let the two cases differ in response shape or status: the
// returned token is only surfaced when the debug echo flag is on. Store and
// mailer failures degrade to the unmatched case instead of erroring, so the
// response can never be used to probe which emails have accounts.
func (s *passwordResetService) Forgot(ctx context.Context, email string) string {
	email = NormalizeEmail(email)
	if email == "" {
		return ""
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			s.logger.Error("forgot-password lookup failed", zap.Error(err))
		}
		return ""
	}

	rawToken, tokenHash, err := generateResetToken()
	if err != nil {
		s.logger.Error("failed to generate reset token", zap.Error(err))
		return ""
	}

	expiresAt := s.now().Add(s.tokenTTL)
	if err := s.userRepo.SetResetToken(ctx, user.ID, tokenHash, expiresAt); err != nil {
		s.logger.Error("failed to store reset token", zap.Int("userId", user.ID), zap.Error(err))
		return ""
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.publicBaseURL, rawToken)
	if s.mailer != nil {
		if err := s.mailer.SendResetLink(user.Email, link); err != nil {
			// The grant is already stored and stays valid; delivery can be
			// retried by requesting a new token.
			s.logger.Error("failed to send reset link", zap.Int("userId", user.ID), zap.Error(err))
		}
	} else {
		s.logger.Debug("reset link issued", zap.String("link", link))
	}

	return rawToken
}

// Reset redeems a token and replaces the account credential with the hashed
// form of newPassword
func (s *passwordResetService) Reset(ctx context.Context, token, newPassword string) error {
	// Reject clearly invalid input before any lookup
	if token == "" || len(newPassword) < s.minPasswordLn {
		return fmt.Errorf("%w: token and newPassword required", ErrValidation)
	}

	user, grant, err := s.userRepo.GetByResetTokenHash(ctx, digest(token))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	// A zero expiry means the column was unreadable; treat it as expired.
	// The stale grant stays on the row until a new issue overwrites it.
	if grant.ExpiresAt.IsZero() || grant.ExpiresAt.Before(s.now()) {
		return ErrTokenExpired
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	// Credential write and grant clear happen in one statement; a replayed
	// token finds no digest to match.
	if err := s.userRepo.RedeemReset(ctx, user.ID, hash); err != nil {
		return err
	}

	return nil
}

// generateResetToken returns a fresh high-entropy raw token and its digest
func generateResetToken() (string, string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	rawToken := hex.EncodeToString(buf)
	return rawToken, digest(rawToken), nil
}

// digest is the one-way transform stored in place of the raw token
func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
