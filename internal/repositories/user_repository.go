package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aktywni/backend/internal/models"
)

// userRepository implements the user data access methods
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{
		db: db,
	}
}

// Create inserts a new user into the database. The credential string is the
// already-encoded stored form (hashed for every row created through the API).
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, password, role)
		VALUES (?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, user.Email, user.Credential.Value, string(user.Role))
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = int(id)
	return nil
}

// GetByEmail retrieves a user by normalized email. The raw credential column
// is classified into its tagged form here, once, so nothing downstream
// re-parses it.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, password, role
		FROM users
		WHERE email = ?
		LIMIT 1
	`

	user := &models.User{}
	var rawCredential string
	var role string
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&rawCredential,
		&role,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	user.Credential = models.ParseCredential(rawCredential)
	user.Role = models.Role(role)
	return user, nil
}

// ExistsByEmail checks if a user exists with the given email
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM users WHERE email = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// UpdateCredential rewrites the stored credential for a user. Used by the
// opportunistic plaintext-to-hash upgrade on login.
func (r *userRepository) UpdateCredential(ctx context.Context, userID int, credential string) error {
	query := `UPDATE users SET password = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, credential, userID); err != nil {
		return fmt.Errorf("failed to update credential: %w", err)
	}

	return nil
}

// SetResetToken stores the digest and expiry of a freshly issued reset token,
// overwriting any earlier outstanding grant for the user.
func (r *userRepository) SetResetToken(ctx context.Context, userID int, tokenHash string, expiresAt time.Time) error {
	query := `UPDATE users SET reset_token_hash = ?, reset_token_expires = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, tokenHash, expiresAt, userID); err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}

	return nil
}

// GetByResetTokenHash retrieves the user holding the given reset-token digest
// together with the grant's expiry.
func (r *userRepository) GetByResetTokenHash(ctx context.Context, tokenHash string) (*models.User, *models.ResetGrant, error) {
	query := `
		SELECT id, email, password, role, reset_token_expires
		FROM users
		WHERE reset_token_hash = ?
		LIMIT 1
	`

	user := &models.User{}
	var rawCredential string
	var role string
	var expiresAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&user.ID,
		&user.Email,
		&rawCredential,
		&role,
		&expiresAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user by reset token: %w", err)
	}

	user.Credential = models.ParseCredential(rawCredential)
	user.Role = models.Role(role)

	grant := &models.ResetGrant{TokenHash: tokenHash}
	if expiresAt.Valid {
		grant.ExpiresAt = expiresAt.Time
	}
	return user, grant, nil
}

// RedeemReset rewrites the credential and clears the reset-token columns in a
// single statement, so a redeemed token can never match again.
func (r *userRepository) RedeemReset(ctx context.Context, userID int, credential string) error {
	query := `
		UPDATE users
		SET password = ?, reset_token_hash = NULL, reset_token_expires = NULL
		WHERE id = ?
	`

	if _, err := r.db.ExecContext(ctx, query, credential, userID); err != nil {
		return fmt.Errorf("failed to redeem reset token: %w", err)
	}

	return nil
}

// GetAll retrieves all users for the admin listing, ordered by ID
func (r *userRepository) GetAll(ctx context.Context) ([]models.AdminUserItem, error) {
	query := `
		SELECT id, email, role, created_at
		FROM users
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.AdminUserItem
	for rows.Next() {
		var user models.AdminUserItem
		var role string
		if err := rows.Scan(&user.ID, &user.Email, &role, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user.Role = models.Role(role)
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

// CountAll returns the total number of users
func (r *userRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
