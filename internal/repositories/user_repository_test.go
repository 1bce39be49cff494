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
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupUserRepository creates a user repository with a mock database
func setupUserRepository(t *testing.T) (*userRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewUserRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestNewUserRepository(t *testing.T) {
	db := &sql.DB{}

	repo := NewUserRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestUserRepository_Create(t *testing.T) {
	query := regexp.QuoteMeta(`INSERT INTO users (email, password, role) VALUES (?, ?, ?)`)

	t.Run("success", func(t *testing.T) {
		repo, mock, cleanup := setupUserRepository(t)
		defer cleanup()

		mock.ExpectExec(query).
			WithArgs("test@example.com", "$2a$10$hash", "user").
			WillReturnResult(sqlmock.NewResult(5, 1))

		user := &models.User{
			Email:      "test@example.com",
			Credential: models.Credential{Scheme: models.SchemeBcrypt, Value: "$2a$10$hash"},
			Role:       models.RoleUser,
		}

		err := repo.Create(context.Background(), user)

		require.NoError(t, err)
		assert.Equal(t, 5, user.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo, mock, cleanup := setupUserRepository(t)
		defer cleanup()

		mock.ExpectExec(query).
			WithArgs("test@example.com", "$2a$10$hash", "user").
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

		user := &models.User{
			Email:      "test@example.com",
			Credential: models.Credential{Scheme: models.SchemeBcrypt, Value: "$2a$10$hash"},
			Role:       models.RoleUser,
		}

		err := repo.Create(context.Background(), user)

		require.Error(t, err)
		assert.True(t, IsDuplicateEntry(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT id, email, password, role FROM users WHERE email = ? LIMIT 1`)

	t.Run("hashed credential is classified as bcrypt", func(t *testing.T) {
		repo, mock, cleanup := setupUserRepository(t)
		defer cleanup()

		rows := sqlmock.NewRows([]string{"id", "email", "password", "role"}).
			AddRow(1, "test@example.com", "$2a$10$N9qo8uLOickgx2ZMRZoMye", "user")
		mock.ExpectQuery(query).WithArgs("test@example.com").WillReturnRows(rows)

		user, err := repo.GetByEmail(context.Background(), "test@example.com")

		require.NoError(t, err)
		assert.Equal(t, 1, user.ID)
		assert.Equal(t, models.SchemeBcrypt, user.Credential.Scheme)
		assert.Equal(t, models.RoleUser, user.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("legacy row is classified as plaintext", func(t *testing.T) {
		repo, mock, cleanup := setupUserRepository(t)
		defer cleanup()

		rows := sqlmock.NewRows([]string{"id", "email", "password", "role"}).
			AddRow(2, "legacy@example.com", "hunter2", "admin")
		mock.ExpectQuery(query).WithArgs("legacy@example.com").WillReturnRows(rows)

		user, err := repo.GetByEmail(context.Background(), "legacy@example.com")

		require.NoError(t, err)
		assert.Equal(t, models.SchemePlaintext, user.Credential.Scheme)
		assert.Equal(t, "hunter2", user.Credential.Value)
		assert.Equal(t, models.RoleAdmin, user.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock, cleanup := setupUserRepository(t)
		defer cleanup()

		mock.ExpectQuery(query).WithArgs("nobody@example.com").WillReturnError(sql.ErrNoRows)

		user, err := repo.GetByEmail(context.Background(), "nobody@example.com")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, user)
	})

	t.Run("database error", func(t *testing.T) {
		repo, mock, cleanup := setupUserRepository(t)
		defer cleanup()

		mock.ExpectQuery(query).WithArgs("test@example.com").WillReturnError(errors.New("database error"))

		user, err := repo.GetByEmail(context.Background(), "test@example.com")

		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.Nil(t, user)
	})
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT EXISTS(SELECT * FROM users WHERE email = ?)`)

	tests := []struct {
		name     string
		result   bool
		expected bool
	}{
		{name: "exists", result: true, expected: true},
		{name: "does not exist", result: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserRepository(t)
			defer cleanup()

			rows := sqlmock.NewRows([]string{"exists"}).AddRow(tt.result)
			mock.ExpectQuery(query).WithArgs("test@example.com").WillReturnRows(rows)

			exists, err := repo.ExistsByEmail(context.Background(), "test@example.com")

			require.NoError(t, err)
			assert.Equal(t, tt.expected, exists)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_UpdateCredential(t *testing.T) {
	repo, mock, cleanup := setupUserRepository(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET password = ? WHERE id = ?`)).
		WithArgs("$2a$10$newhash", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateCredential(context.Background(), 3, "$2a$10$newhash")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetResetToken(t *testing.T) {
	repo, mock, cleanup := setupUserRepository(t)
	defer cleanup()

	expiresAt := time.Date(2025, 6, 1, 12, 15, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET reset_token_hash = ?, reset_token_expires = ? WHERE id = ?`)).
		WithArgs("digest", expiresAt, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetResetToken(context.Background(), 5, "digest", expiresAt)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByResetTokenHash(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT id, email, password, role, reset_token_expires FROM users WHERE reset_token_hash = ? LIMIT 1`)

	t.Run("success", func(t *testing.T) {
		repo, mock, cleanup := setupUserRepository(t)
		defer cleanup()

		expiresAt := time.Date(2025, 6, 1, 12, 15, 0, 0, time.UTC)
		rows := sqlmock.NewRows([]string{"id", "email", "password", "role", "reset_token_expires"}).
			AddRow(5, "test@example.com", "$2a$10$hash", "user", expiresAt)
		mock.ExpectQuery(query).WithArgs("digest").WillReturnRows(rows)

		user, grant, err := repo.GetByResetTokenHash(context.Background(), "digest")

		require.NoError(t, err)
		assert.Equal(t, 5, user.ID)
		assert.Equal(t, "digest", grant.TokenHash)
		assert.Equal(t, expiresAt, grant.ExpiresAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("null expiry yields zero time", func(t *testing.T) {
		repo, mock, cleanup := setupUserRepository(t)
		defer cleanup()

		rows := sqlmock.NewRows([]string{"id", "email", "password", "role", "reset_token_expires"}).
			AddRow(5, "test@example.com", "$2a$10$hash", "user", nil)
		mock.ExpectQuery(query).WithArgs("digest").WillReturnRows(rows)

		_, grant, err := repo.GetByResetTokenHash(context.Background(), "digest")

		require.NoError(t, err)
		assert.True(t, grant.ExpiresAt.IsZero())
	})

	t.Run("no matching grant", func(t *testing.T) {
		repo, mock, cleanup := setupUserRepository(t)
		defer cleanup()

		mock.ExpectQuery(query).WithArgs("unknown").WillReturnError(sql.ErrNoRows)

		user, grant, err := repo.GetByResetTokenHash(context.Background(), "unknown")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, user)
		assert.Nil(t, grant)
	})
}

func TestUserRepository_RedeemReset(t *testing.T) {
	repo, mock, cleanup := setupUserRepository(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET password = ?, reset_token_hash = NULL, reset_token_expires = NULL WHERE id = ?`)).
		WithArgs("$2a$10$newhash", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RedeemReset(context.Background(), 5, "$2a$10$newhash")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetAll(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT id, email, role, created_at FROM users ORDER BY id ASC`)

	t.Run("success", func(t *testing.T) {
		repo, mock, cleanup := setupUserRepository(t)
		defer cleanup()

		createdAt := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
		rows := sqlmock.NewRows([]string{"id", "email", "role", "created_at"}).
			AddRow(1, "admin@example.com", "admin", createdAt).
			AddRow(2, "user@example.com", "user", createdAt)
		mock.ExpectQuery(query).WillReturnRows(rows)

		users, err := repo.GetAll(context.Background())

		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, models.RoleAdmin, users[0].Role)
		assert.Equal(t, "user@example.com", users[1].Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		repo, mock, cleanup := setupUserRepository(t)
		defer cleanup()

		mock.ExpectQuery(query).WillReturnError(errors.New("database error"))

		users, err := repo.GetAll(context.Background())

		assert.Error(t, err)
		assert.Nil(t, users)
	})
}

func TestUserRepository_CountAll(t *testing.T) {
	repo, mock, cleanup := setupUserRepository(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"count"}).AddRow(12)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM users`)).WillReturnRows(rows)

	count, err := repo.CountAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 12, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
