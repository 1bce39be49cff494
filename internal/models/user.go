package models

import (
	"strings"
	"time"
)

// Role is the user's authorization level
type Role string

// Role constants
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// CredentialScheme identifies how a stored credential is encoded
type CredentialScheme int

// Credential encoding constants
const (
	// SchemePlaintext is a legacy credential stored as the raw password,
	// compared by direct equality. It only exists in rows created before
	// hashing was introduced and is replaced on the first successful login.
	SchemePlaintext CredentialScheme = iota
	// SchemeBcrypt is a salted bcrypt hash, verified by bcrypt itself.
	SchemeBcrypt
)

// bcrypt output always starts with one of these version markers
var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// Credential is the decoded form of the password column. Classification
// happens exactly once, at the repository boundary, so callers never have to
// re-parse the raw string.
type Credential struct {
	Scheme CredentialScheme
	Value  string
}

// ParseCredential classifies a stored credential string. A recognized bcrypt
// prefix means hashed; anything else is a legacy plaintext password.
func ParseCredential(raw string) Credential {
	for _, prefix := range bcryptPrefixes {
		if strings.HasPrefix(raw, prefix) {
			return Credential{Scheme: SchemeBcrypt, Value: raw}
		}
	}
	return Credential{Scheme: SchemePlaintext, Value: raw}
}

// User represents a user in the system
type User struct {
	ID         int        `json:"id"`
	Email      string     `json:"email"`
	Credential Credential `json:"-"` // Never serialize credential material
	Role       Role       `json:"role"`
	CreatedAt  time.Time  `json:"created_at,omitempty"`
}

// ResetGrant is the reset-token state of a user row. Both fields are set or
// both are empty; the raw token itself is never stored, only its digest.
type ResetGrant struct {
	TokenHash string
	ExpiresAt time.Time
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Token string `json:"token"`
}

// ForgotPasswordRequest represents a forgot-password request
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest represents a reset-password request
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// AdminUserItem is a user row as listed on the admin surface
type AdminUserItem struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
