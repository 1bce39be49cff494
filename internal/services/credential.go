package services

import (
	"crypto/subtle"
	"fmt"

	"github.com/aktywni/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword produces the stored form of a password. Registration and reset
// redemption always go through here; plaintext is never written for new
// credentials.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyCredential checks a password attempt against a decoded stored
// credential.
//
// For a bcrypt credential the scheme's own constant-time comparison decides
// the match; any primitive error counts as a mismatch.
//
// For a legacy plaintext credential a matching attempt additionally yields a
// fresh bcrypt hash as "upgraded". The caller persists it, replacing the
// plaintext value, so the credential store migrates to hashed form through
// ordinary login traffic. After the upgrade the same login takes the bcrypt
// branch and matches the same way.
func VerifyCredential(attempt string, cred models.Credential) (matched bool, upgraded string) {
	switch cred.Scheme {
	case models.SchemeBcrypt:
		return bcrypt.CompareHashAndPassword([]byte(cred.Value), []byte(attempt)) == nil, ""
	case models.SchemePlaintext:
		if subtle.ConstantTimeCompare([]byte(attempt), []byte(cred.Value)) != 1 {
			return false, ""
		}
		hash, err := HashPassword(attempt)
		if err != nil {
			// The match stands; the row stays legacy until a later login
			// manages to hash.
			return true, ""
		}
		return true, hash
	}
	return false, ""
}
