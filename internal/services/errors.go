// Package services implements the business logic between the HTTP handlers
// and the repositories.
package services

import "errors"

// Sentinel errors returned by the services. Handlers map these onto HTTP
// statuses; wrapped messages carry the user-facing detail for validation
// failures.
var (
	// ErrValidation marks recoverable input errors that are safe to reveal
	ErrValidation = errors.New("validation error")
	// ErrEmailExists is returned when a registration collides with an
	// existing account, whether caught by the fast-path check or by the
	// store's uniqueness constraint.
	ErrEmailExists = errors.New("email already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so the response never discloses which half failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned when no outstanding reset grant matches
	// the supplied token's digest.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when the matching grant's window has
	// already closed.
	ErrTokenExpired = errors.New("token expired")
	// ErrActivityNotFound is returned when an activity does not exist
	ErrActivityNotFound = errors.New("activity not found")
	// ErrTrackNotFound is returned when an activity has no recorded track
	ErrTrackNotFound = errors.New("track not found")
)
