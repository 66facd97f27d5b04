// Package service provides application-level services for managing users,
// tasks, reminders, and tags.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for
// with errors.Is(). The API layer maps them to HTTP status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the
	// one making the request. API layer should map this to HTTP 404 so the
	// existence of other users' resources is not revealed.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrInvalidCredentials indicates a login attempt with an unknown email or
	// wrong password. API layer should map this to HTTP 401 Unauthorized.
	// The same error covers both cases so responses don't reveal which
	// accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
