// Package errs defines the error taxonomy shared by services, repositories
// and HTTP handlers. Repositories return ErrNotFound both for absent records
// and for records owned by another user, so callers cannot distinguish the
// two cases and enumerate foreign tenants.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an entity is absent or not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrUnauthenticated is returned when no valid session resolves the caller.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrSessionExpired is returned when a session token exists but has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrAlreadyExists is returned on unique-constraint conflicts (email, username,
	// budget category).
	ErrAlreadyExists = errors.New("already exists")
)

// QuotaExceededError reports that the user's package does not allow another
// instance of a counted resource. Resource and Limit are carried so the UI
// can explain which limit was hit.
type QuotaExceededError struct {
	Resource string
	Limit    int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded for %s (limit %d)", e.Resource, e.Limit)
}

// FeatureNotAvailableError reports that an action requires a feature missing
// from the user's package.
type FeatureNotAvailableError struct {
	Feature string
}

func (e *FeatureNotAvailableError) Error() string {
	return fmt.Sprintf("feature %s is not available on the current plan", e.Feature)
}

// ValidationError reports malformed input detected by business rules, for
// example a debt payment exceeding the outstanding amount.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ExternalServiceError wraps a failure of an outbound collaborator (SMTP,
// broker). The core reports it and never retries on its own.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("external service %s failed: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }
