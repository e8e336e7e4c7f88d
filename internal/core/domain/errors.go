package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the core wraps exactly one of them,
// or is treated as internal by the transport layer.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrRateLimited  = errors.New("too many attempts")
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username/email or password", ErrUnauthorized)
	ErrMissingToken       = fmt.Errorf("%w: no token provided", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)

	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrSectionNotFound = fmt.Errorf("section %w", ErrNotFound)
	ErrLinkNotFound    = fmt.Errorf("link %w", ErrNotFound)

	ErrUserExists = fmt.Errorf("%w: username or email already exists", ErrConflict)

	ErrTooManyLogins = fmt.Errorf("%w: too many failed login attempts, try again later", ErrRateLimited)
)

// ErrDuplicateID is returned by Tree when an id is already in use. It is an
// internal failure: ids are generated server side.
var ErrDuplicateID = errors.New("duplicate id in tree")

// ValidationError describes malformed or missing input. Its message is safe
// to return to clients.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Is makes errors.Is(err, ErrValidation) hold for every ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid returns a ValidationError with the given reason.
func Invalid(reason string) error {
	return &ValidationError{Reason: reason}
}
