package ports

import (
	"context"
	"time"
)

// RegisterInput carries the sign-up fields.
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// Profile is the public view of a user.
type Profile struct {
	Username string
	Email    string
}

// ProfileChanges holds the optional profile fields; empty means unchanged.
type ProfileChanges struct {
	Username string
	Email    string
	Password string
}

// AuthService owns identity and bearer credentials.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*UserResult, error)
	Authenticate(ctx context.Context, usernameOrEmail, password string) (string, error)
	ValidateToken(ctx context.Context, token string) (string, error)
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	UpdateProfile(ctx context.Context, userID string, changes ProfileChanges) error
}

// UserResult is returned after registration. It never carries the password.
type UserResult struct {
	ID        string
	Username  string
	Email     string
	CreatedAt time.Time
}

// TokenManager issues and parses signed, expiring bearer tokens bound to a
// user id.
type TokenManager interface {
	Issue(userID string) (string, error)
	Parse(token string) (string, error)
}

// LoginThrottle counts failed logins per identifier within a window.
type LoginThrottle interface {
	Blocked(ctx context.Context, key string) (bool, error)
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}
