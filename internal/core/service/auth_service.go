package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/linkvault/linkvault/internal/core/domain"
	"github.com/linkvault/linkvault/internal/core/ports"
	"github.com/linkvault/linkvault/internal/pkg/metrics"
)

// AuthService implements registration, login, token validation and profile
// management.
type AuthService struct {
	repo       ports.UserRepository
	tokens     ports.TokenManager
	throttle   ports.LoginThrottle
	bcryptCost int
	log        zerolog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

// AuthOption configures an AuthService.
type AuthOption func(*AuthService)

// WithLoginThrottle enables failed-login throttling.
func WithLoginThrottle(t ports.LoginThrottle) AuthOption {
	return func(s *AuthService) { s.throttle = t }
}

// WithBcryptCost overrides bcrypt.DefaultCost. Out-of-range values are ignored.
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.bcryptCost = cost
		}
	}
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenManager, log zerolog.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
		log:        log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.UserResult, error) {
	email := normalizeLogin(in.Email)
	username := normalizeLogin(in.Username)
	if email == "" || username == "" || in.Password == "" {
		return nil, domain.Invalid("email, username and password are required")
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Sections:     []domain.Section{},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	metrics.UsersRegisteredTotal.Inc()
	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")

	return &ports.UserResult{
		ID:        created.ID,
		Username:  created.Username,
		Email:     created.Email,
		CreatedAt: created.CreatedAt,
	}, nil
}

// Authenticate looks the user up by username or email and returns a signed
// token. Unknown users and wrong passwords yield the same error.
func (s *AuthService) Authenticate(ctx context.Context, usernameOrEmail, password string) (string, error) {
	login := normalizeLogin(usernameOrEmail)
	if login == "" || password == "" {
		return "", domain.Invalid("usernameOrEmail and password are required")
	}

	if s.blocked(ctx, login) {
		metrics.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
		return "", domain.ErrTooManyLogins
	}

	user, err := s.repo.FindByLogin(ctx, login)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.failed(ctx, login)
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.failed(ctx, login)
		return "", domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, login); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return token, nil
}

// ValidateToken returns the user id bound to token.
func (s *AuthService) ValidateToken(_ context.Context, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", domain.ErrMissingToken
	}
	userID, err := s.tokens.Parse(token)
	if err != nil {
		s.log.Debug().Err(err).Msg("token rejected")
		return "", domain.ErrInvalidToken
	}
	return userID, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*ports.Profile, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ports.Profile{Username: user.Username, Email: user.Email}, nil
}

// UpdateProfile applies the non-empty fields of changes. The current password
// is not required.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, changes ports.ProfileChanges) error {
	update := domain.ProfileUpdate{
		Username: normalizeLogin(changes.Username),
		Email:    normalizeLogin(changes.Email),
	}
	if changes.Password != "" {
		hash, err := s.hash(changes.Password)
		if err != nil {
			return err
		}
		update.PasswordHash = hash
	}

	if update.Empty() {
		_, err := s.repo.FindByID(ctx, userID)
		return err
	}

	if err := s.repo.UpdateProfile(ctx, userID, update); err != nil {
		return err
	}
	s.log.Info().Str("user_id", userID).Msg("profile updated")
	return nil
}

func (s *AuthService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.Invalid("password must be at most 72 bytes")
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *AuthService) blocked(ctx context.Context, login string) bool {
	if s.throttle == nil {
		return false
	}
	blocked, err := s.throttle.Blocked(ctx, login)
	if err != nil {
		s.log.Warn().Err(err).Msg("login throttle check failed, allowing attempt")
		return false
	}
	return blocked
}

func (s *AuthService) failed(ctx context.Context, login string) {
	metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
	if s.throttle == nil {
		return
	}
	if err := s.throttle.Fail(ctx, login); err != nil {
		s.log.Warn().Err(err).Msg("failed to count login failure")
	}
}

// normalizeLogin lower-cases identifiers so uniqueness and lookups are
// case-insensitive.
func normalizeLogin(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
