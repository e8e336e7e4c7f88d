package ports

import (
	"context"

	"github.com/linkvault/linkvault/internal/core/domain"
)

// UserRepository defines persistence for user accounts. Username and email
// are expected lower-cased by the caller.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByLogin matches login against username or email in a single query.
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) error
}

// SectionRepository reads and replaces the section tree embedded in a user
// document. SaveSections overwrites the whole array: last writer wins.
type SectionRepository interface {
	LoadSections(ctx context.Context, userID string) ([]domain.Section, error)
	SaveSections(ctx context.Context, userID string, sections []domain.Section) error
}

// ActivityRepository persists audit records.
type ActivityRepository interface {
	Insert(ctx context.Context, activity *domain.Activity) error
}
