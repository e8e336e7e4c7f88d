package ports

import (
	"context"

	"github.com/linkvault/linkvault/internal/core/domain"
)

// AddLinkInput carries the fields of a new link.
type AddLinkInput struct {
	SectionID string
	Title     string
	URL       string
	Logo      string
}

// CollectionService exposes the operations over a user's section tree.
type CollectionService interface {
	ListSections(ctx context.Context, userID string) ([]domain.Section, error)
	AddSection(ctx context.Context, userID, name string) (domain.Section, error)
	RenameSection(ctx context.Context, userID, sectionID, name string) (domain.Section, error)
	DeleteSection(ctx context.Context, userID, sectionID string) error
	AddLink(ctx context.Context, userID string, in AddLinkInput) (domain.Link, error)
	UpdateLink(ctx context.Context, userID, linkID, title, url string) (domain.Link, error)
	DeleteLink(ctx context.Context, userID, linkID string) error
	Search(ctx context.Context, userID, query string) ([]domain.Link, error)
}

// IDGenerator issues ids for sections and links and recognises well-formed
// ones.
type IDGenerator interface {
	NewID() string
	Valid(id string) bool
}

// ActivityRecorder accepts audit records for asynchronous persistence.
type ActivityRecorder interface {
	Record(activity domain.Activity)
}
