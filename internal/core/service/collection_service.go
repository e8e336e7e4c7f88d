package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/linkvault/linkvault/internal/core/domain"
	"github.com/linkvault/linkvault/internal/core/ports"
	"github.com/linkvault/linkvault/internal/pkg/metrics"
)

// CollectionService manages a user's sections and links. Every mutation loads
// the user's sections, applies the change to a domain.Tree and writes the
// whole tree back in one document update.
type CollectionService struct {
	repo     ports.SectionRepository
	ids      ports.IDGenerator
	activity ports.ActivityRecorder
	log      zerolog.Logger
}

var _ ports.CollectionService = (*CollectionService)(nil)

type discardActivity struct{}

func (discardActivity) Record(domain.Activity) {}

func NewCollectionService(
	repo ports.SectionRepository,
	ids ports.IDGenerator,
	activity ports.ActivityRecorder,
	log zerolog.Logger,
) *CollectionService {
	if activity == nil {
		activity = discardActivity{}
	}
	return &CollectionService{repo: repo, ids: ids, activity: activity, log: log}
}

func (s *CollectionService) ListSections(ctx context.Context, userID string) ([]domain.Section, error) {
	tree, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return tree.Sections(), nil
}

func (s *CollectionService) AddSection(ctx context.Context, userID, name string) (domain.Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Section{}, domain.Invalid("invalid section name")
	}

	tree, err := s.load(ctx, userID)
	if err != nil {
		return domain.Section{}, err
	}
	section, err := tree.AddSection(s.ids.NewID(), name)
	if err != nil {
		return domain.Section{}, err
	}
	if err := s.save(ctx, userID, tree); err != nil {
		return domain.Section{}, err
	}

	s.record(userID, domain.ActionSectionAdd, section.ID)
	return section, nil
}

func (s *CollectionService) RenameSection(ctx context.Context, userID, sectionID, name string) (domain.Section, error) {
	name = strings.TrimSpace(name)
	if sectionID == "" || name == "" {
		return domain.Section{}, domain.Invalid("invalid section id or name")
	}

	tree, err := s.load(ctx, userID)
	if err != nil {
		return domain.Section{}, err
	}
	section, err := tree.RenameSection(sectionID, name)
	if err != nil {
		return domain.Section{}, err
	}
	if err := s.save(ctx, userID, tree); err != nil {
		return domain.Section{}, err
	}

	s.record(userID, domain.ActionSectionRename, sectionID)
	return section, nil
}

func (s *CollectionService) DeleteSection(ctx context.Context, userID, sectionID string) error {
	if sectionID == "" {
		return domain.Invalid("invalid section id")
	}

	tree, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if err := tree.RemoveSection(sectionID); err != nil {
		return err
	}
	if err := s.save(ctx, userID, tree); err != nil {
		return err
	}

	s.record(userID, domain.ActionSectionDelete, sectionID)
	return nil
}

func (s *CollectionService) AddLink(ctx context.Context, userID string, in ports.AddLinkInput) (domain.Link, error) {
	title := strings.TrimSpace(in.Title)
	url := strings.TrimSpace(in.URL)
	if in.SectionID == "" || title == "" || url == "" {
		return domain.Link{}, domain.Invalid("missing required fields")
	}

	tree, err := s.load(ctx, userID)
	if err != nil {
		return domain.Link{}, err
	}
	link, err := tree.AddLink(in.SectionID, domain.Link{
		ID:    s.ids.NewID(),
		Title: title,
		URL:   url,
		Logo:  strings.TrimSpace(in.Logo),
	})
	if err != nil {
		return domain.Link{}, err
	}
	if err := s.save(ctx, userID, tree); err != nil {
		return domain.Link{}, err
	}

	s.record(userID, domain.ActionLinkAdd, link.ID)
	return link, nil
}

func (s *CollectionService) UpdateLink(ctx context.Context, userID, linkID, title, url string) (domain.Link, error) {
	title = strings.TrimSpace(title)
	url = strings.TrimSpace(url)
	if linkID == "" || title == "" || url == "" {
		return domain.Link{}, domain.Invalid("missing required fields")
	}
	if !s.ids.Valid(linkID) {
		return domain.Link{}, domain.Invalid("invalid link id format")
	}

	tree, err := s.load(ctx, userID)
	if err != nil {
		return domain.Link{}, err
	}
	link, err := tree.UpdateLink(linkID, title, url)
	if err != nil {
		return domain.Link{}, err
	}
	if err := s.save(ctx, userID, tree); err != nil {
		return domain.Link{}, err
	}

	s.record(userID, domain.ActionLinkUpdate, linkID)
	return link, nil
}

func (s *CollectionService) DeleteLink(ctx context.Context, userID, linkID string) error {
	if linkID == "" {
		return domain.Invalid("missing link id")
	}
	if !s.ids.Valid(linkID) {
		return domain.Invalid("invalid link id format")
	}

	tree, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if err := tree.RemoveLink(linkID); err != nil {
		return err
	}
	if err := s.save(ctx, userID, tree); err != nil {
		return err
	}

	s.record(userID, domain.ActionLinkDelete, linkID)
	return nil
}

// Search matches query against link titles only, ignoring case.
func (s *CollectionService) Search(ctx context.Context, userID, query string) ([]domain.Link, error) {
	if query == "" {
		return nil, domain.Invalid("search query is required")
	}

	tree, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	results := tree.Search(query)
	metrics.SearchResults.Observe(float64(len(results)))
	return results, nil
}

func (s *CollectionService) load(ctx context.Context, userID string) (*domain.Tree, error) {
	sections, err := s.repo.LoadSections(ctx, userID)
	if err != nil {
		return nil, err
	}
	tree, err := domain.NewTree(sections)
	if err != nil {
		return nil, fmt.Errorf("load tree of user %s: %w", userID, err)
	}
	return tree, nil
}

func (s *CollectionService) save(ctx context.Context, userID string, tree *domain.Tree) error {
	start := time.Now()
	err := s.repo.SaveSections(ctx, userID, tree.Sections())
	metrics.StoreWriteDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("save sections: %w", err)
	}
	return nil
}

func (s *CollectionService) record(userID string, action domain.ActivityAction, targetID string) {
	metrics.CollectionMutationsTotal.WithLabelValues(string(action)).Inc()
	s.log.Debug().Str("user_id", userID).Str("action", string(action)).Str("target_id", targetID).Msg("collection changed")
	s.activity.Record(domain.Activity{
		ID:       uuid.NewString(),
		UserID:   userID,
		Action:   action,
		TargetID: targetID,
		At:       time.Now().UTC(),
	})
}
