package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/linkvault/linkvault/internal/core/domain"
)

// memUserRepo is an in-memory UserRepository and SectionRepository.
type memUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int

	saveErr error
	saves   int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Sections = cloneSections(u.Sections)
	return &c
}

func cloneSections(in []domain.Section) []domain.Section {
	out := make([]domain.Section, len(in))
	for i, s := range in {
		out[i] = domain.Section{ID: s.ID, Name: s.Name, Links: append([]domain.Link{}, s.Links...)}
	}
	return out
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *memUserRepo) FindByLogin(_ context.Context, login string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == login || u.Email == login {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *memUserRepo) UpdateProfile(_ context.Context, id string, update domain.ProfileUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	for otherID, other := range r.users {
		if otherID == id {
			continue
		}
		if (update.Username != "" && other.Username == update.Username) ||
			(update.Email != "" && other.Email == update.Email) {
			return domain.ErrUserExists
		}
	}
	if update.Username != "" {
		u.Username = update.Username
	}
	if update.Email != "" {
		u.Email = update.Email
	}
	if update.PasswordHash != "" {
		u.PasswordHash = update.PasswordHash
	}
	return nil
}

func (r *memUserRepo) LoadSections(_ context.Context, userID string) ([]domain.Section, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneSections(u.Sections), nil
}

func (r *memUserRepo) SaveSections(_ context.Context, userID string, sections []domain.Section) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Sections = cloneSections(sections)
	r.saves++
	return nil
}

// seqIDs hands out predictable hex ids.
type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%024x", g.n)
}

func (g *seqIDs) Valid(id string) bool {
	if len(id) != 24 {
		return false
	}
	return strings.Trim(id, "0123456789abcdef") == ""
}

type recordedActivity struct {
	mu   sync.Mutex
	list []domain.Activity
}

func (r *recordedActivity) Record(a domain.Activity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, a)
}

func (r *recordedActivity) actions() []domain.ActivityAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ActivityAction, len(r.list))
	for i, a := range r.list {
		out[i] = a.Action
	}
	return out
}

// stubTokens issues "tok-<id>" and parses it back.
type stubTokens struct{}

func (stubTokens) Issue(userID string) (string, error) { return "tok-" + userID, nil }

func (stubTokens) Parse(token string) (string, error) {
	id, ok := strings.CutPrefix(token, "tok-")
	if !ok {
		return "", errors.New("bad token")
	}
	return id, nil
}

type stubThrottle struct {
	max      int
	failures map[string]int
	err      error
}

func newStubThrottle(max int) *stubThrottle {
	return &stubThrottle{max: max, failures: make(map[string]int)}
}

func (t *stubThrottle) Blocked(_ context.Context, key string) (bool, error) {
	if t.err != nil {
		return false, t.err
	}
	return t.failures[key] >= t.max, nil
}

func (t *stubThrottle) Fail(_ context.Context, key string) error {
	t.failures[key]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, key string) error {
	delete(t.failures, key)
	return nil
}
