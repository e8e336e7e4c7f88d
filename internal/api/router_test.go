package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/linkvault/linkvault/internal/core/domain"
	"github.com/linkvault/linkvault/internal/core/service"
	"github.com/linkvault/linkvault/internal/infrastructure/db/mongo"
	"github.com/linkvault/linkvault/internal/infrastructure/token"
)

// memStore keeps users in memory for end-to-end router tests.
type memStore struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMemStore() *memStore { return &memStore{users: make(map[string]domain.User)} }

func (s *memStore) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.users {
		if other.Username == u.Username || other.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	c := *u
	c.ID = mongo.ObjectIDs{}.NewID()
	s.users[c.ID] = c
	return &c, nil
}

func (s *memStore) FindByLogin(_ context.Context, login string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == login || u.Email == login {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *memStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (s *memStore) UpdateProfile(_ context.Context, id string, upd domain.ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if upd.Username != "" {
		u.Username = upd.Username
	}
	if upd.Email != "" {
		u.Email = upd.Email
	}
	if upd.PasswordHash != "" {
		u.PasswordHash = upd.PasswordHash
	}
	s.users[id] = u
	return nil
}

func (s *memStore) LoadSections(ctx context.Context, userID string) ([]domain.Section, error) {
	u, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	tree, err := domain.NewTree(u.Sections)
	if err != nil {
		return nil, err
	}
	return tree.Sections(), nil
}

func (s *memStore) SaveSections(_ context.Context, userID string, sections []domain.Section) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Sections = sections
	s.users[userID] = u
	return nil
}

type testServer struct {
	t *testing.T
	e *echo.Echo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := newMemStore()
	log := zerolog.Nop()
	auth := service.NewAuthService(store, token.NewJWT("test-secret", time.Hour), log, service.WithBcryptCost(bcrypt.MinCost))
	collection := service.NewCollectionService(store, mongo.ObjectIDs{}, nil, log)

	e := NewRouter(Deps{
		Auth:        auth,
		Collection:  collection,
		Health:      map[string]func(context.Context) error{"mongodb": func(context.Context) error { return nil }},
		CORSOrigins: []string{"http://localhost:3000"},
		Log:         log,
		Metrics:     prometheus.NewRegistry(),
	})
	return &testServer{t: t, e: e}
}

func (s *testServer) do(method, path, tok, body string) (int, []byte) {
	s.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if tok != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes()
}

func (s *testServer) login(username, password string) string {
	s.t.Helper()
	code, body := s.do(http.MethodPost, "/api/login", "", `{"usernameOrEmail":"`+username+`","password":"`+password+`"}`)
	require.Equal(s.t, http.StatusOK, code, string(body))
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(body, &resp))
	require.NotEmpty(s.t, resp.Token)
	return resp.Token
}

type sectionJSON struct {
	ID       string     `json:"id"`
	LegacyID string     `json:"_id"`
	Name     string     `json:"name"`
	Links    []linkJSON `json:"links"`
}

type linkJSON struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

func TestRouter_EndToEnd(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(http.MethodPost, "/signup", "", `{"email":"a@x.com","username":"alice","password":"pw1"}`)
	require.Equal(t, http.StatusCreated, code, string(body))
	assert.NotContains(t, string(body), "pw1")
	assert.NotContains(t, string(body), "password")

	tok := s.login("alice", "pw1")

	code, body = s.do(http.MethodPost, "/api/add-section", tok, `{"name":"Work"}`)
	require.Equal(t, http.StatusCreated, code, string(body))
	var added struct {
		Message string      `json:"message"`
		Section sectionJSON `json:"section"`
	}
	require.NoError(t, json.Unmarshal(body, &added))
	assert.Equal(t, "Section added successfully", added.Message)
	assert.Equal(t, "Work", added.Section.Name)
	assert.Equal(t, added.Section.ID, added.Section.LegacyID)
	require.NotNil(t, added.Section.Links)
	assert.Empty(t, added.Section.Links)
	s1 := added.Section.ID

	code, body = s.do(http.MethodPost, "/api/add-link", tok, `{"sectionId":"`+s1+`","title":"Docs","url":"https://docs.example.com"}`)
	require.Equal(t, http.StatusCreated, code, string(body))
	var addedLink struct {
		Link linkJSON `json:"link"`
	}
	require.NoError(t, json.Unmarshal(body, &addedLink))

	code, body = s.do(http.MethodGet, "/api/search?q=doc", tok, "")
	require.Equal(t, http.StatusOK, code, string(body))
	var results []linkJSON
	require.NoError(t, json.Unmarshal(body, &results))
	assert.Equal(t, []linkJSON{{ID: addedLink.Link.ID, Title: "Docs", URL: "https://docs.example.com"}}, results)
}

func TestRouter_SearchMatchesTitleOnly(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/api/signup", "", `{"email":"b@x.com","username":"bob","password":"pw"}`)
	tok := s.login("b@x.com", "pw")

	_, body := s.do(http.MethodPost, "/api/add-section", tok, `{"name":"Misc"}`)
	var added struct {
		Section sectionJSON `json:"section"`
	}
	require.NoError(t, json.Unmarshal(body, &added))
	code, _ := s.do(http.MethodPost, "/api/add-link", tok, `{"sectionId":"`+added.Section.ID+`","title":"Example","url":"https://example.com"}`)
	require.Equal(t, http.StatusCreated, code)

	_, body = s.do(http.MethodGet, "/api/search?q=exam", tok, "")
	var results []linkJSON
	require.NoError(t, json.Unmarshal(body, &results))
	assert.Len(t, results, 1)

	_, body = s.do(http.MethodGet, "/api/search?q=zzz", tok, "")
	assert.JSONEq(t, `[]`, string(body))

	code, _ = s.do(http.MethodGet, "/api/search?q=", tok, "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRouter_SectionAndLinkLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/signup", "", `{"email":"c@x.com","username":"carol","password":"pw"}`)
	tok := s.login("carol", "pw")

	addSection := func(name string) string {
		_, body := s.do(http.MethodPost, "/api/add-section", tok, `{"name":"`+name+`"}`)
		var resp struct {
			Section sectionJSON `json:"section"`
		}
		require.NoError(t, json.Unmarshal(body, &resp))
		return resp.Section.ID
	}
	addLink := func(sectionID, title string) string {
		_, body := s.do(http.MethodPost, "/api/add-link", tok, `{"sectionId":"`+sectionID+`","title":"`+title+`","url":"https://`+title+`"}`)
		var resp struct {
			Link linkJSON `json:"link"`
		}
		require.NoError(t, json.Unmarshal(body, &resp))
		return resp.Link.ID
	}
	list := func() []sectionJSON {
		code, body := s.do(http.MethodGet, "/api/sections", tok, "")
		require.Equal(t, http.StatusOK, code)
		var resp struct {
			Sections []sectionJSON `json:"sections"`
		}
		require.NoError(t, json.Unmarshal(body, &resp))
		return resp.Sections
	}

	work := addSection("Work")
	home := addSection("Home")
	a := addLink(work, "a")
	b := addLink(home, "b")

	sections := list()
	require.Len(t, sections, 2)
	require.Len(t, sections[0].Links, 1)
	require.Len(t, sections[1].Links, 1)

	code, body := s.do(http.MethodPut, "/api/update-link/"+b, tok, `{"title":"B2","url":"https://b2"}`)
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Contains(t, string(body), "Link updated successfully")
	sections = list()
	assert.Equal(t, "B2", sections[1].Links[0].Title)
	assert.Equal(t, "a", sections[0].Links[0].Title)

	code, _ = s.do(http.MethodPut, "/api/update-section/"+work, tok, `{"name":"Office"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Office", list()[0].Name)

	code, _ = s.do(http.MethodDelete, "/api/delete-link/not-an-id", tok, "")
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = s.do(http.MethodDelete, "/api/delete-link/"+mongo.ObjectIDs{}.NewID(), tok, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(http.MethodDelete, "/api/delete-section/"+work, tok, "")
	require.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodDelete, "/api/delete-link/"+a, tok, "")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = s.do(http.MethodDelete, "/api/delete-section/"+work, tok, "")
	assert.Equal(t, http.StatusNotFound, code)

	sections = list()
	require.Len(t, sections, 1)
	assert.Equal(t, "Home", sections[0].Name)
}

func TestRouter_Auth(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/signup", "", `{"email":"d@x.com","username":"dave","password":"pw"}`)

	code, body := s.do(http.MethodGet, "/api/sections", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.JSONEq(t, `{"message":"No token provided"}`, string(body))

	code, body = s.do(http.MethodGet, "/api/sections", "forged", "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.JSONEq(t, `{"message":"Invalid or expired token"}`, string(body))

	code, _ = s.do(http.MethodPost, "/api/login", "", `{"usernameOrEmail":"dave","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = s.do(http.MethodPost, "/api/login", "", `{"usernameOrEmail":"dave"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPost, "/signup", "", `{"email":"other@x.com","username":"DAVE","password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRouter_Profile(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/signup", "", `{"email":"e@x.com","username":"erin","password":"pw"}`)
	tok := s.login("erin", "pw")

	code, body := s.do(http.MethodGet, "/api/profile", tok, "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"username":"erin","email":"e@x.com"}`, string(body))

	code, body = s.do(http.MethodPut, "/api/update-profile", tok, `{"password":"pw2"}`)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"message":"Profile updated successfully"}`, string(body))

	s.login("erin", "pw2")
}

func TestRouter_Operations(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, code)
	code, body := s.do(http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, code, string(body))
	code, _ = s.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.NotEmpty(t, resp.Message)
}
