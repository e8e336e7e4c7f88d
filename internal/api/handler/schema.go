package handler

import (
	"time"

	"github.com/linkvault/linkvault/internal/core/domain"
	"github.com/linkvault/linkvault/internal/core/ports"
)

// ── Requests ─────────────────────────────────────────────────────────────────

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Username string `json:"username" validate:"omitempty,max=64"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password"`
}

type sectionRequest struct {
	Name string `json:"name" validate:"required"`
}

type addLinkRequest struct {
	SectionID string `json:"sectionId" validate:"required"`
	Title     string `json:"title" validate:"required"`
	URL       string `json:"url" validate:"required"`
	Logo      string `json:"logo"`
}

type updateLinkRequest struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"required"`
}

// ── Responses ────────────────────────────────────────────────────────────────
// Sections, links and users carry their id twice: "_id" is what the web
// client reads.

type messageResponse struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type userResponse struct {
	ID        string    `json:"id"`
	LegacyID  string    `json:"_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type profileResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type linkResponse struct {
	ID       string `json:"id"`
	LegacyID string `json:"_id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Logo     string `json:"logo,omitempty"`
}

type sectionResponse struct {
	ID       string         `json:"id"`
	LegacyID string         `json:"_id"`
	Name     string         `json:"name"`
	Links    []linkResponse `json:"links"`
}

type sectionsResponse struct {
	Sections []sectionResponse `json:"sections"`
}

type sectionMessageResponse struct {
	Message string          `json:"message"`
	Section sectionResponse `json:"section"`
}

type linkMessageResponse struct {
	Message string       `json:"message"`
	Link    linkResponse `json:"link"`
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func toUserResponse(u *ports.UserResult) userResponse {
	return userResponse{
		ID:        u.ID,
		LegacyID:  u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func toLinkResponse(l domain.Link) linkResponse {
	return linkResponse{ID: l.ID, LegacyID: l.ID, Title: l.Title, URL: l.URL, Logo: l.Logo}
}

func toLinkResponses(links []domain.Link) []linkResponse {
	out := make([]linkResponse, len(links))
	for i, l := range links {
		out[i] = toLinkResponse(l)
	}
	return out
}

func toSectionResponse(s domain.Section) sectionResponse {
	return sectionResponse{ID: s.ID, LegacyID: s.ID, Name: s.Name, Links: toLinkResponses(s.Links)}
}

func toSectionResponses(sections []domain.Section) []sectionResponse {
	out := make([]sectionResponse, len(sections))
	for i, s := range sections {
		out[i] = toSectionResponse(s)
	}
	return out
}
