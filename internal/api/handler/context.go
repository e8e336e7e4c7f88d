package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/linkvault/linkvault/internal/core/domain"
)

// UserIDKey is the echo context key the Auth middleware stores the caller's
// user id under.
const UserIDKey = "user_id"

// ctxUserID returns the authenticated user id. An empty value means the
// route was mounted without the Auth middleware.
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get(UserIDKey).(string)
	if id == "" {
		return "", domain.ErrMissingToken
	}
	return id, nil
}
