package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/linkvault/linkvault/internal/api/handler"
	"github.com/linkvault/linkvault/internal/core/domain"
	"github.com/linkvault/linkvault/internal/core/ports"
)

// Auth reads the bearer token from the Authorization header, resolves it to
// a user id and stores the id under handler.UserIDKey.
//
// A missing header or a bearer scheme with no token yields
// domain.ErrMissingToken (401). Any other malformed, expired or forged
// token yields domain.ErrInvalidToken (403).
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if strings.TrimSpace(header) == "" {
				return domain.ErrMissingToken
			}

			scheme, token, _ := strings.Cut(strings.TrimLeft(header, " "), " ")
			if !strings.EqualFold(scheme, "bearer") {
				return domain.ErrInvalidToken
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return domain.ErrMissingToken
			}

			userID, err := auth.ValidateToken(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(handler.UserIDKey, userID)
			return next(c)
		}
	}
}
