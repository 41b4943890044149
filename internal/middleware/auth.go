package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gamerstore/backend/internal/auth"
	"github.com/gamerstore/backend/internal/domain"
)

// identityKey is the echo context key holding the authenticated identity.
const identityKey = "identity"

// IdentityFrom returns the identity stashed by Authenticate. The boolean is
// false on unauthenticated routes.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	identity, ok := c.Get(identityKey).(domain.Identity)
	return identity, ok
}

// Authenticate verifies the bearer token and stashes the caller's identity
// in the request context. Requests without a valid token are rejected.
func Authenticate(tokens *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				return echo.NewHTTPError(401, "missing or malformed authorization header")
			}

			identity, err := tokens.Verify(raw)
			if err != nil {
				return echo.NewHTTPError(401, domain.ErrorMessage(err))
			}

			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// RequireAdmin rejects callers without the admin role. Must run after
// Authenticate.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok || !identity.IsAdmin() {
				return echo.NewHTTPError(403, "admin role required")
			}
			return next(c)
		}
	}
}
