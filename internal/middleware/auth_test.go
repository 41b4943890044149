package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamerstore/backend/internal/auth"
	"github.com/gamerstore/backend/internal/domain"
)

func testRequest(t *testing.T, authorization string, mw ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, *domain.Identity) {
	t.Helper()

	e := echo.New()
	var seen *domain.Identity
	handler := func(c echo.Context) error {
		if id, ok := IdentityFrom(c); ok {
			seen = &id
		}
		return c.NoContent(http.StatusOK)
	}
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, seen
}

func TestAuthenticate(t *testing.T) {
	tokens, err := auth.NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	user := &domain.User{ID: uuid.New(), Role: domain.RoleUser}
	token, err := tokens.Issue(user)
	require.NoError(t, err)

	t.Run("valid token passes identity through", func(t *testing.T) {
		rec, identity := testRequest(t, "Bearer "+token, Authenticate(tokens))
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, identity)
		assert.Equal(t, user.ID, identity.UserID)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		rec, _ := testRequest(t, "", Authenticate(tokens))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		rec, _ := testRequest(t, "Token "+token, Authenticate(tokens))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		rec, _ := testRequest(t, "Bearer garbage", Authenticate(tokens))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	tokens, err := auth.NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	t.Run("admin passes", func(t *testing.T) {
		token, err := tokens.Issue(&domain.User{ID: uuid.New(), Role: domain.RoleAdmin})
		require.NoError(t, err)

		rec, _ := testRequest(t, "Bearer "+token, Authenticate(tokens), RequireAdmin())
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("plain user is rejected", func(t *testing.T) {
		token, err := tokens.Issue(&domain.User{ID: uuid.New(), Role: domain.RoleUser})
		require.NoError(t, err)

		rec, _ := testRequest(t, "Bearer "+token, Authenticate(tokens), RequireAdmin())
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unauthenticated is rejected", func(t *testing.T) {
		rec, _ := testRequest(t, "", RequireAdmin())
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
