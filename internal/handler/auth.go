package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gamerstore/backend/internal/auth"
	"github.com/gamerstore/backend/internal/domain"
	"github.com/gamerstore/backend/internal/middleware"
)

// AuthHandler exposes registration, login, OAuth login, and profile lookup.
type AuthHandler struct {
	auth        domain.AuthService
	oauth       auth.OAuthProvider // nil when OAuth login is not configured
	frontendURL string
	logger      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(service domain.AuthService, oauth auth.OAuthProvider, frontendURL string, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: service, oauth: oauth, frontendURL: frontendURL, logger: logger}
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Provider   string    `json:"provider"`
	PictureURL string    `json:"pictureUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(user *domain.User) userResponse {
	return userResponse{
		ID:         user.ID.String(),
		Username:   user.Username,
		Email:      user.Email,
		Role:       string(user.Role),
		Provider:   string(user.Provider),
		PictureURL: user.PictureURL,
		CreatedAt:  user.CreatedAt,
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.logger, domain.Invalid("auth.register", "malformed request body"))
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, h.logger, err)
	}

	user, err := h.auth.Register(c.Request().Context(), domain.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.logger, domain.Invalid("auth.login", "malformed request body"))
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, h.logger, err)
	}

	user, token, err := h.auth.Login(c.Request().Context(), req.Login, req.Password)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, sessionResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}

const oauthStateCookie = "oauth_state"

// OAuthLogin handles GET /api/auth/oauth/google. It sends the browser to the
// provider's consent page with a single-use state bound to a cookie.
func (h *AuthHandler) OAuthLogin(c echo.Context) error {
	if h.oauth == nil {
		return respondError(c, h.logger, domain.Invalid("auth.oauth", "oauth login is not configured"))
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return respondError(c, h.logger, domain.Internal(err, "auth.oauth", "failed to generate state"))
	}
	state := hex.EncodeToString(buf)

	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/api/auth/oauth",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.Redirect(http.StatusFound, h.oauth.AuthCodeURL(state))
}

// OAuthCallback handles GET /api/auth/oauth/google/callback. On success the
// browser is sent back to the frontend with the session token in the query,
// which is where the SPA picks it up.
func (h *AuthHandler) OAuthCallback(c echo.Context) error {
	if h.oauth == nil {
		return respondError(c, h.logger, domain.Invalid("auth.oauth", "oauth login is not configured"))
	}

	cookie, err := c.Cookie(oauthStateCookie)
	state := c.QueryParam("state")
	if err != nil || state == "" || cookie.Value != state {
		return respondError(c, h.logger, domain.Unauthorized("auth.oauth", "oauth state mismatch"))
	}

	code := c.QueryParam("code")
	if code == "" {
		return respondError(c, h.logger, domain.Invalid("auth.oauth", "missing authorization code"))
	}

	profile, err := h.oauth.Exchange(c.Request().Context(), code)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	_, token, err := h.auth.LoginOAuth(c.Request().Context(), domain.OAuthParams{
		Email:      profile.Email,
		Username:   profile.Name,
		PictureURL: profile.PictureURL,
		Provider:   domain.ProviderGoogle,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Redirect(http.StatusFound, h.frontendURL+"/oauth?token="+url.QueryEscape(token))
}

// Me handles GET /api/users/me.
func (h *AuthHandler) Me(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return respondError(c, h.logger, domain.Unauthorized("auth.me", "authentication required"))
	}

	user, err := h.auth.GetUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}
