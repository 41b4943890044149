package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gamerstore/backend/internal/auth"
	"github.com/gamerstore/backend/internal/domain"
)

// authService implements domain.AuthService on top of the user store, the
// password hasher, and the token signer.
type authService struct {
	stores domain.Stores
	tokens *auth.TokenService
	logger zerolog.Logger
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(stores domain.Stores, tokens *auth.TokenService, logger zerolog.Logger) domain.AuthService {
	return &authService{
		stores: stores,
		tokens: tokens,
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// Register creates a local account. The first admin is provisioned at startup
// by the bootstrap package, not here: every registration gets the plain user
// role.
func (s *authService) Register(ctx context.Context, params domain.RegisterParams) (*domain.User, error) {
	fields := make(map[string]string)
	username := strings.TrimSpace(params.Username)
	email := strings.TrimSpace(strings.ToLower(params.Email))
	if username == "" {
		fields["username"] = "username is required"
	}
	if email == "" || !strings.Contains(email, "@") {
		fields["email"] = "a valid email is required"
	}
	if len(params.Password) < auth.MinPasswordLength {
		fields["password"] = "password must be at least 8 characters"
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Op: "auth.register", Fields: fields}
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, domain.Internal(err, "auth.register", "failed to hash password")
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Provider:     domain.ProviderLocal,
	}
	if err := s.stores.Users().Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID.String()).Str("username", username).Msg("user registered")

	return user, nil
}

// Login verifies credentials against either username or email. A wrong user
// and a wrong password produce the same error so login does not leak which
// accounts exist.
func (s *authService) Login(ctx context.Context, login, password string) (*domain.User, string, error) {
	login = strings.TrimSpace(login)

	user, err := s.stores.Users().GetByUsername(ctx, login)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", err
		}
		user, err = s.stores.Users().GetByEmail(ctx, strings.ToLower(login))
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil, "", domain.ErrInvalidCredentials
			}
			return nil, "", err
		}
	}

	if user.PasswordHash == "" {
		// Externally-authenticated account with no local password.
		return nil, "", domain.ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", domain.Internal(err, "auth.login", "failed to verify password")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", domain.Internal(err, "auth.login", "failed to issue token")
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")

	return user, token, nil
}

// LoginOAuth upserts an externally-authenticated account keyed by email.
func (s *authService) LoginOAuth(ctx context.Context, params domain.OAuthParams) (*domain.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(params.Email))
	if email == "" {
		return nil, "", domain.NewValidationError("auth.oauth", "email", "a valid email is required")
	}

	user, err := s.stores.Users().GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", err
		}
		username := strings.TrimSpace(params.Username)
		if username == "" {
			username = email[:strings.Index(email, "@")]
		}
		user = &domain.User{
			ID:         uuid.New(),
			Username:   username,
			Email:      email,
			Role:       domain.RoleUser,
			Provider:   params.Provider,
			PictureURL: params.PictureURL,
		}
		if err := s.stores.Users().Create(ctx, user); err != nil {
			return nil, "", err
		}
		s.logger.Info().Str("user_id", user.ID.String()).Str("provider", string(params.Provider)).Msg("oauth user created")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", domain.Internal(err, "auth.oauth", "failed to issue token")
	}

	return user, token, nil
}

// GetUser returns the account for the given id.
func (s *authService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.stores.Users().GetByID(ctx, id)
}
