// Package bootstrap performs one-time startup provisioning.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gamerstore/backend/internal/auth"
	"github.com/gamerstore/backend/internal/domain"
)

// EnsureAdmin creates the initial admin account when one is configured and no
// account with that username exists yet. Subsequent startups are no-ops.
func EnsureAdmin(ctx context.Context, stores domain.Stores, username, email, password string, logger zerolog.Logger) error {
	if username == "" || email == "" || password == "" {
		return nil
	}

	_, err := stores.Users().GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Provider:     domain.ProviderLocal,
	}
	if err := stores.Users().Create(ctx, admin); err != nil {
		// Lost a race with another replica doing the same thing.
		if errors.Is(err, domain.ErrDuplicateUser) {
			return nil
		}
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info().Str("username", username).Msg("admin user created")
	return nil
}
