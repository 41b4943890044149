package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gamerstore/backend/internal/domain"
)

// UserStore implements domain.UserStore using PostgreSQL.
type UserStore struct {
	db DBTX
}

const userColumns = `id, username, email, password_hash, role, provider, picture_url, created_at`

func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	err := s.db.QueryRow(ctx, `
		INSERT INTO users (id, username, email, password_hash, role, provider, picture_url)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
		RETURNING created_at
	`, user.ID, user.Username, user.Email, user.PasswordHash, user.Role, user.Provider, user.PictureURL).Scan(&user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateUser
		}
		return domain.Internal(err, "user.create", "failed to create user")
	}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (s *UserStore) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var (
		u    domain.User
		hash *string
	)
	err := s.db.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &hash, &u.Role, &u.Provider, &u.PictureURL, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.Internal(err, "user.get", "failed to get user")
	}
	if hash != nil {
		u.PasswordHash = *hash
	}
	return &u, nil
}
