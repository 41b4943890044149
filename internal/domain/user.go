package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role determines what a user is allowed to do.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// AuthProvider identifies how an account authenticates.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "LOCAL"
	ProviderGoogle AuthProvider = "GOOGLE"
)

// User-related domain errors.
var (
	ErrUserNotFound       = &Error{Code: ENOTFOUND, Message: "User not found"}
	ErrDuplicateUser      = &Error{Code: ECONFLICT, Message: "Username or email already taken"}
	ErrInvalidCredentials = &Error{Code: EUNAUTHORIZED, Message: "Invalid username or password"}
)

// User is a plain account record. Role checks replace any inheritance-based
// principal type: callers test u.IsAdmin() and nothing else.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string // empty for externally-authenticated accounts
	Role         Role
	Provider     AuthProvider
	PictureURL   string
	CreatedAt    time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Identity is the acting caller of an operation. Core operations take it as
// an explicit parameter instead of reading request-scoped ambient state.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

// IsAdmin reports whether the identity holds the admin role.
func (id Identity) IsAdmin() bool {
	return id.Role == RoleAdmin
}

// UserStore persists user accounts.
type UserStore interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// AuthService provides registration, login, and profile lookup.
type AuthService interface {
	// Register creates a local account with a hashed password.
	Register(ctx context.Context, params RegisterParams) (*User, error)

	// Login verifies credentials and returns the user with a signed token.
	// The login field accepts either username or email.
	Login(ctx context.Context, login, password string) (*User, string, error)

	// LoginOAuth upserts an externally-authenticated account by email and
	// returns it with a signed token.
	LoginOAuth(ctx context.Context, params OAuthParams) (*User, string, error)

	// GetUser returns the account for the given id.
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
}

// RegisterParams contains parameters for creating a local account.
type RegisterParams struct {
	Username string
	Email    string
	Password string
}

// OAuthParams contains the profile delivered by an external identity provider.
type OAuthParams struct {
	Email      string
	Username   string
	PictureURL string
	Provider   AuthProvider
}
