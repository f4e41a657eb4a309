package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

// Session represents an authenticated sign-in.
type Session struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	FullName  string    `json:"full_name"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SignUpInput carries everything needed to register a new account and its
// backing profile.
type SignUpInput struct {
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	FullName       string  `json:"full_name"`
	Role           string  `json:"role"`
	Specialization *string `json:"specialization,omitempty"`
	Phone          *string `json:"phone,omitempty"`
}

// IdentityProvider abstracts account registration and session management so
// the HTTP layer does not depend on a concrete token scheme.
type IdentityProvider interface {
	SignUp(ctx context.Context, in SignUpInput) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	GetSession(ctx context.Context, token string) (*Session, error)
	SignOut(ctx context.Context, token string) error
}

// Credential is a stored login for one user. The user ID doubles as the
// profile ID so a sign-in maps directly onto a profile row.
type Credential struct {
	UserID       uuid.UUID
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// CredentialStore persists login credentials.
type CredentialStore interface {
	Create(ctx context.Context, c *Credential) error
	GetByEmail(ctx context.Context, email string) (*Credential, error)
}

// ProfileDirectory bridges the identity provider to profile storage:
// sign-up creates the profile row backing a new account, and sign-in reads
// back the role and display name baked into session tokens.
type ProfileDirectory interface {
	Provision(ctx context.Context, userID uuid.UUID, fullName, role string, specialization, phone *string) error
	Identity(ctx context.Context, userID uuid.UUID) (role, fullName string, err error)
}
