package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// LocalProvider implements IdentityProvider with bcrypt-hashed credentials
// in Postgres and self-issued HS256 session tokens.
type LocalProvider struct {
	store       CredentialStore
	profiles    ProfileDirectory
	signingKey  []byte
	issuer      string
	sessionTTL  time.Duration
	revocations *TokenRevocationStore
}

func NewLocalProvider(store CredentialStore, profiles ProfileDirectory, signingKey []byte, issuer string, sessionTTL time.Duration, revocations *TokenRevocationStore) *LocalProvider {
	return &LocalProvider{
		store:       store,
		profiles:    profiles,
		signingKey:  signingKey,
		issuer:      issuer,
		sessionTTL:  sessionTTL,
		revocations: revocations,
	}
}

func (p *LocalProvider) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	if in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("email and password are required")
	}
	if in.FullName == "" {
		return nil, fmt.Errorf("full_name is required")
	}
	if existing, err := p.store.GetByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	userID := uuid.New()
	if err := p.profiles.Provision(ctx, userID, in.FullName, in.Role, in.Specialization, in.Phone); err != nil {
		return nil, fmt.Errorf("provisioning profile: %w", err)
	}
	if err := p.store.Create(ctx, &Credential{UserID: userID, Email: in.Email, PasswordHash: hash}); err != nil {
		return nil, fmt.Errorf("storing credential: %w", err)
	}

	return p.issueSession(userID, in.Role, in.FullName)
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	cred, err := p.store.GetByEmail(ctx, email)
	if err != nil || cred == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(cred.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	role, fullName, err := p.profiles.Identity(ctx, cred.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolving identity: %w", err)
	}
	return p.issueSession(cred.UserID, role, fullName)
}

func (p *LocalProvider) GetSession(ctx context.Context, token string) (*Session, error) {
	claims, err := p.parseToken(token)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject claim: %w", err)
	}
	return &Session{
		Token:     token,
		UserID:    userID,
		Role:      claims.Role,
		FullName:  claims.FullName,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (p *LocalProvider) SignOut(ctx context.Context, token string) error {
	claims, err := p.parseToken(token)
	if err != nil {
		// Signing out an already-invalid token is not an error.
		return nil
	}
	p.revocations.Revoke(claims.ID, claims.ExpiresAt.Time)
	return nil
}

func (p *LocalProvider) parseToken(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return p.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithIssuer(p.issuer))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidCredentials
	}
	if p.revocations.IsRevoked(claims.ID) {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}

func (p *LocalProvider) issueSession(userID uuid.UUID, role, fullName string) (*Session, error) {
	now := time.Now()
	expiresAt := now.Add(p.sessionTTL)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID.String(),
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role:     role,
		FullName: fullName,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.signingKey)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}

	return &Session{
		Token:     token,
		UserID:    userID,
		Role:      role,
		FullName:  fullName,
		ExpiresAt: expiresAt,
	}, nil
}
