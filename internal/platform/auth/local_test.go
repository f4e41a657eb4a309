package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockCredentialStore struct {
	byEmail map[string]*Credential
}

func newMockCredentialStore() *mockCredentialStore {
	return &mockCredentialStore{byEmail: make(map[string]*Credential)}
}

func (m *mockCredentialStore) Create(_ context.Context, c *Credential) error {
	m.byEmail[c.Email] = c
	return nil
}

func (m *mockCredentialStore) GetByEmail(_ context.Context, email string) (*Credential, error) {
	c, ok := m.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return c, nil
}

type mockDirectory struct {
	roles map[uuid.UUID]string
	names map[uuid.UUID]string
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{roles: make(map[uuid.UUID]string), names: make(map[uuid.UUID]string)}
}

func (m *mockDirectory) Provision(_ context.Context, userID uuid.UUID, fullName, role string, _, _ *string) error {
	m.roles[userID] = role
	m.names[userID] = fullName
	return nil
}

func (m *mockDirectory) Identity(_ context.Context, userID uuid.UUID) (string, string, error) {
	role, ok := m.roles[userID]
	if !ok {
		return "", "", fmt.Errorf("no profile for %s", userID)
	}
	return role, m.names[userID], nil
}

func newTestProvider(t *testing.T) (*LocalProvider, *mockCredentialStore, *mockDirectory) {
	t.Helper()
	store := newMockCredentialStore()
	dir := newMockDirectory()
	rev := NewTokenRevocationStore()
	t.Cleanup(rev.Close)
	p := NewLocalProvider(store, dir, []byte("test-signing-key"), "scribe-test", time.Hour, rev)
	return p, store, dir
}

func TestSignUp_IssuesSession(t *testing.T) {
	p, store, dir := newTestProvider(t)

	session, err := p.SignUp(context.Background(), SignUpInput{
		Email:    "dr@example.com",
		Password: "secret123",
		FullName: "Dr. Asha Rao",
		Role:     "doctor",
	})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if session.Token == "" {
		t.Error("expected a session token")
	}
	if session.Role != "doctor" {
		t.Errorf("expected role doctor, got %q", session.Role)
	}
	if _, ok := store.byEmail["dr@example.com"]; !ok {
		t.Error("expected credential to be stored")
	}
	if dir.names[session.UserID] != "Dr. Asha Rao" {
		t.Error("expected profile to be provisioned")
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	p, _, _ := newTestProvider(t)

	in := SignUpInput{Email: "dr@example.com", Password: "secret123", FullName: "Dr. Rao", Role: "doctor"}
	if _, err := p.SignUp(context.Background(), in); err != nil {
		t.Fatalf("first SignUp: %v", err)
	}
	if _, err := p.SignUp(context.Background(), in); err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	p, _, _ := newTestProvider(t)

	in := SignUpInput{Email: "dr@example.com", Password: "secret123", FullName: "Dr. Rao", Role: "doctor"}
	if _, err := p.SignUp(context.Background(), in); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	if _, err := p.SignIn(context.Background(), "dr@example.com", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := p.SignIn(context.Background(), "nobody@example.com", "secret123"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestSignIn_RoundTrip(t *testing.T) {
	p, _, _ := newTestProvider(t)

	in := SignUpInput{Email: "dr@example.com", Password: "secret123", FullName: "Dr. Rao", Role: "doctor"}
	if _, err := p.SignUp(context.Background(), in); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	session, err := p.SignIn(context.Background(), "dr@example.com", "secret123")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	got, err := p.GetSession(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.UserID != session.UserID {
		t.Errorf("expected user %s, got %s", session.UserID, got.UserID)
	}
	if got.FullName != "Dr. Rao" {
		t.Errorf("expected full name from profile, got %q", got.FullName)
	}
}

func TestSignOut_RevokesSession(t *testing.T) {
	p, _, _ := newTestProvider(t)

	in := SignUpInput{Email: "dr@example.com", Password: "secret123", FullName: "Dr. Rao", Role: "doctor"}
	session, err := p.SignUp(context.Background(), in)
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	if err := p.SignOut(context.Background(), session.Token); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := p.GetSession(context.Background(), session.Token); err == nil {
		t.Error("expected revoked session to be rejected")
	}
}
