package profile

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type mockProfileRepo struct {
	profiles map[uuid.UUID]*Profile
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[uuid.UUID]*Profile)}
}

func (m *mockProfileRepo) Create(_ context.Context, p *Profile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	m.profiles[p.ID] = &cp
	return nil
}

func (m *mockProfileRepo) GetByID(_ context.Context, id uuid.UUID) (*Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockProfileRepo) Update(_ context.Context, p *Profile) error {
	if _, ok := m.profiles[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *p
	m.profiles[p.ID] = &cp
	return nil
}

func (m *mockProfileRepo) List(_ context.Context, role string, limit, offset int) ([]*Profile, int, error) {
	var items []*Profile
	for _, p := range m.profiles {
		if role == "" || p.Role == role {
			items = append(items, p)
		}
	}
	return items, len(items), nil
}

func (m *mockProfileRepo) FindByNameAndRole(_ context.Context, fullName, role string) (*Profile, error) {
	for _, p := range m.profiles {
		if strings.EqualFold(p.FullName, fullName) && p.Role == role {
			return p, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func TestCreateProfile_InvalidRole(t *testing.T) {
	svc := NewService(newMockProfileRepo())
	err := svc.CreateProfile(context.Background(), &Profile{FullName: "X", Role: "admin"})
	if err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestCreateProfile_DefaultsToPatient(t *testing.T) {
	svc := NewService(newMockProfileRepo())
	p := &Profile{FullName: "Ravi Kumar"}
	if err := svc.CreateProfile(context.Background(), p); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if p.Role != RolePatient {
		t.Errorf("expected default role patient, got %q", p.Role)
	}
}

func TestEnsurePatient_ReusesExisting(t *testing.T) {
	repo := newMockProfileRepo()
	svc := NewService(repo)

	first, err := svc.EnsurePatient(context.Background(), "Ravi Kumar", nil)
	if err != nil {
		t.Fatalf("EnsurePatient: %v", err)
	}

	// Case-insensitive match on a later visit.
	second, err := svc.EnsurePatient(context.Background(), "ravi kumar", nil)
	if err != nil {
		t.Fatalf("EnsurePatient (repeat): %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected same profile for repeat visit, got %s and %s", first.ID, second.ID)
	}
	if len(repo.profiles) != 1 {
		t.Errorf("expected one profile, got %d", len(repo.profiles))
	}
}

func TestEnsurePatient_CreatesNew(t *testing.T) {
	repo := newMockProfileRepo()
	svc := NewService(repo)

	phone := "9876543210"
	p, err := svc.EnsurePatient(context.Background(), "Ravi Kumar", &phone)
	if err != nil {
		t.Fatalf("EnsurePatient: %v", err)
	}
	if p.Role != RolePatient {
		t.Errorf("expected patient role, got %q", p.Role)
	}
	if p.Phone == nil || *p.Phone != phone {
		t.Error("expected phone to be stored")
	}
}

func TestEnsurePatient_EmptyName(t *testing.T) {
	svc := NewService(newMockProfileRepo())
	if _, err := svc.EnsurePatient(context.Background(), "", nil); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestUpdateProfile_RoleImmutable(t *testing.T) {
	repo := newMockProfileRepo()
	svc := NewService(repo)

	p := &Profile{FullName: "Dr. Rao", Role: RoleDoctor}
	if err := svc.CreateProfile(context.Background(), p); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	specialization := "Cardiology"
	updated, err := svc.UpdateProfile(context.Background(), p.ID, "Dr. Asha Rao", &specialization, nil)
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Role != RoleDoctor {
		t.Errorf("expected role to stay doctor, got %q", updated.Role)
	}
	if updated.FullName != "Dr. Asha Rao" {
		t.Errorf("expected updated name, got %q", updated.FullName)
	}
}

func TestIdentity(t *testing.T) {
	repo := newMockProfileRepo()
	svc := NewService(repo)

	id := uuid.New()
	if err := svc.Provision(context.Background(), id, "Dr. Rao", RoleDoctor, nil, nil); err != nil {
		t.Fatalf("Provision: %v", err)
	}

	role, name, err := svc.Identity(context.Background(), id)
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	if role != RoleDoctor || name != "Dr. Rao" {
		t.Errorf("got role=%q name=%q", role, name)
	}
}
