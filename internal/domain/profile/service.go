package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	repo ProfileRepository
}

func NewService(repo ProfileRepository) *Service {
	return &Service{repo: repo}
}

var validRoles = map[string]bool{
	RoleDoctor: true, RolePatient: true,
}

func (s *Service) CreateProfile(ctx context.Context, p *Profile) error {
	if p.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	if p.Role == "" {
		p.Role = RolePatient
	}
	if !validRoles[p.Role] {
		return fmt.Errorf("invalid role: %s", p.Role)
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile changes the mutable fields of a profile. The role is fixed
// at creation and never changes.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, fullName string, specialization, phone *string) (*Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fullName == "" {
		return nil, fmt.Errorf("full_name is required")
	}
	p.FullName = fullName
	p.Specialization = specialization
	p.Phone = phone
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListProfiles(ctx context.Context, role string, limit, offset int) ([]*Profile, int, error) {
	if role != "" && !validRoles[role] {
		return nil, 0, fmt.Errorf("invalid role: %s", role)
	}
	return s.repo.List(ctx, role, limit, offset)
}

// EnsurePatient returns the existing patient profile matching the given
// name, or creates one when no match exists. Matching is by name only, so
// repeat visits land on the same profile.
func (s *Service) EnsurePatient(ctx context.Context, fullName string, phone *string) (*Profile, error) {
	if fullName == "" {
		return nil, fmt.Errorf("patient name is required")
	}

	existing, err := s.repo.FindByNameAndRole(ctx, fullName, RolePatient)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("looking up patient: %w", err)
	}

	p := &Profile{FullName: fullName, Role: RolePatient, Phone: phone}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("creating patient profile: %w", err)
	}
	return p, nil
}

// Provision creates the profile row backing a new account. Implements the
// directory interface the identity provider depends on.
func (s *Service) Provision(ctx context.Context, userID uuid.UUID, fullName, role string, specialization, phone *string) error {
	p := &Profile{
		ID:             userID,
		FullName:       fullName,
		Role:           role,
		Specialization: specialization,
		Phone:          phone,
	}
	return s.CreateProfile(ctx, p)
}

// Identity resolves the role and display name for an authenticated user.
func (s *Service) Identity(ctx context.Context, userID uuid.UUID) (string, string, error) {
	p, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", "", err
	}
	return p.Role, p.FullName, nil
}
