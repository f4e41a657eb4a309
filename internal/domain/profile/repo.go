package profile

import (
	"context"

	"github.com/google/uuid"
)

type ProfileRepository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
	List(ctx context.Context, role string, limit, offset int) ([]*Profile, int, error)
	FindByNameAndRole(ctx context.Context, fullName, role string) (*Profile, error)
}
