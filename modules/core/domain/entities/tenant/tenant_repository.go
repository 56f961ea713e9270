package tenant

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	Search string
	Limit  int
	Offset int
}

// Repository has no Delete: tenants are never hard-deleted, only
// status-flagged.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
	Create(ctx context.Context, t *Tenant) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) (*Tenant, error)
	List(ctx context.Context, params FindParams) ([]*Tenant, error)
	Count(ctx context.Context, params FindParams) (int, error)
}
