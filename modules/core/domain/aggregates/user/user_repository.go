package user

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	TenantID uuid.UUID
	Search   string
	Limit    int
	Offset   int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) (*User, error)
	Update(ctx context.Context, u *User) (*User, error)
	// List returns users scoped to a tenant through their memberships when
	// TenantID is set, otherwise all users.
	List(ctx context.Context, params FindParams) ([]*User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}
