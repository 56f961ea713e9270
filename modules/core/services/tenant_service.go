package services

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/brandassets/dam/modules/core/domain/entities/membership"
	"github.com/brandassets/dam/modules/core/domain/entities/systemadmin"
	"github.com/brandassets/dam/modules/core/domain/entities/tenant"
	"github.com/brandassets/dam/modules/core/infrastructure/persistence"
)

// Resolution is the outcome of resolving a tenant subdomain for a user.
// "Tenant does not exist", "tenant not active" and "user lacks an active
// membership" all collapse into NotFound so responses never leak whether a
// tenant exists.
type Resolution struct {
	Tenant *tenant.Tenant
	Found  bool
}

func Found(t *tenant.Tenant) Resolution {
	return Resolution{Tenant: t, Found: true}
}

func NotFound() Resolution {
	return Resolution{}
}

type TenantService struct {
	repo        tenant.Repository
	memberships membership.Repository
	sysAdmins   systemadmin.Repository
}

func NewTenantService(
	repo tenant.Repository,
	memberships membership.Repository,
	sysAdmins systemadmin.Repository,
) *TenantService {
	return &TenantService{
		repo:        repo,
		memberships: memberships,
		sysAdmins:   sysAdmins,
	}
}

func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TenantService) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// ResolveForUser looks up an active tenant by slug and verifies the user may
// access it. A NotFound resolution is an expected, frequent outcome (a
// logged-out visitor on a tenant subdomain); callers redirect rather than
// error. Only infrastructure failures return a non-nil error.
func (s *TenantService) ResolveForUser(ctx context.Context, slug string, userID uuid.UUID) (Resolution, error) {
	t, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, persistence.ErrTenantNotFound) {
			return NotFound(), nil
		}
		return NotFound(), err
	}
	if !t.IsActive() {
		return NotFound(), nil
	}

	// Platform admins span all tenants without membership rows.
	isAdmin, err := s.sysAdmins.Exists(ctx, userID)
	if err != nil {
		return NotFound(), err
	}
	if isAdmin {
		return Found(t), nil
	}

	if _, err := s.memberships.GetActive(ctx, userID, t.ID()); err != nil {
		if errors.Is(err, persistence.ErrMembershipNotFound) {
			return NotFound(), nil
		}
		return NotFound(), err
	}

	return Found(t), nil
}
