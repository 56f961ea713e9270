package services

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/brandassets/dam/modules/core/domain/entities/membership"
	"github.com/brandassets/dam/modules/core/domain/entities/role"
	"github.com/brandassets/dam/modules/core/domain/entities/systemadmin"
	"github.com/brandassets/dam/modules/core/infrastructure/persistence"
)

type RoleService struct {
	memberships membership.Repository
	sysAdmins   systemadmin.Repository
}

func NewRoleService(memberships membership.Repository, sysAdmins systemadmin.Repository) *RoleService {
	return &RoleService{
		memberships: memberships,
		sysAdmins:   sysAdmins,
	}
}

// ResolveRole determines the user's effective role for a tenant. The
// system-admin registry is checked before the membership table: platform
// rights must never depend on tenant-scoped rows, so revoking memberships
// cannot strip them and membership rows cannot forge them.
func (s *RoleService) ResolveRole(ctx context.Context, userID, tenantID uuid.UUID) (role.Key, error) {
	isAdmin, err := s.sysAdmins.Exists(ctx, userID)
	if err != nil {
		return role.None, err
	}
	if isAdmin {
		return role.Superadmin, nil
	}

	m, err := s.memberships.GetActive(ctx, userID, tenantID)
	if err != nil {
		if errors.Is(err, persistence.ErrMembershipNotFound) {
			return role.None, nil
		}
		return role.None, err
	}
	return m.Role(), nil
}

// IsSystemAdmin reports registry membership without touching any tenant.
func (s *RoleService) IsSystemAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.sysAdmins.Exists(ctx, userID)
}
