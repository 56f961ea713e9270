package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/brandassets/dam/modules/core/domain/aggregates/user"
	"github.com/brandassets/dam/modules/core/domain/entities/membership"
	"github.com/brandassets/dam/modules/core/domain/entities/role"
	"github.com/brandassets/dam/modules/core/domain/entities/systemadmin"
	"github.com/brandassets/dam/modules/core/domain/entities/tenant"
	"github.com/brandassets/dam/pkg/eventbus"
)

type TenantCreatedEvent struct {
	Result tenant.Tenant
}

// ConsoleService backs the system-admin console: tenant lifecycle,
// membership management and the system-admin registry. It is never
// reachable from tenant or public hosts.
type ConsoleService struct {
	tenants     tenant.Repository
	users       user.Repository
	memberships membership.Repository
	sysAdmins   systemadmin.Repository
	publisher   eventbus.EventBus
}

func NewConsoleService(
	tenants tenant.Repository,
	users user.Repository,
	memberships membership.Repository,
	sysAdmins systemadmin.Repository,
	publisher eventbus.EventBus,
) *ConsoleService {
	return &ConsoleService{
		tenants:     tenants,
		users:       users,
		memberships: memberships,
		sysAdmins:   sysAdmins,
		publisher:   publisher,
	}
}

func (s *ConsoleService) ListTenants(ctx context.Context, params tenant.FindParams) ([]*tenant.Tenant, int, error) {
	tenants, err := s.tenants.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.tenants.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return tenants, total, nil
}

func (s *ConsoleService) GetTenant(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return s.tenants.GetByID(ctx, id)
}

func (s *ConsoleService) CreateTenant(ctx context.Context, name, slug string) (*tenant.Tenant, error) {
	created, err := s.tenants.Create(ctx, tenant.New(name, slug))
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(TenantCreatedEvent{Result: *created})
	return created, nil
}

func (s *ConsoleService) UpdateTenant(ctx context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	return s.tenants.Update(ctx, t)
}

// SuspendTenant flips the tenant to suspended. Memberships stay in place
// but stop granting access until the tenant is reactivated.
func (s *ConsoleService) SuspendTenant(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	t, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.SetStatus(tenant.StatusSuspended)
	return s.tenants.Update(ctx, t)
}

func (s *ConsoleService) ActivateTenant(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	t, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.SetStatus(tenant.StatusActive)
	return s.tenants.Update(ctx, t)
}

func (s *ConsoleService) ListMemberships(ctx context.Context, tenantID uuid.UUID) ([]*membership.Membership, error) {
	return s.memberships.ListByTenant(ctx, tenantID)
}

func (s *ConsoleService) GrantMembership(ctx context.Context, tenantID, userID uuid.UUID, roleKey role.Key) (*membership.Membership, error) {
	if !roleKey.Valid() || roleKey == role.Superadmin {
		return nil, fmt.Errorf("role %q cannot be granted through a membership", roleKey)
	}
	if _, err := s.tenants.GetByID(ctx, tenantID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.memberships.Create(ctx, membership.New(tenantID, userID, roleKey))
}

func (s *ConsoleService) RevokeMembership(ctx context.Context, tenantID, userID uuid.UUID) error {
	return s.memberships.Delete(ctx, userID, tenantID)
}

func (s *ConsoleService) ListSystemAdmins(ctx context.Context) ([]*systemadmin.SystemAdmin, error) {
	return s.sysAdmins.List(ctx)
}

func (s *ConsoleService) GrantSystemAdmin(ctx context.Context, userID, grantedBy uuid.UUID) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.sysAdmins.Add(ctx, &systemadmin.SystemAdmin{
		UserID:    userID,
		GrantedBy: grantedBy,
	})
}

// RevokeSystemAdmin refuses to remove the caller so the registry cannot be
// emptied by accident.
func (s *ConsoleService) RevokeSystemAdmin(ctx context.Context, userID, caller uuid.UUID) error {
	if userID == caller {
		return fmt.Errorf("cannot revoke your own system admin grant")
	}
	return s.sysAdmins.Remove(ctx, userID)
}
