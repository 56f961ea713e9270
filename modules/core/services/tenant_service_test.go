package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandassets/dam/modules/core/domain/entities/membership"
	"github.com/brandassets/dam/modules/core/domain/entities/role"
	"github.com/brandassets/dam/modules/core/domain/entities/systemadmin"
	"github.com/brandassets/dam/modules/core/domain/entities/tenant"
	"github.com/brandassets/dam/modules/core/infrastructure/persistence"
	"github.com/brandassets/dam/modules/core/services"
)

type stubTenantRepo struct {
	tenants map[string]*tenant.Tenant
}

func (s *stubTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	for _, t := range s.tenants {
		if t.ID() == id {
			return t, nil
		}
	}
	return nil, persistence.ErrTenantNotFound
}

func (s *stubTenantRepo) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	t, ok := s.tenants[slug]
	if !ok {
		return nil, persistence.ErrTenantNotFound
	}
	return t, nil
}

func (s *stubTenantRepo) Create(ctx context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	s.tenants[t.Slug()] = t
	return t, nil
}

func (s *stubTenantRepo) Update(ctx context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	s.tenants[t.Slug()] = t
	return t, nil
}

func (s *stubTenantRepo) List(ctx context.Context, params tenant.FindParams) ([]*tenant.Tenant, error) {
	var out []*tenant.Tenant
	for _, t := range s.tenants {
		out = append(out, t)
	}
	return out, nil
}

func (s *stubTenantRepo) Count(ctx context.Context, params tenant.FindParams) (int, error) {
	return len(s.tenants), nil
}

type stubMembershipRepo struct {
	memberships []*membership.Membership
}

func (s *stubMembershipRepo) GetActive(ctx context.Context, userID, tenantID uuid.UUID) (*membership.Membership, error) {
	for _, m := range s.memberships {
		if m.UserID() == userID && m.TenantID() == tenantID && m.IsActive() {
			return m, nil
		}
	}
	return nil, persistence.ErrMembershipNotFound
}

func (s *stubMembershipRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*membership.Membership, error) {
	return s.memberships, nil
}

func (s *stubMembershipRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*membership.Membership, error) {
	return s.memberships, nil
}

func (s *stubMembershipRepo) Create(ctx context.Context, m *membership.Membership) (*membership.Membership, error) {
	s.memberships = append(s.memberships, m)
	return m, nil
}

func (s *stubMembershipRepo) Update(ctx context.Context, m *membership.Membership) (*membership.Membership, error) {
	return m, nil
}

func (s *stubMembershipRepo) Delete(ctx context.Context, userID, tenantID uuid.UUID) error {
	return nil
}

type stubSystemAdminRepo struct {
	admins map[uuid.UUID]bool
}

func (s *stubSystemAdminRepo) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.admins[userID], nil
}

func (s *stubSystemAdminRepo) List(ctx context.Context) ([]*systemadmin.SystemAdmin, error) {
	return nil, nil
}

func (s *stubSystemAdminRepo) Add(ctx context.Context, admin *systemadmin.SystemAdmin) error {
	s.admins[admin.UserID] = true
	return nil
}

func (s *stubSystemAdminRepo) Remove(ctx context.Context, userID uuid.UUID) error {
	delete(s.admins, userID)
	return nil
}

func newStubs() (*stubTenantRepo, *stubMembershipRepo, *stubSystemAdminRepo) {
	return &stubTenantRepo{tenants: map[string]*tenant.Tenant{}},
		&stubMembershipRepo{},
		&stubSystemAdminRepo{admins: map[uuid.UUID]bool{}}
}

func TestTenantService_ResolveForUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("member of active tenant resolves", func(t *testing.T) {
		tenants, memberships, admins := newStubs()
		acme := tenant.New("Acme Inc", "acme")
		tenants.tenants["acme"] = acme
		userID := uuid.New()
		memberships.memberships = append(memberships.memberships,
			membership.New(acme.ID(), userID, role.Admin))

		svc := services.NewTenantService(tenants, memberships, admins)
		res, err := svc.ResolveForUser(ctx, "acme", userID)
		require.NoError(t, err)
		require.True(t, res.Found)
		assert.Equal(t, acme.ID(), res.Tenant.ID())
	})

	t.Run("unknown slug is NotFound not error", func(t *testing.T) {
		tenants, memberships, admins := newStubs()
		svc := services.NewTenantService(tenants, memberships, admins)

		res, err := svc.ResolveForUser(ctx, "ghost", uuid.New())
		require.NoError(t, err)
		assert.False(t, res.Found)
	})

	t.Run("inactive tenant is NotFound regardless of membership", func(t *testing.T) {
		tenants, memberships, admins := newStubs()
		acme := tenant.New("Acme Inc", "acme", tenant.WithStatus(tenant.StatusSuspended))
		tenants.tenants["acme"] = acme
		userID := uuid.New()
		memberships.memberships = append(memberships.memberships,
			membership.New(acme.ID(), userID, role.Admin))

		svc := services.NewTenantService(tenants, memberships, admins)
		res, err := svc.ResolveForUser(ctx, "acme", userID)
		require.NoError(t, err)
		assert.False(t, res.Found)
	})

	t.Run("no membership collapses to NotFound", func(t *testing.T) {
		tenants, memberships, admins := newStubs()
		tenants.tenants["acme"] = tenant.New("Acme Inc", "acme")

		svc := services.NewTenantService(tenants, memberships, admins)
		res, err := svc.ResolveForUser(ctx, "acme", uuid.New())
		require.NoError(t, err)
		assert.False(t, res.Found)
	})

	t.Run("inactive membership collapses to NotFound", func(t *testing.T) {
		tenants, memberships, admins := newStubs()
		acme := tenant.New("Acme Inc", "acme")
		tenants.tenants["acme"] = acme
		userID := uuid.New()
		memberships.memberships = append(memberships.memberships,
			membership.New(acme.ID(), userID, role.User, membership.WithStatus(membership.StatusInactive)))

		svc := services.NewTenantService(tenants, memberships, admins)
		res, err := svc.ResolveForUser(ctx, "acme", userID)
		require.NoError(t, err)
		assert.False(t, res.Found)
	})

	t.Run("system admin spans tenants without membership", func(t *testing.T) {
		tenants, memberships, admins := newStubs()
		acme := tenant.New("Acme Inc", "acme")
		tenants.tenants["acme"] = acme
		adminID := uuid.New()
		admins.admins[adminID] = true

		svc := services.NewTenantService(tenants, memberships, admins)
		res, err := svc.ResolveForUser(ctx, "acme", adminID)
		require.NoError(t, err)
		assert.True(t, res.Found)
	})
}
