package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandassets/dam/modules/core/domain/entities/membership"
	"github.com/brandassets/dam/modules/core/domain/entities/role"
	"github.com/brandassets/dam/modules/core/services"
)

func TestRoleService_ResolveRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("registry user is superadmin for any tenant", func(t *testing.T) {
		_, memberships, admins := newStubs()
		adminID := uuid.New()
		admins.admins[adminID] = true

		svc := services.NewRoleService(memberships, admins)
		got, err := svc.ResolveRole(ctx, adminID, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, role.Superadmin, got)
	})

	t.Run("membership role wins for regular users", func(t *testing.T) {
		_, memberships, admins := newStubs()
		tenantID := uuid.New()
		userID := uuid.New()
		memberships.memberships = append(memberships.memberships,
			membership.New(tenantID, userID, role.Admin))

		svc := services.NewRoleService(memberships, admins)
		got, err := svc.ResolveRole(ctx, userID, tenantID)
		require.NoError(t, err)
		assert.Equal(t, role.Admin, got)
	})

	t.Run("no membership resolves to none", func(t *testing.T) {
		_, memberships, admins := newStubs()

		svc := services.NewRoleService(memberships, admins)
		got, err := svc.ResolveRole(ctx, uuid.New(), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, role.None, got)
	})

	t.Run("inactive membership resolves to none", func(t *testing.T) {
		_, memberships, admins := newStubs()
		tenantID := uuid.New()
		userID := uuid.New()
		memberships.memberships = append(memberships.memberships,
			membership.New(tenantID, userID, role.User, membership.WithStatus(membership.StatusInactive)))

		svc := services.NewRoleService(memberships, admins)
		got, err := svc.ResolveRole(ctx, userID, tenantID)
		require.NoError(t, err)
		assert.Equal(t, role.None, got)
	})
}

func TestRoleKey_AtLeast(t *testing.T) {
	t.Parallel()
	assert.True(t, role.Superadmin.AtLeast(role.Admin))
	assert.True(t, role.Admin.AtLeast(role.User))
	assert.False(t, role.User.AtLeast(role.Admin))
	assert.False(t, role.None.AtLeast(role.User))
}
