package composables

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/brandassets/dam/pkg/constants"
	"github.com/brandassets/dam/pkg/tenancy"
)

var (
	ErrNoTenant = errors.New("no tenant found in context")
	ErrNoUser   = errors.New("no user found in context")
)

// Tenant is the request-scoped tenant descriptor resolved from the Host
// header. It deliberately carries only what handlers need for scoping and
// branding lookups.
type Tenant struct {
	ID   uuid.UUID
	Name string
	Slug string
}

func WithTenant(ctx context.Context, t *Tenant) context.Context {
	return context.WithValue(ctx, constants.TenantIDKey, t)
}

func UseTenant(ctx context.Context) (*Tenant, error) {
	t, ok := ctx.Value(constants.TenantIDKey).(*Tenant)
	if !ok {
		return nil, ErrNoTenant
	}
	return t, nil
}

func UseTenantID(ctx context.Context) (uuid.UUID, error) {
	t, err := UseTenant(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	return t.ID, nil
}

func WithHost(ctx context.Context, h tenancy.Host) context.Context {
	return context.WithValue(ctx, constants.HostKey, h)
}

// UseHost returns the classified Host header. Requests that never passed the
// host classifier middleware report KindUnrecognized.
func UseHost(ctx context.Context) tenancy.Host {
	h, ok := ctx.Value(constants.HostKey).(tenancy.Host)
	if !ok {
		return tenancy.Host{Kind: tenancy.KindUnrecognized}
	}
	return h
}

func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, constants.UserKey, id)
}

func UseUserID(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(constants.UserKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrNoUser
	}
	return id, nil
}

// WithRoleKey stores the requesting user's effective role key for the
// resolved tenant ("superadmin", "admin", "user" or "none").
func WithRoleKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, constants.RoleKey, key)
}

func UseRoleKey(ctx context.Context) string {
	key, ok := ctx.Value(constants.RoleKey).(string)
	if !ok {
		return "none"
	}
	return key
}
