package membership

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brandassets/dam/modules/core/domain/entities/role"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Membership is the join record granting a user a role within exactly one
// tenant. A user may hold memberships in multiple tenants at once.
type Membership struct {
	tenantID  uuid.UUID
	userID    uuid.UUID
	role      role.Key
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

type Option func(*Membership)

func WithStatus(status Status) Option {
	return func(m *Membership) {
		m.status = status
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(m *Membership) {
		m.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(m *Membership) {
		m.updatedAt = updatedAt
	}
}

func New(tenantID, userID uuid.UUID, roleKey role.Key, opts ...Option) *Membership {
	m := &Membership{
		tenantID:  tenantID,
		userID:    userID,
		role:      roleKey,
		status:    StatusActive,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Membership) TenantID() uuid.UUID {
	return m.tenantID
}

func (m *Membership) UserID() uuid.UUID {
	return m.userID
}

func (m *Membership) Role() role.Key {
	return m.role
}

func (m *Membership) Status() Status {
	return m.status
}

func (m *Membership) IsActive() bool {
	return m.status == StatusActive
}

func (m *Membership) CreatedAt() time.Time {
	return m.createdAt
}

func (m *Membership) UpdatedAt() time.Time {
	return m.updatedAt
}

func (m *Membership) SetRole(key role.Key) {
	m.role = key
	m.updatedAt = time.Now()
}

func (m *Membership) SetStatus(status Status) {
	m.status = status
	m.updatedAt = time.Now()
}

type Repository interface {
	// GetActive returns the active membership linking user and tenant.
	GetActive(ctx context.Context, userID, tenantID uuid.UUID) (*Membership, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Membership, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Membership, error)
	Create(ctx context.Context, m *Membership) (*Membership, error)
	Update(ctx context.Context, m *Membership) (*Membership, error)
	Delete(ctx context.Context, userID, tenantID uuid.UUID) error
}
