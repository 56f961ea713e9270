package tag

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tag is a per-tenant label. Names are unique within a tenant.
type Tag struct {
	id        uuid.UUID
	tenantID  uuid.UUID
	name      string
	createdAt time.Time
}

type Option func(t *Tag)

func WithID(id uuid.UUID) Option {
	return func(t *Tag) {
		t.id = id
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(t *Tag) {
		t.createdAt = createdAt
	}
}

func New(tenantID uuid.UUID, name string, opts ...Option) *Tag {
	t := &Tag{
		id:        uuid.New(),
		tenantID:  tenantID,
		name:      name,
		createdAt: time.Now(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tag) ID() uuid.UUID {
	return t.id
}

func (t *Tag) TenantID() uuid.UUID {
	return t.tenantID
}

func (t *Tag) Name() string {
	return t.name
}

func (t *Tag) CreatedAt() time.Time {
	return t.createdAt
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Tag, error)
	GetByName(ctx context.Context, tenantID uuid.UUID, name string) (*Tag, error)
	Create(ctx context.Context, t *Tag) (*Tag, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*Tag, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
