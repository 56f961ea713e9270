package tenant

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

type Tenant struct {
	id             uuid.UUID
	name           string
	slug           string
	customDomain   *string
	status         Status
	brandPrimary   string
	brandSecondary string
	storageQuota   int64
	createdAt      time.Time
	updatedAt      time.Time
}

type Option func(*Tenant)

func WithID(id uuid.UUID) Option {
	return func(t *Tenant) {
		t.id = id
	}
}

func WithCustomDomain(domain *string) Option {
	return func(t *Tenant) {
		t.customDomain = domain
	}
}

func WithStatus(status Status) Option {
	return func(t *Tenant) {
		t.status = status
	}
}

func WithBrandColors(primary, secondary string) Option {
	return func(t *Tenant) {
		t.brandPrimary = primary
		t.brandSecondary = secondary
	}
}

func WithStorageQuota(quota int64) Option {
	return func(t *Tenant) {
		t.storageQuota = quota
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(t *Tenant) {
		t.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(t *Tenant) {
		t.updatedAt = updatedAt
	}
}

// DefaultStorageQuota is 10 GiB.
const DefaultStorageQuota int64 = 10 << 30

func New(name, slug string, opts ...Option) *Tenant {
	t := &Tenant{
		id:           uuid.New(),
		name:         name,
		slug:         slug,
		status:       StatusActive,
		storageQuota: DefaultStorageQuota,
		createdAt:    time.Now(),
		updatedAt:    time.Now(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tenant) ID() uuid.UUID {
	return t.id
}

func (t *Tenant) Name() string {
	return t.name
}

func (t *Tenant) Slug() string {
	return t.slug
}

func (t *Tenant) CustomDomain() *string {
	return t.customDomain
}

func (t *Tenant) Status() Status {
	return t.status
}

func (t *Tenant) IsActive() bool {
	return t.status == StatusActive
}

func (t *Tenant) BrandPrimary() string {
	return t.brandPrimary
}

func (t *Tenant) BrandSecondary() string {
	return t.brandSecondary
}

func (t *Tenant) StorageQuota() int64 {
	return t.storageQuota
}

func (t *Tenant) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Tenant) UpdatedAt() time.Time {
	return t.updatedAt
}

func (t *Tenant) SetName(name string) {
	t.name = name
	t.updatedAt = time.Now()
}

func (t *Tenant) SetStatus(status Status) {
	t.status = status
	t.updatedAt = time.Now()
}

func (t *Tenant) SetBrandColors(primary, secondary string) {
	t.brandPrimary = primary
	t.brandSecondary = secondary
	t.updatedAt = time.Now()
}

func (t *Tenant) SetCustomDomain(domain *string) {
	t.customDomain = domain
	t.updatedAt = time.Now()
}

func (t *Tenant) SetStorageQuota(quota int64) {
	t.storageQuota = quota
	t.updatedAt = time.Now()
}
