package asset

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	TenantID uuid.UUID
	Kind     Kind
	TagID    uuid.UUID
	Search   string
	Limit    int
	Offset   int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Asset, error)
	Create(ctx context.Context, a *Asset) (*Asset, error)
	Update(ctx context.Context, a *Asset) (*Asset, error)
	// List excludes soft-deleted assets.
	List(ctx context.Context, params FindParams) ([]*Asset, error)
	Count(ctx context.Context, params FindParams) (int, error)
	// UsedBytes sums the size of non-deleted assets for quota checks.
	UsedBytes(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Tag(ctx context.Context, assetID, tagID uuid.UUID) error
	Untag(ctx context.Context, assetID, tagID uuid.UUID) error
	TagIDs(ctx context.Context, assetID uuid.UUID) ([]uuid.UUID, error)
}
