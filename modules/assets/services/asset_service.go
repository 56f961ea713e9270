package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/brandassets/dam/modules/assets/domain/entities/asset"
	"github.com/brandassets/dam/modules/assets/domain/entities/tag"
	"github.com/brandassets/dam/modules/assets/infrastructure/persistence"
	"github.com/brandassets/dam/modules/assets/infrastructure/storage"
	"github.com/brandassets/dam/modules/core/domain/entities/role"
	"github.com/brandassets/dam/modules/core/domain/entities/tenant"
	"github.com/brandassets/dam/pkg/composables"
	"github.com/brandassets/dam/pkg/eventbus"
)

var (
	ErrQuotaExceeded = fmt.Errorf("tenant storage quota exceeded")
	ErrForbidden     = fmt.Errorf("insufficient role")
)

type AssetUploadedEvent struct {
	Result asset.Asset
}

type AssetDeletedEvent struct {
	Result asset.Asset
}

type AssetService struct {
	repo      asset.Repository
	tags      tag.Repository
	tenants   tenant.Repository
	store     storage.ObjectStorage
	publisher eventbus.EventBus
}

func NewAssetService(
	repo asset.Repository,
	tags tag.Repository,
	tenants tenant.Repository,
	store storage.ObjectStorage,
	publisher eventbus.EventBus,
) *AssetService {
	return &AssetService{
		repo:      repo,
		tags:      tags,
		tenants:   tenants,
		store:     store,
		publisher: publisher,
	}
}

// Upload stores the file under the tenant's prefix and records the asset
// row. The quota check counts only non-deleted assets, so deleting frees
// space immediately.
func (s *AssetService) Upload(ctx context.Context, uploaderID uuid.UUID, name, contentType string, size int64, body io.Reader) (*asset.Asset, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	t, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	used, err := s.repo.UsedBytes(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if used+size > t.StorageQuota() {
		return nil, ErrQuotaExceeded
	}

	id := uuid.New()
	objectKey := storage.ObjectKey(tenantID, id, name)
	if err := s.store.Put(ctx, objectKey, body, size, contentType); err != nil {
		return nil, err
	}

	a := asset.New(tenantID, uploaderID, name, objectKey, contentType, size, asset.WithID(id))
	created, err := s.repo.Create(ctx, a)
	if err != nil {
		// Do not leave an orphaned object behind a failed insert.
		if rmErr := s.store.Remove(ctx, objectKey); rmErr != nil {
			composables.UseLogger(ctx).WithError(rmErr).Warn("failed to remove orphaned object")
		}
		return nil, err
	}

	s.publisher.Publish(AssetUploadedEvent{Result: *created})
	return created, nil
}

// GetByID hides soft-deleted assets the same way it hides other tenants'
// rows: the row stays for audit but the API behaves as if it were gone.
func (s *AssetService) GetByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkTenant(ctx, a); err != nil {
		return nil, err
	}
	if a.IsDeleted() {
		return nil, persistence.ErrAssetNotFound
	}
	return a, nil
}

func (s *AssetService) List(ctx context.Context, params asset.FindParams) ([]*asset.Asset, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	params.TenantID = tenantID
	return s.repo.List(ctx, params)
}

func (s *AssetService) Count(ctx context.Context, params asset.FindParams) (int, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	params.TenantID = tenantID
	return s.repo.Count(ctx, params)
}

func (s *AssetService) Rename(ctx context.Context, id uuid.UUID, name string) (*asset.Asset, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canModify(ctx, a); err != nil {
		return nil, err
	}
	a.Rename(name)
	return s.repo.Update(ctx, a)
}

// Delete soft-deletes the row and removes the stored object. The row stays
// for audit; the bytes stop counting against the quota.
func (s *AssetService) Delete(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canModify(ctx, a); err != nil {
		return nil, err
	}
	a.MarkDeleted()
	deleted, err := s.repo.Update(ctx, a)
	if err != nil {
		return nil, err
	}

	if err := s.store.Remove(ctx, a.ObjectKey()); err != nil {
		composables.UseLogger(ctx).WithError(err).Warn("failed to remove stored object")
	}

	s.publisher.Publish(AssetDeletedEvent{Result: *deleted})
	return deleted, nil
}

func (s *AssetService) DownloadURL(ctx context.Context, id uuid.UUID, expiry time.Duration) (string, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.store.PresignedURL(ctx, a.ObjectKey(), expiry)
}

func (s *AssetService) Tag(ctx context.Context, assetID, tagID uuid.UUID) error {
	a, err := s.GetByID(ctx, assetID)
	if err != nil {
		return err
	}
	tg, err := s.tags.GetByID(ctx, tagID)
	if err != nil {
		return err
	}
	if tg.TenantID() != a.TenantID() {
		return fmt.Errorf("tag %s does not belong to tenant %s", tagID, a.TenantID())
	}
	return s.repo.Tag(ctx, assetID, tagID)
}

func (s *AssetService) Untag(ctx context.Context, assetID, tagID uuid.UUID) error {
	if _, err := s.GetByID(ctx, assetID); err != nil {
		return err
	}
	return s.repo.Untag(ctx, assetID, tagID)
}

func (s *AssetService) Tags(ctx context.Context, assetID uuid.UUID) ([]*tag.Tag, error) {
	if _, err := s.GetByID(ctx, assetID); err != nil {
		return nil, err
	}
	ids, err := s.repo.TagIDs(ctx, assetID)
	if err != nil {
		return nil, err
	}
	out := make([]*tag.Tag, 0, len(ids))
	for _, id := range ids {
		tg, err := s.tags.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, tg)
	}
	return out, nil
}

// canModify lets the uploader manage their own asset; anyone else needs a
// role of at least admin on the tenant.
func canModify(ctx context.Context, a *asset.Asset) error {
	userID, err := composables.UseUserID(ctx)
	if err != nil {
		return err
	}
	if a.UploaderID() == userID {
		return nil
	}
	if role.Key(composables.UseRoleKey(ctx)).AtLeast(role.Admin) {
		return nil
	}
	return ErrForbidden
}

// checkTenant hides other tenants' assets behind the same not-found error
// the repository returns for missing rows.
func (s *AssetService) checkTenant(ctx context.Context, a *asset.Asset) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	if a.TenantID() != tenantID {
		return persistence.ErrAssetNotFound
	}
	return nil
}
