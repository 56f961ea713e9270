package persistence

import (
	"github.com/google/uuid"

	"github.com/brandassets/dam/modules/assets/domain/entities/asset"
	"github.com/brandassets/dam/modules/assets/domain/entities/tag"
	"github.com/brandassets/dam/modules/assets/infrastructure/persistence/models"
)

func toDomainAsset(a *models.Asset) *asset.Asset {
	id, err := uuid.Parse(a.ID)
	if err != nil {
		id = uuid.Nil
	}
	tenantID, err := uuid.Parse(a.TenantID)
	if err != nil {
		tenantID = uuid.Nil
	}
	uploaderID, err := uuid.Parse(a.UploaderID)
	if err != nil {
		uploaderID = uuid.Nil
	}

	out := asset.New(
		tenantID,
		uploaderID,
		a.Name,
		a.ObjectKey,
		a.Mimetype,
		a.SizeBytes,
		asset.WithID(id),
		asset.WithStatus(asset.Status(a.Status)),
		asset.WithCreatedAt(a.CreatedAt),
		asset.WithUpdatedAt(a.UpdatedAt),
	)
	return out
}

func toDomainTag(t *models.Tag) *tag.Tag {
	id, err := uuid.Parse(t.ID)
	if err != nil {
		id = uuid.Nil
	}
	tenantID, err := uuid.Parse(t.TenantID)
	if err != nil {
		tenantID = uuid.Nil
	}

	return tag.New(
		tenantID,
		t.Name,
		tag.WithID(id),
		tag.WithCreatedAt(t.CreatedAt),
	)
}
