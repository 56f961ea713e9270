package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/brandassets/dam/modules/assets/domain/entities/asset"
	"github.com/brandassets/dam/modules/assets/infrastructure/persistence/models"
	"github.com/brandassets/dam/pkg/composables"
)

var (
	ErrAssetNotFound = fmt.Errorf("asset not found")
)

const (
	assetFindQuery = `
		SELECT a.id, a.tenant_id, a.uploader_id, a.name, a.object_key, a.mimetype, a.size_bytes, a.kind, a.status, a.created_at, a.updated_at
		FROM assets a`
)

type AssetRepository struct{}

func NewAssetRepository() asset.Repository {
	return &AssetRepository{}
}

func (r *AssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	query := assetFindQuery + " WHERE a.id = $1"
	assets, err := r.queryAssets(ctx, query, id.String())
	if err != nil {
		return nil, err
	}

	if len(assets) == 0 {
		return nil, ErrAssetNotFound
	}

	return assets[0], nil
}

func (r *AssetRepository) Create(ctx context.Context, a *asset.Asset) (*asset.Asset, error) {
	query := `
		INSERT INTO assets (id, tenant_id, uploader_id, name, object_key, mimetype, size_bytes, kind, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var idStr string
	if err := tx.QueryRow(
		ctx,
		query,
		a.ID().String(),
		a.TenantID().String(),
		a.UploaderID().String(),
		a.Name(),
		a.ObjectKey(),
		a.Mimetype(),
		a.SizeBytes(),
		string(a.Kind()),
		string(a.Status()),
		a.CreatedAt(),
		a.UpdatedAt(),
	).Scan(&idStr); err != nil {
		return nil, errors.Wrap(err, "failed to insert asset")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *AssetRepository) Update(ctx context.Context, a *asset.Asset) (*asset.Asset, error) {
	query := `
		UPDATE assets
		SET name = $1, status = $2, updated_at = $3
		WHERE id = $4
		RETURNING id
	`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var idStr string
	if err := tx.QueryRow(
		ctx,
		query,
		a.Name(),
		string(a.Status()),
		a.UpdatedAt(),
		a.ID().String(),
	).Scan(&idStr); err != nil {
		return nil, errors.Wrap(err, "failed to update asset")
	}

	return r.GetByID(ctx, a.ID())
}

func (r *AssetRepository) List(ctx context.Context, params asset.FindParams) ([]*asset.Asset, error) {
	query, args := buildAssetFilter(assetFindQuery, params)
	query += " ORDER BY a.created_at DESC"
	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", params.Limit, params.Offset)
	}
	return r.queryAssets(ctx, query, args...)
}

func (r *AssetRepository) Count(ctx context.Context, params asset.FindParams) (int, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	query, args := buildAssetFilter(`SELECT COUNT(*) FROM assets a`, params)

	var count int
	if err := tx.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count assets")
	}
	return count, nil
}

func (r *AssetRepository) UsedBytes(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	query := `SELECT COALESCE(SUM(size_bytes), 0) FROM assets WHERE tenant_id = $1 AND status != 'deleted'`

	var used int64
	if err := tx.QueryRow(ctx, query, tenantID.String()).Scan(&used); err != nil {
		return 0, errors.Wrap(err, "failed to sum asset sizes")
	}
	return used, nil
}

func (r *AssetRepository) Tag(ctx context.Context, assetID, tagID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO asset_tags (asset_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	if _, err := tx.Exec(ctx, query, assetID.String(), tagID.String()); err != nil {
		return errors.Wrap(err, "failed to tag asset")
	}
	return nil
}

func (r *AssetRepository) Untag(ctx context.Context, assetID, tagID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	query := `DELETE FROM asset_tags WHERE asset_id = $1 AND tag_id = $2`
	if _, err := tx.Exec(ctx, query, assetID.String(), tagID.String()); err != nil {
		return errors.Wrap(err, "failed to untag asset")
	}
	return nil
}

func (r *AssetRepository) TagIDs(ctx context.Context, assetID uuid.UUID) ([]uuid.UUID, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT tag_id FROM asset_tags WHERE asset_id = $1`
	rows, err := tx.Query(ctx, query, assetID.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to query asset tags")
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var idStr string
		if err := rows.Scan(&idStr); err != nil {
			return nil, errors.Wrap(err, "failed to scan tag id")
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// buildAssetFilter appends WHERE clauses for the optional filters. Deleted
// assets are always excluded from listings.
func buildAssetFilter(query string, params asset.FindParams) (string, []interface{}) {
	where := []string{"a.status != 'deleted'"}
	args := []interface{}{}

	if params.TenantID != uuid.Nil {
		args = append(args, params.TenantID.String())
		where = append(where, fmt.Sprintf("a.tenant_id = $%d", len(args)))
	}
	if params.Kind != "" {
		args = append(args, string(params.Kind))
		where = append(where, fmt.Sprintf("a.kind = $%d", len(args)))
	}
	if params.TagID != uuid.Nil {
		args = append(args, params.TagID.String())
		where = append(where, fmt.Sprintf("a.id IN (SELECT asset_id FROM asset_tags WHERE tag_id = $%d)", len(args)))
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		where = append(where, fmt.Sprintf("a.name ILIKE $%d", len(args)))
	}

	query += " WHERE " + where[0]
	for _, w := range where[1:] {
		query += " AND " + w
	}
	return query, args
}

func (r *AssetRepository) queryAssets(ctx context.Context, query string, args ...interface{}) ([]*asset.Asset, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var assets []*asset.Asset
	for rows.Next() {
		var a models.Asset
		if err := rows.Scan(
			&a.ID,
			&a.TenantID,
			&a.UploaderID,
			&a.Name,
			&a.ObjectKey,
			&a.Mimetype,
			&a.SizeBytes,
			&a.Kind,
			&a.Status,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan asset row")
		}
		assets = append(assets, toDomainAsset(&a))
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate asset rows")
	}
	return assets, nil
}
