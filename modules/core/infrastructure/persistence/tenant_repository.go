package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/brandassets/dam/modules/core/domain/entities/tenant"
	"github.com/brandassets/dam/modules/core/infrastructure/persistence/models"
	"github.com/brandassets/dam/pkg/composables"
	"github.com/brandassets/dam/pkg/mapping"
)

var (
	ErrTenantNotFound = fmt.Errorf("tenant not found")
)

const (
	tenantFindQuery = `
		SELECT id, name, slug, custom_domain, status, brand_primary, brand_secondary, storage_quota, created_at, updated_at
		FROM tenants`
)

type TenantRepository struct{}

func NewTenantRepository() tenant.Repository {
	return &TenantRepository{}
}

func (r *TenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	query := tenantFindQuery + " WHERE id = $1"
	tenants, err := r.queryTenants(ctx, query, id.String())
	if err != nil {
		return nil, err
	}

	if len(tenants) == 0 {
		return nil, ErrTenantNotFound
	}

	return tenants[0], nil
}

func (r *TenantRepository) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	query := tenantFindQuery + " WHERE slug = $1"
	tenants, err := r.queryTenants(ctx, query, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, err
	}

	if len(tenants) == 0 {
		return nil, ErrTenantNotFound
	}

	return tenants[0], nil
}

func (r *TenantRepository) Create(ctx context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	query := `
		INSERT INTO tenants (id, name, slug, custom_domain, status, brand_primary, brand_secondary, storage_quota, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
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
		t.ID().String(),
		t.Name(),
		strings.ToLower(strings.TrimSpace(t.Slug())),
		mapping.PointerToSQLNullString(t.CustomDomain()),
		string(t.Status()),
		mapping.ValueToSQLNullString(t.BrandPrimary()),
		mapping.ValueToSQLNullString(t.BrandSecondary()),
		t.StorageQuota(),
		t.CreatedAt(),
		t.UpdatedAt(),
	).Scan(&idStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *TenantRepository) Update(ctx context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	query := `
		UPDATE tenants
		SET name = $1, custom_domain = $2, status = $3, brand_primary = $4, brand_secondary = $5, storage_quota = $6, updated_at = $7
		WHERE id = $8
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
		t.Name(),
		mapping.PointerToSQLNullString(t.CustomDomain()),
		string(t.Status()),
		mapping.ValueToSQLNullString(t.BrandPrimary()),
		mapping.ValueToSQLNullString(t.BrandSecondary()),
		t.StorageQuota(),
		t.UpdatedAt(),
		t.ID().String(),
	).Scan(&idStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *TenantRepository) List(ctx context.Context, params tenant.FindParams) ([]*tenant.Tenant, error) {
	query := tenantFindQuery
	args := []interface{}{}
	if params.Search != "" {
		query += " WHERE name ILIKE $1 OR slug ILIKE $1"
		args = append(args, "%"+params.Search+"%")
	}
	query += " ORDER BY created_at DESC"
	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", params.Limit, params.Offset)
	}
	return r.queryTenants(ctx, query, args...)
}

func (r *TenantRepository) Count(ctx context.Context, params tenant.FindParams) (int, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	query := `SELECT COUNT(*) FROM tenants`
	args := []interface{}{}
	if params.Search != "" {
		query += " WHERE name ILIKE $1 OR slug ILIKE $1"
		args = append(args, "%"+params.Search+"%")
	}

	var count int
	if err := tx.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count tenants")
	}
	return count, nil
}

func (r *TenantRepository) queryTenants(ctx context.Context, query string, args ...interface{}) ([]*tenant.Tenant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var tenants []*tenant.Tenant
	for rows.Next() {
		var t models.Tenant
		if err := rows.Scan(
			&t.ID,
			&t.Name,
			&t.Slug,
			&t.CustomDomain,
			&t.Status,
			&t.BrandPrimary,
			&t.BrandSecondary,
			&t.StorageQuota,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan tenant row")
		}
		tenants = append(tenants, toDomainTenant(&t))
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}

	return tenants, nil
}
