package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/brandassets/dam/modules/assets/domain/entities/tag"
	"github.com/brandassets/dam/modules/assets/infrastructure/persistence/models"
	"github.com/brandassets/dam/pkg/composables"
)

var (
	ErrTagNotFound = fmt.Errorf("tag not found")
)

const (
	tagFindQuery = `
		SELECT id, tenant_id, name, created_at
		FROM tags`
)

type TagRepository struct{}

func NewTagRepository() tag.Repository {
	return &TagRepository{}
}

func (r *TagRepository) GetByID(ctx context.Context, id uuid.UUID) (*tag.Tag, error) {
	query := tagFindQuery + " WHERE id = $1"
	tags, err := r.queryTags(ctx, query, id.String())
	if err != nil {
		return nil, err
	}

	if len(tags) == 0 {
		return nil, ErrTagNotFound
	}

	return tags[0], nil
}

func (r *TagRepository) GetByName(ctx context.Context, tenantID uuid.UUID, name string) (*tag.Tag, error) {
	query := tagFindQuery + " WHERE tenant_id = $1 AND LOWER(name) = $2"
	tags, err := r.queryTags(ctx, query, tenantID.String(), strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return nil, err
	}

	if len(tags) == 0 {
		return nil, ErrTagNotFound
	}

	return tags[0], nil
}

func (r *TagRepository) Create(ctx context.Context, t *tag.Tag) (*tag.Tag, error) {
	query := `
		INSERT INTO tags (id, tenant_id, name, created_at)
		VALUES ($1, $2, $3, $4)
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
		t.TenantID().String(),
		t.Name(),
		t.CreatedAt(),
	).Scan(&idStr); err != nil {
		return nil, errors.Wrap(err, "failed to insert tag")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *TagRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*tag.Tag, error) {
	query := tagFindQuery + " WHERE tenant_id = $1 ORDER BY name"
	return r.queryTags(ctx, query, tenantID.String())
}

func (r *TagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM asset_tags WHERE tag_id = $1`, id.String()); err != nil {
		return errors.Wrap(err, "failed to detach tag")
	}
	if _, err := tx.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id.String()); err != nil {
		return errors.Wrap(err, "failed to delete tag")
	}
	return nil
}

func (r *TagRepository) queryTags(ctx context.Context, query string, args ...interface{}) ([]*tag.Tag, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var tags []*tag.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(
			&t.ID,
			&t.TenantID,
			&t.Name,
			&t.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan tag row")
		}
		tags = append(tags, toDomainTag(&t))
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate tag rows")
	}
	return tags, nil
}
