package persistence

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/brandassets/dam/modules/core/domain/entities/systemadmin"
	"github.com/brandassets/dam/modules/core/infrastructure/persistence/models"
	"github.com/brandassets/dam/pkg/composables"
	"github.com/brandassets/dam/pkg/mapping"
)

const (
	systemAdminExistsQuery = `SELECT EXISTS(SELECT 1 FROM system_admins WHERE user_id = $1)`
	systemAdminListQuery   = `SELECT user_id, granted_by, created_at FROM system_admins ORDER BY created_at`
	systemAdminInsertQuery = `
		INSERT INTO system_admins (user_id, granted_by, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING`
	systemAdminDeleteQuery = `DELETE FROM system_admins WHERE user_id = $1`
)

type SystemAdminRepository struct{}

func NewSystemAdminRepository() systemadmin.Repository {
	return &SystemAdminRepository{}
}

func (r *SystemAdminRepository) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, errors.Wrap(err, "failed to get transaction")
	}

	var exists bool
	if err := tx.QueryRow(ctx, systemAdminExistsQuery, userID.String()).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "failed to query system admin registry")
	}
	return exists, nil
}

func (r *SystemAdminRepository) List(ctx context.Context) ([]*systemadmin.SystemAdmin, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, systemAdminListQuery)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var admins []*systemadmin.SystemAdmin
	for rows.Next() {
		var a models.SystemAdmin
		if err := rows.Scan(&a.UserID, &a.GrantedBy, &a.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan system admin row")
		}
		admins = append(admins, toDomainSystemAdmin(&a))
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}

	return admins, nil
}

func (r *SystemAdminRepository) Add(ctx context.Context, admin *systemadmin.SystemAdmin) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	var grantedBy *string
	if admin.GrantedBy != uuid.Nil {
		v := admin.GrantedBy.String()
		grantedBy = &v
	}

	createdAt := admin.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = tx.Exec(
		ctx,
		systemAdminInsertQuery,
		admin.UserID.String(),
		mapping.PointerToSQLNullString(grantedBy),
		createdAt,
	)
	return errors.Wrap(err, "failed to insert system admin")
}

func (r *SystemAdminRepository) Remove(ctx context.Context, userID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, systemAdminDeleteQuery, userID.String())
	return err
}
