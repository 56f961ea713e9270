package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/brandassets/dam/modules/core/domain/entities/membership"
	"github.com/brandassets/dam/modules/core/infrastructure/persistence/models"
	"github.com/brandassets/dam/pkg/composables"
)

var (
	ErrMembershipNotFound = fmt.Errorf("membership not found")
)

const (
	membershipFindQuery = `
		SELECT tu.tenant_id, tu.user_id, r.key, tu.status, tu.created_at, tu.updated_at
		FROM tenant_users tu
		JOIN roles r ON r.id = tu.role_id`

	membershipInsertQuery = `
		INSERT INTO tenant_users (tenant_id, user_id, role_id, status, created_at, updated_at)
		VALUES ($1, $2, (SELECT id FROM roles WHERE key = $3), $4, $5, $6)`

	membershipUpdateQuery = `
		UPDATE tenant_users
		SET role_id = (SELECT id FROM roles WHERE key = $1), status = $2, updated_at = $3
		WHERE tenant_id = $4 AND user_id = $5`

	membershipDeleteQuery = `DELETE FROM tenant_users WHERE user_id = $1 AND tenant_id = $2`
)

type MembershipRepository struct{}

func NewMembershipRepository() membership.Repository {
	return &MembershipRepository{}
}

func (r *MembershipRepository) GetActive(ctx context.Context, userID, tenantID uuid.UUID) (*membership.Membership, error) {
	query := membershipFindQuery + " WHERE tu.user_id = $1 AND tu.tenant_id = $2 AND tu.status = 'active'"
	memberships, err := r.queryMemberships(ctx, query, userID.String(), tenantID.String())
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, ErrMembershipNotFound
	}
	return memberships[0], nil
}

func (r *MembershipRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*membership.Membership, error) {
	query := membershipFindQuery + " WHERE tu.tenant_id = $1 ORDER BY tu.created_at"
	return r.queryMemberships(ctx, query, tenantID.String())
}

func (r *MembershipRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*membership.Membership, error) {
	query := membershipFindQuery + " WHERE tu.user_id = $1 ORDER BY tu.created_at"
	return r.queryMemberships(ctx, query, userID.String())
}

func (r *MembershipRepository) Create(ctx context.Context, m *membership.Membership) (*membership.Membership, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(
		ctx,
		membershipInsertQuery,
		m.TenantID().String(),
		m.UserID().String(),
		string(m.Role()),
		string(m.Status()),
		m.CreatedAt(),
		m.UpdatedAt(),
	); err != nil {
		return nil, errors.Wrap(err, "failed to insert membership")
	}

	return m, nil
}

func (r *MembershipRepository) Update(ctx context.Context, m *membership.Membership) (*membership.Membership, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	tag, err := tx.Exec(
		ctx,
		membershipUpdateQuery,
		string(m.Role()),
		string(m.Status()),
		m.UpdatedAt(),
		m.TenantID().String(),
		m.UserID().String(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update membership")
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrMembershipNotFound
	}

	return m, nil
}

func (r *MembershipRepository) Delete(ctx context.Context, userID, tenantID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, membershipDeleteQuery, userID.String(), tenantID.String())
	return err
}

func (r *MembershipRepository) queryMemberships(ctx context.Context, query string, args ...interface{}) ([]*membership.Membership, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var memberships []*membership.Membership
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(
			&m.TenantID,
			&m.UserID,
			&m.RoleKey,
			&m.Status,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan membership row")
		}
		memberships = append(memberships, toDomainMembership(&m))
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}

	return memberships, nil
}
