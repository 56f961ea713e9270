package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/brandassets/dam/modules/core/domain/aggregates/user"
	"github.com/brandassets/dam/modules/core/infrastructure/persistence/models"
	"github.com/brandassets/dam/pkg/composables"
	"github.com/brandassets/dam/pkg/mapping"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

const (
	userFindQuery = `
		SELECT u.id, u.first_name, u.last_name, u.email, u.phone, u.department, u.password_hash, u.last_login, u.created_at, u.updated_at
		FROM users u`

	userUpdateLastLoginQuery = `UPDATE users SET last_login = NOW() WHERE id = $1`
)

type UserRepository struct{}

func NewUserRepository() user.Repository {
	return &UserRepository{}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	users, err := r.queryUsers(ctx, userFindQuery+" WHERE u.id = $1", id.String())
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return users[0], nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	users, err := r.queryUsers(ctx, userFindQuery+" WHERE lower(u.email) = $1", strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return users[0], nil
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	query := `
		INSERT INTO users (id, first_name, last_name, email, phone, department, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
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
		u.ID().String(),
		u.FirstName(),
		u.LastName(),
		strings.ToLower(strings.TrimSpace(u.Email())),
		mapping.ValueToSQLNullString(u.Phone()),
		mapping.ValueToSQLNullString(u.Department()),
		mapping.ValueToSQLNullString(u.PasswordHash()),
		u.CreatedAt(),
		u.UpdatedAt(),
	).Scan(&idStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) (*user.User, error) {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, email = $3, phone = $4, department = $5, password_hash = $6, updated_at = $7
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
		u.FirstName(),
		u.LastName(),
		strings.ToLower(strings.TrimSpace(u.Email())),
		mapping.ValueToSQLNullString(u.Phone()),
		mapping.ValueToSQLNullString(u.Department()),
		mapping.ValueToSQLNullString(u.PasswordHash()),
		u.UpdatedAt(),
		u.ID().String(),
	).Scan(&idStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) List(ctx context.Context, params user.FindParams) ([]*user.User, error) {
	query := userFindQuery
	args := []interface{}{}
	conditions := []string{}

	if params.TenantID != uuid.Nil {
		args = append(args, params.TenantID.String())
		query += " JOIN tenant_users tu ON tu.user_id = u.id"
		conditions = append(conditions, fmt.Sprintf("tu.tenant_id = $%d", len(args)))
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(u.first_name ILIKE $%d OR u.last_name ILIKE $%d OR u.email ILIKE $%d)", n, n, n))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY u.created_at DESC"
	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", params.Limit, params.Offset)
	}

	return r.queryUsers(ctx, query, args...)
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, userUpdateLastLoginQuery, id.String())
	return err
}

func (r *UserRepository) queryUsers(ctx context.Context, query string, args ...interface{}) ([]*user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID,
			&u.FirstName,
			&u.LastName,
			&u.Email,
			&u.Phone,
			&u.Department,
			&u.PasswordHash,
			&u.LastLogin,
			&u.CreatedAt,
			&u.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan user row")
		}
		users = append(users, toDomainUser(&u))
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}

	return users, nil
}
