package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/brandassets/dam/modules/core/domain/entities/session"
	"github.com/brandassets/dam/modules/core/infrastructure/persistence/models"
	"github.com/brandassets/dam/pkg/composables"
)

var (
	ErrSessionNotFound = fmt.Errorf("session not found")
)

const (
	sessionFindQuery = `
		SELECT token, user_id, tenant_id, ip, user_agent, expires_at, created_at
		FROM sessions`

	sessionInsertQuery = `
		INSERT INTO sessions (token, user_id, tenant_id, ip, user_agent, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	sessionDeleteQuery        = `DELETE FROM sessions WHERE token = $1`
	sessionDeleteExpiredQuery = `DELETE FROM sessions WHERE expires_at < NOW()`
)

type SessionRepository struct{}

func NewSessionRepository() session.Repository {
	return &SessionRepository{}
}

func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*session.Session, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	var s models.Session
	if err := tx.QueryRow(ctx, sessionFindQuery+" WHERE token = $1", token).Scan(
		&s.Token,
		&s.UserID,
		&s.TenantID,
		&s.IP,
		&s.UserAgent,
		&s.ExpiresAt,
		&s.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, errors.Wrap(err, "failed to query session")
	}

	return toDomainSession(&s), nil
}

func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	var tenantID sql.NullString
	if s.TenantID != uuid.Nil {
		tenantID = sql.NullString{String: s.TenantID.String(), Valid: true}
	}

	_, err = tx.Exec(
		ctx,
		sessionInsertQuery,
		s.Token,
		s.UserID.String(),
		tenantID,
		s.IP,
		s.UserAgent,
		s.ExpiresAt,
		s.CreatedAt,
	)
	return errors.Wrap(err, "failed to insert session")
}

func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, sessionDeleteQuery, token)
	return err
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, sessionDeleteExpiredQuery)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
