package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is a server-side session row keyed by an opaque token carried in
// the sid cookie. TenantID is uuid.Nil for sessions established on the
// public or system-admin hosts.
type Session struct {
	Token     string
	UserID    uuid.UUID
	TenantID  uuid.UUID
	IP        string
	UserAgent string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

type CreateDTO struct {
	Token     string
	UserID    uuid.UUID
	TenantID  uuid.UUID
	IP        string
	UserAgent string
	ExpiresAt time.Time
}

func (d *CreateDTO) ToEntity() *Session {
	return &Session{
		Token:     d.Token,
		UserID:    d.UserID,
		TenantID:  d.TenantID,
		IP:        d.IP,
		UserAgent: d.UserAgent,
		ExpiresAt: d.ExpiresAt,
		CreatedAt: time.Now(),
	}
}

// CreatedEvent fires on successful authentication.
type CreatedEvent struct {
	Result Session
}

type Repository interface {
	GetByToken(ctx context.Context, token string) (*Session, error)
	Create(ctx context.Context, s *Session) error
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
