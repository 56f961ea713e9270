package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/brandassets/dam/modules/core/domain/aggregates/user"
	"github.com/brandassets/dam/modules/core/domain/entities/session"
	"github.com/brandassets/dam/modules/core/infrastructure/persistence"
	"github.com/brandassets/dam/pkg/composables"
	"github.com/brandassets/dam/pkg/configuration"
	"github.com/brandassets/dam/pkg/eventbus"
	"github.com/brandassets/dam/pkg/serrors"
)

// ErrInvalidCredentials collapses "unknown email" and "wrong password" into
// one outcome.
var ErrInvalidCredentials = serrors.NewError("invalid_credentials", "invalid email or password", "")

type AuthService struct {
	users     user.Repository
	sessions  session.Repository
	publisher eventbus.EventBus
}

func NewAuthService(
	users user.Repository,
	sessions session.Repository,
	publisher eventbus.EventBus,
) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		publisher: publisher,
	}
}

// AuthenticateEmail verifies credentials and opens a session. tenantID may
// be uuid.Nil for logins on the public or system-admin hosts.
func (s *AuthService) AuthenticateEmail(ctx context.Context, email, password string, tenantID uuid.UUID) (*user.User, *session.Session, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, persistence.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !u.CheckPassword(password) {
		return nil, nil, ErrInvalidCredentials
	}

	sess, err := s.OpenSession(ctx, u.ID(), tenantID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.users.UpdateLastLogin(ctx, u.ID()); err != nil {
		composables.UseLogger(ctx).WithError(err).Warn("failed to update last login")
	}

	return u, sess, nil
}

// OpenSession creates a session row for an already-verified user. The
// bridge redemption path uses it directly: the user proved identity on a
// sibling subdomain, so no password check is repeated here.
func (s *AuthService) OpenSession(ctx context.Context, userID, tenantID uuid.UUID) (*session.Session, error) {
	conf := configuration.Use()

	ip, ok := composables.UseIP(ctx)
	if !ok {
		ip = "0.0.0.0"
	}
	userAgent, ok := composables.UseUserAgent(ctx)
	if !ok {
		userAgent = "Unknown"
	}

	token, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	dto := &session.CreateDTO{
		Token:     token,
		UserID:    userID,
		TenantID:  tenantID,
		IP:        ip,
		UserAgent: userAgent,
		ExpiresAt: time.Now().Add(conf.SessionDuration),
	}
	sess := dto.ToEntity()
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	s.publisher.Publish(session.CreatedEvent{Result: *sess})
	return sess, nil
}

// Authorize resolves a session token from the sid cookie, rejecting
// expired rows.
func (s *AuthService) Authorize(ctx context.Context, token string) (*session.Session, error) {
	sess, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess.Expired() {
		return nil, persistence.ErrSessionNotFound
	}
	return sess, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// SessionCookie scopes the sid cookie to the shared parent domain in
// production so the session is visible on every tenant subdomain.
func (s *AuthService) SessionCookie(sess *session.Session) *http.Cookie {
	conf := configuration.Use()
	domain := ""
	if conf.GoAppEnvironment == configuration.Production {
		domain = conf.Tenancy.CookieDomain
	}
	return &http.Cookie{
		Name:     conf.SidCookieKey,
		Value:    sess.Token,
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   conf.GoAppEnvironment == configuration.Production,
		Domain:   domain,
		Path:     "/",
	}
}

func newSessionToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
