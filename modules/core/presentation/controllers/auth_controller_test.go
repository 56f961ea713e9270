package controllers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandassets/dam/modules/core/domain/aggregates/user"
	"github.com/brandassets/dam/modules/core/domain/entities/membership"
	"github.com/brandassets/dam/modules/core/domain/entities/session"
	"github.com/brandassets/dam/modules/core/domain/entities/systemadmin"
	"github.com/brandassets/dam/modules/core/domain/entities/tenant"
	"github.com/brandassets/dam/modules/core/infrastructure/persistence"
	"github.com/brandassets/dam/modules/core/presentation/controllers"
	"github.com/brandassets/dam/modules/core/services"
	"github.com/brandassets/dam/pkg/application"
	"github.com/brandassets/dam/pkg/composables"
	"github.com/brandassets/dam/pkg/eventbus"
	"github.com/brandassets/dam/pkg/middleware"
)

type stubTenantRepo struct {
	tenants map[string]*tenant.Tenant
}

func (s *stubTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	for _, t := range s.tenants {
		if t.ID() == id {
			return t, nil
		}
	}
	return nil, persistence.ErrTenantNotFound
}

func (s *stubTenantRepo) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	t, ok := s.tenants[slug]
	if !ok {
		return nil, persistence.ErrTenantNotFound
	}
	return t, nil
}

func (s *stubTenantRepo) Create(ctx context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	s.tenants[t.Slug()] = t
	return t, nil
}

func (s *stubTenantRepo) Update(ctx context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	s.tenants[t.Slug()] = t
	return t, nil
}

func (s *stubTenantRepo) List(ctx context.Context, params tenant.FindParams) ([]*tenant.Tenant, error) {
	var out []*tenant.Tenant
	for _, t := range s.tenants {
		out = append(out, t)
	}
	return out, nil
}

func (s *stubTenantRepo) Count(ctx context.Context, params tenant.FindParams) (int, error) {
	return len(s.tenants), nil
}

type stubMembershipRepo struct {
	memberships []*membership.Membership
}

func (s *stubMembershipRepo) GetActive(ctx context.Context, userID, tenantID uuid.UUID) (*membership.Membership, error) {
	for _, m := range s.memberships {
		if m.UserID() == userID && m.TenantID() == tenantID && m.IsActive() {
			return m, nil
		}
	}
	return nil, persistence.ErrMembershipNotFound
}

func (s *stubMembershipRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*membership.Membership, error) {
	return s.memberships, nil
}

func (s *stubMembershipRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*membership.Membership, error) {
	return s.memberships, nil
}

func (s *stubMembershipRepo) Create(ctx context.Context, m *membership.Membership) (*membership.Membership, error) {
	s.memberships = append(s.memberships, m)
	return m, nil
}

func (s *stubMembershipRepo) Update(ctx context.Context, m *membership.Membership) (*membership.Membership, error) {
	return m, nil
}

func (s *stubMembershipRepo) Delete(ctx context.Context, userID, tenantID uuid.UUID) error {
	return nil
}

type stubSystemAdminRepo struct {
	admins map[uuid.UUID]bool
}

func (s *stubSystemAdminRepo) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.admins[userID], nil
}

func (s *stubSystemAdminRepo) List(ctx context.Context) ([]*systemadmin.SystemAdmin, error) {
	return nil, nil
}

func (s *stubSystemAdminRepo) Add(ctx context.Context, admin *systemadmin.SystemAdmin) error {
	s.admins[admin.UserID] = true
	return nil
}

func (s *stubSystemAdminRepo) Remove(ctx context.Context, userID uuid.UUID) error {
	delete(s.admins, userID)
	return nil
}

type stubUserRepo struct {
	users map[uuid.UUID]*user.User
}

func (s *stubUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, persistence.ErrUserNotFound
	}
	return u, nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range s.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, persistence.ErrUserNotFound
}

func (s *stubUserRepo) Create(ctx context.Context, u *user.User) (*user.User, error) {
	s.users[u.ID()] = u
	return u, nil
}

func (s *stubUserRepo) Update(ctx context.Context, u *user.User) (*user.User, error) {
	s.users[u.ID()] = u
	return u, nil
}

func (s *stubUserRepo) List(ctx context.Context, params user.FindParams) ([]*user.User, error) {
	var out []*user.User
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubSessionRepo struct {
	sessions map[string]*session.Session
}

func (s *stubSessionRepo) GetByToken(ctx context.Context, token string) (*session.Session, error) {
	sess, ok := s.sessions[token]
	if !ok {
		return nil, persistence.ErrSessionNotFound
	}
	return sess, nil
}

func (s *stubSessionRepo) Create(ctx context.Context, sess *session.Session) error {
	s.sessions[sess.Token] = sess
	return nil
}

func (s *stubSessionRepo) Delete(ctx context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func (s *stubSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

type bridgeFixture struct {
	router   *mux.Router
	bridge   *services.BridgeService
	sessions *stubSessionRepo
	userID   uuid.UUID
	tenantID uuid.UUID
}

func newBridgeFixture(t *testing.T) *bridgeFixture {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app := application.New(&application.ApplicationOptions{
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})

	acme := tenant.New("Acme Inc", "acme")
	tenants := &stubTenantRepo{tenants: map[string]*tenant.Tenant{"acme": acme}}
	memberships := &stubMembershipRepo{}
	admins := &stubSystemAdminRepo{admins: map[uuid.UUID]bool{}}
	users := &stubUserRepo{users: map[uuid.UUID]*user.User{}}
	sessions := &stubSessionRepo{sessions: map[string]*session.Session{}}

	u := user.New("Jane", "Doe", "jane@acme.test")
	require.NoError(t, u.SetPassword("correct horse"))
	users.users[u.ID()] = u

	bridge := services.NewBridgeService("0123456789abcdef0123456789abcdef", 30*time.Second)

	app.RegisterServices(
		services.NewTenantService(tenants, memberships, admins),
		services.NewRoleService(memberships, admins),
		services.NewAuthService(users, sessions, app.EventPublisher()),
		services.NewUserService(users, app.EventPublisher()),
		bridge,
	)

	router := mux.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := composables.WithLogger(r.Context(), logrus.NewEntry(logger))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	router.Use(middleware.ClassifyHost())
	controllers.NewAuthController(app).Register(router)

	return &bridgeFixture{
		router:   router,
		bridge:   bridge,
		sessions: sessions,
		userID:   u.ID(),
		tenantID: acme.ID(),
	}
}

func TestAuthController_RedeemBridge(t *testing.T) {
	t.Run("valid token opens session on target host", func(t *testing.T) {
		f := newBridgeFixture(t)
		token, err := f.bridge.Issue(f.userID, "acme.brandassets.space")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/auth/bridge/redeem?token="+token+"&next=/dashboard", nil)
		req.Host = "acme.brandassets.space"
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

		var sid string
		for _, c := range rec.Result().Cookies() {
			if c.Name == "sid" {
				sid = c.Value
			}
		}
		require.NotEmpty(t, sid, "expected a session cookie")
		sess, err := f.sessions.GetByToken(context.Background(), sid)
		require.NoError(t, err)
		assert.Equal(t, f.userID, sess.UserID)
		assert.Equal(t, f.tenantID, sess.TenantID)
	})

	t.Run("token for another host falls back to login", func(t *testing.T) {
		f := newBridgeFixture(t)
		token, err := f.bridge.Issue(f.userID, "acme.brandassets.space")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/auth/bridge/redeem?token="+token, nil)
		req.Host = "other.brandassets.space"
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Contains(t, rec.Header().Get("Location"), "/login")
		assert.Empty(t, rec.Result().Cookies())
		assert.Empty(t, f.sessions.sessions)
	})

	t.Run("garbage token falls back to login without detail", func(t *testing.T) {
		f := newBridgeFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/auth/bridge/redeem?token=not-a-token", nil)
		req.Host = "acme.brandassets.space"
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Contains(t, rec.Header().Get("Location"), "/login")
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("redemption twice succeeds both times", func(t *testing.T) {
		f := newBridgeFixture(t)
		token, err := f.bridge.Issue(f.userID, "acme.brandassets.space")
		require.NoError(t, err)

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodGet, "/auth/bridge/redeem?token="+token, nil)
			req.Host = "acme.brandassets.space"
			rec := httptest.NewRecorder()
			f.router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/", rec.Header().Get("Location"))
		}
		assert.Len(t, f.sessions.sessions, 2)
	})

	t.Run("hostile next is replaced with root", func(t *testing.T) {
		f := newBridgeFixture(t)
		token, err := f.bridge.Issue(f.userID, "acme.brandassets.space")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/auth/bridge/redeem?token="+token+"&next=//evil.example.com/", nil)
		req.Host = "acme.brandassets.space"
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})
}

func TestAuthController_IssueBridge(t *testing.T) {
	t.Run("requires an authenticated caller", func(t *testing.T) {
		f := newBridgeFixture(t)

		req := httptest.NewRequest(http.MethodPost, "/auth/bridge", strings.NewReader(`{"target":"acme.brandassets.space"}`))
		req.Host = "brandassets.space"
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects targets outside the platform domain", func(t *testing.T) {
		f := newBridgeFixture(t)

		req := httptest.NewRequest(http.MethodPost, "/auth/bridge", strings.NewReader(`{"target":"evil.example.com"}`))
		req.Host = "brandassets.space"
		req = req.WithContext(composables.WithUserID(req.Context(), f.userID))
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("issues a redeemable token for a tenant host", func(t *testing.T) {
		f := newBridgeFixture(t)

		req := httptest.NewRequest(http.MethodPost, "/auth/bridge", strings.NewReader(`{"target":"acme.brandassets.space","next":"/dashboard"}`))
		req.Host = "brandassets.space"
		req = req.WithContext(composables.WithUserID(req.Context(), f.userID))
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `"token"`)
		assert.Contains(t, body, "acme.brandassets.space/auth/bridge/redeem")
	})
}
