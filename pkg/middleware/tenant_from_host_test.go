package middleware_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandassets/dam/modules/core/domain/entities/membership"
	"github.com/brandassets/dam/modules/core/domain/entities/role"
	"github.com/brandassets/dam/modules/core/domain/entities/systemadmin"
	"github.com/brandassets/dam/modules/core/domain/entities/tenant"
	"github.com/brandassets/dam/modules/core/infrastructure/persistence"
	"github.com/brandassets/dam/modules/core/services"
	"github.com/brandassets/dam/pkg/application"
	"github.com/brandassets/dam/pkg/composables"
	"github.com/brandassets/dam/pkg/eventbus"
	"github.com/brandassets/dam/pkg/middleware"
)

type fakeTenantRepo struct {
	bySlug map[string]*tenant.Tenant
}

func (f *fakeTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	for _, t := range f.bySlug {
		if t.ID() == id {
			return t, nil
		}
	}
	return nil, persistence.ErrTenantNotFound
}

func (f *fakeTenantRepo) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	t, ok := f.bySlug[slug]
	if !ok {
		return nil, persistence.ErrTenantNotFound
	}
	return t, nil
}

func (f *fakeTenantRepo) Create(ctx context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	f.bySlug[t.Slug()] = t
	return t, nil
}

func (f *fakeTenantRepo) Update(ctx context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	f.bySlug[t.Slug()] = t
	return t, nil
}

func (f *fakeTenantRepo) List(ctx context.Context, params tenant.FindParams) ([]*tenant.Tenant, error) {
	return nil, nil
}

func (f *fakeTenantRepo) Count(ctx context.Context, params tenant.FindParams) (int, error) {
	return len(f.bySlug), nil
}

type fakeMembershipRepo struct {
	memberships []*membership.Membership
}

func (f *fakeMembershipRepo) GetActive(ctx context.Context, userID, tenantID uuid.UUID) (*membership.Membership, error) {
	for _, m := range f.memberships {
		if m.UserID() == userID && m.TenantID() == tenantID && m.IsActive() {
			return m, nil
		}
	}
	return nil, persistence.ErrMembershipNotFound
}

func (f *fakeMembershipRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*membership.Membership, error) {
	return f.memberships, nil
}

func (f *fakeMembershipRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*membership.Membership, error) {
	return f.memberships, nil
}

func (f *fakeMembershipRepo) Create(ctx context.Context, m *membership.Membership) (*membership.Membership, error) {
	f.memberships = append(f.memberships, m)
	return m, nil
}

func (f *fakeMembershipRepo) Update(ctx context.Context, m *membership.Membership) (*membership.Membership, error) {
	return m, nil
}

func (f *fakeMembershipRepo) Delete(ctx context.Context, userID, tenantID uuid.UUID) error {
	return nil
}

type fakeSystemAdminRepo struct {
	admins map[uuid.UUID]bool
}

func (f *fakeSystemAdminRepo) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	return f.admins[userID], nil
}

func (f *fakeSystemAdminRepo) List(ctx context.Context) ([]*systemadmin.SystemAdmin, error) {
	return nil, nil
}

func (f *fakeSystemAdminRepo) Add(ctx context.Context, admin *systemadmin.SystemAdmin) error {
	f.admins[admin.UserID] = true
	return nil
}

func (f *fakeSystemAdminRepo) Remove(ctx context.Context, userID uuid.UUID) error {
	delete(f.admins, userID)
	return nil
}

type gateFixture struct {
	router *mux.Router
	member uuid.UUID
	admin  uuid.UUID
	acme   *tenant.Tenant
}

// newGateFixture wires acme with one member and one registry admin, and a
// handler that reports the resolved tenant and role.
func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	acme := tenant.New("Acme Inc", "acme")
	member := uuid.New()
	admin := uuid.New()

	tenants := &fakeTenantRepo{bySlug: map[string]*tenant.Tenant{"acme": acme}}
	memberships := &fakeMembershipRepo{}
	memberships.memberships = append(memberships.memberships, membership.New(acme.ID(), member, role.Admin))
	sysAdmins := &fakeSystemAdminRepo{admins: map[uuid.UUID]bool{admin: true}}

	app := application.New(&application.ApplicationOptions{
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	app.RegisterServices(
		services.NewTenantService(tenants, memberships, sysAdmins),
		services.NewRoleService(memberships, sysAdmins),
	)

	router := mux.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(composables.WithLogger(r.Context(), logrus.NewEntry(logger))))
		})
	})
	router.Use(middleware.ClassifyHost())
	router.Use(middleware.RequireTenantFromHost(app))
	router.HandleFunc("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		tn, err := composables.UseTenant(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("X-Tenant", tn.Slug)
		w.Header().Set("X-Role", composables.UseRoleKey(r.Context()))
		w.WriteHeader(http.StatusOK)
	})

	return &gateFixture{router: router, member: member, admin: admin, acme: acme}
}

func (f *gateFixture) request(host string, userID uuid.UUID) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Host = host
	if userID != uuid.Nil {
		req = req.WithContext(composables.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestRequireTenantFromHost(t *testing.T) {
	t.Run("member reaches tenant host with resolved role", func(t *testing.T) {
		f := newGateFixture(t)
		rec := f.request("acme.brandassets.space", f.member)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "acme", rec.Header().Get("X-Tenant"))
		assert.Equal(t, "admin", rec.Header().Get("X-Role"))
	})

	t.Run("anonymous visitor is redirected to login", func(t *testing.T) {
		f := newGateFixture(t)
		rec := f.request("acme.brandassets.space", uuid.Nil)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Contains(t, rec.Header().Get("Location"), "/login")
	})

	t.Run("unknown slug and missing membership are indistinguishable", func(t *testing.T) {
		f := newGateFixture(t)
		stranger := uuid.New()

		unknown := f.request("ghost.brandassets.space", stranger)
		noAccess := f.request("acme.brandassets.space", stranger)

		assert.Equal(t, unknown.Code, noAccess.Code)
		assert.Equal(t, unknown.Header().Get("Location"), noAccess.Header().Get("Location"))
		assert.Equal(t, http.StatusFound, unknown.Code)
	})

	t.Run("registry admin resolves superadmin role without membership", func(t *testing.T) {
		f := newGateFixture(t)
		rec := f.request("acme.brandassets.space", f.admin)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "superadmin", rec.Header().Get("X-Role"))
	})

	t.Run("suspended tenant turns members away", func(t *testing.T) {
		f := newGateFixture(t)
		f.acme.SetStatus(tenant.StatusSuspended)
		rec := f.request("acme.brandassets.space", f.member)

		assert.Equal(t, http.StatusFound, rec.Code)
	})

	t.Run("public host passes through untouched", func(t *testing.T) {
		f := newGateFixture(t)
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.Host = "brandassets.space"
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		// No tenant in context: the handler reports an error rather than
		// the gate rejecting the request.
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
