package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/brandassets/dam/modules/core/services"
	"github.com/brandassets/dam/pkg/application"
	"github.com/brandassets/dam/pkg/composables"
	"github.com/brandassets/dam/pkg/configuration"
	"github.com/brandassets/dam/pkg/tenancy"
)

// ClassifyHost classifies the Host header once per request and stores the
// result in the context. Unrecognized hosts are served the public surface,
// so no request is rejected here.
func ClassifyHost() mux.MiddlewareFunc {
	conf := configuration.Use()
	classifier := tenancy.NewClassifier(conf.Tenancy.RootDomain, conf.Tenancy.AdminSubdomain)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := classifier.Classify(r.Host)
			next.ServeHTTP(w, r.WithContext(composables.WithHost(r.Context(), host)))
		})
	}
}

// RequireTenantFromHost gates tenant subdomains. It resolves the slug and
// the caller's access in one step and attaches the tenant descriptor plus
// the caller's role to the context. A missing tenant and a missing
// membership both redirect to login so responses never reveal whether a
// slug is taken.
func RequireTenantFromHost(app application.Application) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := composables.UseHost(r.Context())
			if host.Kind != tenancy.KindTenant {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := composables.UseUserID(r.Context())
			if err != nil {
				redirectToLogin(w, r)
				return
			}

			tenantService := app.Service(services.TenantService{}).(*services.TenantService)
			res, err := tenantService.ResolveForUser(r.Context(), host.Slug, userID)
			if err != nil {
				logger := composables.UseLogger(r.Context())
				logger.WithField("slug", host.Slug).WithError(err).Error("tenant resolution failed")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if !res.Found {
				logger := composables.UseLogger(r.Context())
				logger.WithField("slug", host.Slug).WithField("path", r.URL.Path).Info("no tenant access for host")
				redirectToLogin(w, r)
				return
			}

			roleService := app.Service(services.RoleService{}).(*services.RoleService)
			roleKey, err := roleService.ResolveRole(r.Context(), userID, res.Tenant.ID())
			if err != nil {
				logger := composables.UseLogger(r.Context())
				logger.WithError(err).Error("role resolution failed")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			ctx := composables.WithTenant(r.Context(), &composables.Tenant{
				ID:   res.Tenant.ID(),
				Name: res.Tenant.Name(),
				Slug: res.Tenant.Slug(),
			})
			ctx = composables.WithRoleKey(ctx, string(roleKey))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
