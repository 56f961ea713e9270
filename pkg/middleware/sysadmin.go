package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/brandassets/dam/modules/core/services"
	"github.com/brandassets/dam/pkg/application"
	"github.com/brandassets/dam/pkg/composables"
	"github.com/brandassets/dam/pkg/tenancy"
)

// RequireSystemAdmin gates the console host. Anonymous callers and
// non-admins both land on the login redirect; the response does not reveal
// that the console exists behind it.
func RequireSystemAdmin(app application.Application) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if composables.UseHost(r.Context()).Kind != tenancy.KindSystemAdmin {
				http.NotFound(w, r)
				return
			}

			userID, err := composables.UseUserID(r.Context())
			if err != nil {
				redirectToLogin(w, r)
				return
			}

			roleService := app.Service(services.RoleService{}).(*services.RoleService)
			isAdmin, err := roleService.IsSystemAdmin(r.Context(), userID)
			if err != nil {
				logger := composables.UseLogger(r.Context())
				logger.WithError(err).Error("system admin check failed")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if !isAdmin {
				redirectToLogin(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
