package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/brandassets/dam/modules/core/services"
	"github.com/brandassets/dam/pkg/application"
	"github.com/brandassets/dam/pkg/composables"
	"github.com/brandassets/dam/pkg/configuration"
	"github.com/brandassets/dam/pkg/constants"
)

// Authorize resolves the sid cookie into a server-side session. Requests
// without a valid session continue unauthenticated; gating happens in
// RequireAuthenticated or the host middleware.
func Authorize(app application.Application) mux.MiddlewareFunc {
	conf := configuration.Use()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(conf.SidCookieKey)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			authService := app.Service(services.AuthService{}).(*services.AuthService)
			sess, err := authService.Authorize(r.Context(), cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := composables.WithUserID(r.Context(), sess.UserID)
			ctx = contextWithValue(ctx, constants.SessionKey, sess)
			if params, ok := composables.UseParams(ctx); ok {
				params.Authenticated = true
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuthenticated sends anonymous requests to the login page on the
// public host.
func RequireAuthenticated() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !composables.UseAuthenticated(r.Context()) {
				redirectToLogin(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	http.Redirect(w, r, conf.Scheme()+"://"+conf.Tenancy.RootDomain+"/login", http.StatusFound)
}
