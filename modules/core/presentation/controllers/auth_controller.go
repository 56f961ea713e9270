package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/brandassets/dam/modules/core/services"
	"github.com/brandassets/dam/pkg/application"
	"github.com/brandassets/dam/pkg/composables"
	"github.com/brandassets/dam/pkg/configuration"
	"github.com/brandassets/dam/pkg/httpapi"
	"github.com/brandassets/dam/pkg/middleware"
	"github.com/brandassets/dam/pkg/tenancy"
)

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type BridgeRequestDTO struct {
	Target string `json:"target"`
	Next   string `json:"next"`
}

// AuthController owns authentication on every host surface: password login,
// logout and the cross-subdomain session bridge.
type AuthController struct {
	app           application.Application
	authService   *services.AuthService
	bridgeService *services.BridgeService
	tenantService *services.TenantService
}

func NewAuthController(app application.Application) application.Controller {
	return &AuthController{
		app:           app,
		authService:   app.Service(services.AuthService{}).(*services.AuthService),
		bridgeService: app.Service(services.BridgeService{}).(*services.BridgeService),
		tenantService: app.Service(services.TenantService{}).(*services.TenantService),
	}
}

func (c *AuthController) Key() string {
	return "/auth"
}

func (c *AuthController) Register(r *mux.Router) {
	router := r.PathPrefix("/auth").Subrouter()

	loginRouter := router.PathPrefix("/login").Subrouter()
	loginRouter.Use(
		middleware.WithTransaction(),
		middleware.IPRateLimitPeriod(10, time.Minute),
	)
	loginRouter.HandleFunc("", c.Login).Methods(http.MethodPost)

	router.HandleFunc("/logout", c.Logout).Methods(http.MethodPost)

	bridgeRouter := router.PathPrefix("/bridge").Subrouter()
	bridgeRouter.Use(middleware.IPRateLimitPeriod(30, time.Minute))
	bridgeRouter.HandleFunc("", c.IssueBridge).Methods(http.MethodPost)
	bridgeRouter.HandleFunc("/redeem", c.RedeemBridge).Methods(http.MethodGet)
}

// Login verifies credentials and sets the sid cookie. Login is served on
// the public host; tenant access is resolved per request afterwards, so the
// session itself is tenant-agnostic.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	dto, err := decodeLogin(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "bad_request", "malformed credentials payload", nil)
		return
	}

	u, sess, err := c.authService.AuthenticateEmail(r.Context(), dto.Email, dto.Password, uuid.Nil)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			_ = httpapi.WriteBase(w, http.StatusUnauthorized, services.ErrInvalidCredentials)
			return
		}
		logger := composables.UseLogger(r.Context())
		logger.WithError(err).Error("login failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "internal", "internal error", nil)
		return
	}

	http.SetCookie(w, c.authService.SessionCookie(sess))
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]string{
		"user_id": u.ID().String(),
		"email":   u.Email(),
	})
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	cookie, err := r.Cookie(conf.SidCookieKey)
	if err == nil && cookie.Value != "" {
		if err := c.authService.Logout(r.Context(), cookie.Value); err != nil {
			logger := composables.UseLogger(r.Context())
			logger.WithError(err).Warn("failed to delete session on logout")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     conf.SidCookieKey,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
	})
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// IssueBridge mints a short-lived token that carries the caller's identity
// to a sibling subdomain. The target must classify inside the platform's
// domain layout; arbitrary hosts are rejected so tokens cannot be minted
// for foreign domains.
func (c *AuthController) IssueBridge(w http.ResponseWriter, r *http.Request) {
	userID, err := composables.UseUserID(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "no_session", "authentication required", nil)
		return
	}

	dto, err := decodeBridgeRequest(r)
	if err != nil || dto.Target == "" {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "bad_request", "target host is required", nil)
		return
	}

	conf := configuration.Use()
	classifier := tenancy.NewClassifier(conf.Tenancy.RootDomain, conf.Tenancy.AdminSubdomain)
	if classifier.Classify(dto.Target).Kind == tenancy.KindUnrecognized {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "bad_target", "target host is outside the platform domain", nil)
		return
	}

	token, err := c.bridgeService.Issue(userID, dto.Target)
	if err != nil {
		logger := composables.UseLogger(r.Context())
		logger.WithError(err).Error("failed to issue bridge token")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "internal", "internal error", nil)
		return
	}

	redeemURL := url.URL{
		Scheme: conf.Scheme(),
		Host:   dto.Target,
		Path:   "/auth/bridge/redeem",
	}
	q := redeemURL.Query()
	q.Set("token", token)
	if next := sanitizeNext(dto.Next); next != "" {
		q.Set("next", next)
	}
	redeemURL.RawQuery = q.Encode()

	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]string{
		"token": token,
		"url":   redeemURL.String(),
	})
}

// RedeemBridge exchanges a bridge token for a session on the current host.
// Every verification failure lands on the login redirect without detail, so
// the response never reveals which check failed. Redemption re-asserts an
// existing identity rather than consuming a one-time resource, so two
// near-simultaneous redemptions of the same token both succeed.
func (c *AuthController) RedeemBridge(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	userID, err := c.bridgeService.Redeem(token, r.Host)
	if err != nil {
		if !errors.Is(err, services.ErrTokenInvalid) {
			logger := composables.UseLogger(r.Context())
			logger.WithError(err).Error("bridge redemption failed")
			_ = httpapi.WriteError(w, http.StatusInternalServerError, "internal", "internal error", nil)
			return
		}
		c.redirectToLogin(w, r)
		return
	}

	tenantID := uuid.Nil
	if host := composables.UseHost(r.Context()); host.Kind == tenancy.KindTenant {
		t, err := c.tenantService.GetBySlug(r.Context(), host.Slug)
		if err == nil {
			tenantID = t.ID()
		}
	}

	sess, err := c.authService.OpenSession(r.Context(), userID, tenantID)
	if err != nil {
		logger := composables.UseLogger(r.Context())
		logger.WithError(err).Error("failed to open bridged session")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "internal", "internal error", nil)
		return
	}

	http.SetCookie(w, c.authService.SessionCookie(sess))

	// Redirect with the token stripped from the URL.
	next := sanitizeNext(r.URL.Query().Get("next"))
	if next == "" {
		next = "/"
	}
	http.Redirect(w, r, next, http.StatusFound)
}

func (c *AuthController) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	http.Redirect(w, r, conf.Scheme()+"://"+conf.Tenancy.RootDomain+"/login", http.StatusFound)
}

func decodeLogin(r *http.Request) (*LoginDTO, error) {
	dto := &LoginDTO{}
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		return nil, err
	}
	return dto, nil
}

func decodeBridgeRequest(r *http.Request) (*BridgeRequestDTO, error) {
	dto := &BridgeRequestDTO{}
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		return nil, err
	}
	return dto, nil
}

// sanitizeNext keeps redirects on the current host: only rooted paths pass.
func sanitizeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	if u, err := url.Parse(next); err != nil || u.Host != "" || u.Scheme != "" {
		return ""
	}
	return next
}
