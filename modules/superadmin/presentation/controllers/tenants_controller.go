package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/brandassets/dam/modules/core/domain/entities/membership"
	"github.com/brandassets/dam/modules/core/domain/entities/role"
	"github.com/brandassets/dam/modules/core/domain/entities/tenant"
	corepersistence "github.com/brandassets/dam/modules/core/infrastructure/persistence"
	"github.com/brandassets/dam/modules/superadmin/services"
	"github.com/brandassets/dam/pkg/application"
	"github.com/brandassets/dam/pkg/composables"
	"github.com/brandassets/dam/pkg/configuration"
	"github.com/brandassets/dam/pkg/httpapi"
	"github.com/brandassets/dam/pkg/middleware"
)

type TenantResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Status       string    `json:"status"`
	CustomDomain *string   `json:"custom_domain,omitempty"`
	StorageQuota int64     `json:"storage_quota"`
	CreatedAt    time.Time `json:"created_at"`
}

type TenantListResponse struct {
	Items []*TenantResponse `json:"items"`
	Total int               `json:"total"`
}

type MembershipResponse struct {
	TenantID string `json:"tenant_id"`
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

type CreateTenantDTO struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type UpdateTenantDTO struct {
	Name           *string `json:"name"`
	Status         *string `json:"status"`
	CustomDomain   *string `json:"custom_domain"`
	BrandPrimary   *string `json:"brand_primary"`
	BrandSecondary *string `json:"brand_secondary"`
	StorageQuota   *int64  `json:"storage_quota"`
}

type GrantMembershipDTO struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type GrantAdminDTO struct {
	UserID string `json:"user_id"`
}

// TenantsController is the system-admin console API. Every route is gated
// on the console host and a registry entry for the caller.
type TenantsController struct {
	app     application.Application
	console *services.ConsoleService
}

func NewTenantsController(app application.Application) application.Controller {
	return &TenantsController{
		app:     app,
		console: app.Service(services.ConsoleService{}).(*services.ConsoleService),
	}
}

func (c *TenantsController) Key() string {
	return "/console"
}

func (c *TenantsController) Register(r *mux.Router) {
	router := r.PathPrefix("/console").Subrouter()
	router.Use(
		middleware.RequireSystemAdmin(c.app),
		middleware.WithTransaction(),
	)

	router.HandleFunc("/tenants", c.ListTenants).Methods(http.MethodGet)
	router.HandleFunc("/tenants", c.CreateTenant).Methods(http.MethodPost)
	router.HandleFunc("/tenants/{id}", c.GetTenant).Methods(http.MethodGet)
	router.HandleFunc("/tenants/{id}", c.UpdateTenant).Methods(http.MethodPatch)
	router.HandleFunc("/tenants/{id}/suspend", c.SuspendTenant).Methods(http.MethodPost)
	router.HandleFunc("/tenants/{id}/activate", c.ActivateTenant).Methods(http.MethodPost)
	router.HandleFunc("/tenants/{id}/members", c.ListMemberships).Methods(http.MethodGet)
	router.HandleFunc("/tenants/{id}/members", c.GrantMembership).Methods(http.MethodPost)
	router.HandleFunc("/tenants/{id}/members/{userID}", c.RevokeMembership).Methods(http.MethodDelete)
	router.HandleFunc("/admins", c.ListSystemAdmins).Methods(http.MethodGet)
	router.HandleFunc("/admins", c.GrantSystemAdmin).Methods(http.MethodPost)
	router.HandleFunc("/admins/{userID}", c.RevokeSystemAdmin).Methods(http.MethodDelete)
}

func (c *TenantsController) ListTenants(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	params := tenant.FindParams{
		Search: r.URL.Query().Get("search"),
		Limit:  conf.PageSize,
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		params.Limit = min(limit, conf.MaxPageSize)
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && offset > 0 {
		params.Offset = offset
	}

	tenants, total, err := c.console.ListTenants(r.Context(), params)
	if err != nil {
		c.writeInternal(w, r, err, "failed to list tenants")
		return
	}

	items := make([]*TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		items = append(items, toTenantResponse(t))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &TenantListResponse{Items: items, Total: total})
}

func (c *TenantsController) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var dto CreateTenantDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil || dto.Name == "" || dto.Slug == "" {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "bad_request", "name and slug are required", nil)
		return
	}

	t, err := c.console.CreateTenant(r.Context(), dto.Name, dto.Slug)
	if err != nil {
		c.writeInternal(w, r, err, "failed to create tenant")
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toTenantResponse(t))
}

func (c *TenantsController) GetTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := c.tenantID(w, r)
	if !ok {
		return
	}
	t, err := c.console.GetTenant(r.Context(), id)
	if err != nil {
		c.writeLookupError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toTenantResponse(t))
}

func (c *TenantsController) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := c.tenantID(w, r)
	if !ok {
		return
	}

	var dto UpdateTenantDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "bad_request", "malformed payload", nil)
		return
	}

	t, err := c.console.GetTenant(r.Context(), id)
	if err != nil {
		c.writeLookupError(w, r, err)
		return
	}

	if dto.Name != nil {
		t.SetName(*dto.Name)
	}
	if dto.Status != nil {
		status := tenant.Status(*dto.Status)
		if !status.Valid() {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "bad_request", "unknown tenant status", nil)
			return
		}
		t.SetStatus(status)
	}
	if dto.CustomDomain != nil {
		t.SetCustomDomain(dto.CustomDomain)
	}
	if dto.BrandPrimary != nil || dto.BrandSecondary != nil {
		primary := t.BrandPrimary()
		secondary := t.BrandSecondary()
		if dto.BrandPrimary != nil {
			primary = *dto.BrandPrimary
		}
		if dto.BrandSecondary != nil {
			secondary = *dto.BrandSecondary
		}
		t.SetBrandColors(primary, secondary)
	}
	if dto.StorageQuota != nil {
		t.SetStorageQuota(*dto.StorageQuota)
	}

	updated, err := c.console.UpdateTenant(r.Context(), t)
	if err != nil {
		c.writeInternal(w, r, err, "failed to update tenant")
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toTenantResponse(updated))
}

func (c *TenantsController) SuspendTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := c.tenantID(w, r)
	if !ok {
		return
	}
	t, err := c.console.SuspendTenant(r.Context(), id)
	if err != nil {
		c.writeLookupError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toTenantResponse(t))
}

func (c *TenantsController) ActivateTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := c.tenantID(w, r)
	if !ok {
		return
	}
	t, err := c.console.ActivateTenant(r.Context(), id)
	if err != nil {
		c.writeLookupError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toTenantResponse(t))
}

func (c *TenantsController) ListMemberships(w http.ResponseWriter, r *http.Request) {
	id, ok := c.tenantID(w, r)
	if !ok {
		return
	}
	memberships, err := c.console.ListMemberships(r.Context(), id)
	if err != nil {
		c.writeInternal(w, r, err, "failed to list memberships")
		return
	}
	out := make([]*MembershipResponse, 0, len(memberships))
	for _, m := range memberships {
		out = append(out, toMembershipResponse(m))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *TenantsController) GrantMembership(w http.ResponseWriter, r *http.Request) {
	id, ok := c.tenantID(w, r)
	if !ok {
		return
	}

	var dto GrantMembershipDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "bad_request", "malformed payload", nil)
		return
	}
	userID, err := uuid.Parse(dto.UserID)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "bad_request", "malformed user id", nil)
		return
	}

	m, err := c.console.GrantMembership(r.Context(), id, userID, role.Key(dto.Role))
	if err != nil {
		if errors.Is(err, corepersistence.ErrTenantNotFound) || errors.Is(err, corepersistence.ErrUserNotFound) {
			c.writeLookupError(w, r, err)
			return
		}
		_ = httpapi.WriteError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toMembershipResponse(m))
}

func (c *TenantsController) RevokeMembership(w http.ResponseWriter, r *http.Request) {
	id, ok := c.tenantID(w, r)
	if !ok {
		return
	}
	userID, err := uuid.Parse(mux.Vars(r)["userID"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "bad_request", "malformed user id", nil)
		return
	}
	if err := c.console.RevokeMembership(r.Context(), id, userID); err != nil {
		c.writeLookupError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

func (c *TenantsController) ListSystemAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := c.console.ListSystemAdmins(r.Context())
	if err != nil {
		c.writeInternal(w, r, err, "failed to list system admins")
		return
	}
	out := make([]map[string]string, 0, len(admins))
	for _, a := range admins {
		out = append(out, map[string]string{
			"user_id":    a.UserID.String(),
			"granted_by": a.GrantedBy.String(),
		})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *TenantsController) GrantSystemAdmin(w http.ResponseWriter, r *http.Request) {
	var dto GrantAdminDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "bad_request", "malformed payload", nil)
		return
	}
	userID, err := uuid.Parse(dto.UserID)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "bad_request", "malformed user id", nil)
		return
	}
	caller, err := composables.UseUserID(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "no_session", "authentication required", nil)
		return
	}
	if err := c.console.GrantSystemAdmin(r.Context(), userID, caller); err != nil {
		c.writeLookupError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, map[string]string{"status": "granted"})
}

func (c *TenantsController) RevokeSystemAdmin(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(mux.Vars(r)["userID"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "bad_request", "malformed user id", nil)
		return
	}
	caller, err := composables.UseUserID(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "no_session", "authentication required", nil)
		return
	}
	if err := c.console.RevokeSystemAdmin(r.Context(), userID, caller); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

func (c *TenantsController) tenantID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "bad_request", "malformed tenant id", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (c *TenantsController) writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, corepersistence.ErrTenantNotFound) ||
		errors.Is(err, corepersistence.ErrUserNotFound) ||
		errors.Is(err, corepersistence.ErrMembershipNotFound) {
		_ = httpapi.WriteError(w, http.StatusNotFound, "not_found", "not found", nil)
		return
	}
	c.writeInternal(w, r, err, "console operation failed")
}

func (c *TenantsController) writeInternal(w http.ResponseWriter, r *http.Request, err error, msg string) {
	composables.UseLogger(r.Context()).WithError(err).Error(msg)
	_ = httpapi.WriteError(w, http.StatusInternalServerError, "internal", "internal error", nil)
}

func toTenantResponse(t *tenant.Tenant) *TenantResponse {
	return &TenantResponse{
		ID:           t.ID().String(),
		Name:         t.Name(),
		Slug:         t.Slug(),
		Status:       string(t.Status()),
		CustomDomain: t.CustomDomain(),
		StorageQuota: t.StorageQuota(),
		CreatedAt:    t.CreatedAt(),
	}
}

func toMembershipResponse(m *membership.Membership) *MembershipResponse {
	return &MembershipResponse{
		TenantID: m.TenantID().String(),
		UserID:   m.UserID().String(),
		Role:     string(m.Role()),
		Status:   string(m.Status()),
	}
}
