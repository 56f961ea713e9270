package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/brandassets/dam/modules/assets/domain/entities/asset"
	"github.com/brandassets/dam/modules/assets/infrastructure/persistence"
	"github.com/brandassets/dam/modules/assets/services"
	"github.com/brandassets/dam/pkg/application"
	"github.com/brandassets/dam/pkg/composables"
	"github.com/brandassets/dam/pkg/configuration"
	"github.com/brandassets/dam/pkg/httpapi"
	"github.com/brandassets/dam/pkg/middleware"
)

const downloadURLExpiry = 15 * time.Minute

type AssetResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Mimetype  string    `json:"mimetype"`
	SizeBytes int64     `json:"size_bytes"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

type TagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AssetListResponse struct {
	Items []*AssetResponse `json:"items"`
	Total int              `json:"total"`
}

// AssetsController serves the tenant-facing DAM API. Every route sits
// behind the tenant host gate, so handlers can rely on the tenant and role
// being present in the context.
type AssetsController struct {
	app          application.Application
	assetService *services.AssetService
	tagService   *services.TagService
}

func NewAssetsController(app application.Application) application.Controller {
	return &AssetsController{
		app:          app,
		assetService: app.Service(services.AssetService{}).(*services.AssetService),
		tagService:   app.Service(services.TagService{}).(*services.TagService),
	}
}

func (c *AssetsController) Key() string {
	return "/assets"
}

func (c *AssetsController) Register(r *mux.Router) {
	router := r.PathPrefix("/assets").Subrouter()
	router.Use(
		middleware.RequireTenantFromHost(c.app),
		middleware.WithTransaction(),
	)

	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Upload).Methods(http.MethodPost)
	router.HandleFunc("/tags", c.ListTags).Methods(http.MethodGet)
	router.HandleFunc("/tags", c.CreateTag).Methods(http.MethodPost)
	router.HandleFunc("/tags/{tagID}", c.DeleteTag).Methods(http.MethodDelete)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Rename).Methods(http.MethodPatch)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/{id}/download", c.Download).Methods(http.MethodGet)
	router.HandleFunc("/{id}/tags/{tagID}", c.Tag).Methods(http.MethodPut)
	router.HandleFunc("/{id}/tags/{tagID}", c.Untag).Methods(http.MethodDelete)
}

func (c *AssetsController) List(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	params := asset.FindParams{
		Kind:   asset.Kind(r.URL.Query().Get("kind")),
		Search: r.URL.Query().Get("search"),
		Limit:  conf.PageSize,
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		params.Limit = min(limit, conf.MaxPageSize)
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && offset > 0 {
		params.Offset = offset
	}
	if tagID, err := uuid.Parse(r.URL.Query().Get("tag")); err == nil {
		params.TagID = tagID
	}

	assets, err := c.assetService.List(r.Context(), params)
	if err != nil {
		c.writeInternal(w, r, err, "failed to list assets")
		return
	}
	total, err := c.assetService.Count(r.Context(), params)
	if err != nil {
		c.writeInternal(w, r, err, "failed to count assets")
		return
	}

	items := make([]*AssetResponse, 0, len(assets))
	for _, a := range assets {
		items = append(items, toAssetResponse(a))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &AssetListResponse{Items: items, Total: total})
}

func (c *AssetsController) Upload(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	if err := r.ParseMultipartForm(conf.MaxUploadSize); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "bad_request", "malformed multipart body", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "bad_request", "file field is required", nil)
		return
	}
	defer file.Close()

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	uploaderID, err := composables.UseUserID(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "no_session", "authentication required", nil)
		return
	}

	a, err := c.assetService.Upload(r.Context(), uploaderID, name, contentType, header.Size, file)
	if err != nil {
		if errors.Is(err, services.ErrQuotaExceeded) {
			_ = httpapi.WriteError(w, http.StatusRequestEntityTooLarge, "quota_exceeded", "tenant storage quota exceeded", nil)
			return
		}
		c.writeInternal(w, r, err, "failed to upload asset")
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusCreated, toAssetResponse(a))
}

func (c *AssetsController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := c.assetID(w, r)
	if !ok {
		return
	}
	a, err := c.assetService.GetByID(r.Context(), id)
	if err != nil {
		c.writeLookupError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toAssetResponse(a))
}

func (c *AssetsController) Rename(w http.ResponseWriter, r *http.Request) {
	id, ok := c.assetID(w, r)
	if !ok {
		return
	}

	var dto struct {
		Name string `json:"name"`
	}
	if err := httpapi.DecodeJSON(r, &dto); err != nil || dto.Name == "" {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "bad_request", "name is required", nil)
		return
	}

	a, err := c.assetService.Rename(r.Context(), id, dto.Name)
	if err != nil {
		c.writeLookupError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toAssetResponse(a))
}

func (c *AssetsController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := c.assetID(w, r)
	if !ok {
		return
	}
	if _, err := c.assetService.Delete(r.Context(), id); err != nil {
		c.writeLookupError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (c *AssetsController) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := c.assetID(w, r)
	if !ok {
		return
	}
	u, err := c.assetService.DownloadURL(r.Context(), id, downloadURLExpiry)
	if err != nil {
		c.writeLookupError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]string{"url": u})
}

func (c *AssetsController) Tag(w http.ResponseWriter, r *http.Request) {
	id, ok := c.assetID(w, r)
	if !ok {
		return
	}
	tagID, err := uuid.Parse(mux.Vars(r)["tagID"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "bad_request", "malformed tag id", nil)
		return
	}
	if err := c.assetService.Tag(r.Context(), id, tagID); err != nil {
		c.writeLookupError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "tagged"})
}

func (c *AssetsController) Untag(w http.ResponseWriter, r *http.Request) {
	id, ok := c.assetID(w, r)
	if !ok {
		return
	}
	tagID, err := uuid.Parse(mux.Vars(r)["tagID"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "bad_request", "malformed tag id", nil)
		return
	}
	if err := c.assetService.Untag(r.Context(), id, tagID); err != nil {
		c.writeLookupError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "untagged"})
}

func (c *AssetsController) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := c.tagService.List(r.Context())
	if err != nil {
		c.writeInternal(w, r, err, "failed to list tags")
		return
	}
	out := make([]*TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, &TagResponse{ID: t.ID().String(), Name: t.Name()})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *AssetsController) CreateTag(w http.ResponseWriter, r *http.Request) {
	var dto struct {
		Name string `json:"name"`
	}
	if err := httpapi.DecodeJSON(r, &dto); err != nil || dto.Name == "" {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "bad_request", "name is required", nil)
		return
	}
	t, err := c.tagService.Create(r.Context(), dto.Name)
	if err != nil {
		c.writeInternal(w, r, err, "failed to create tag")
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, &TagResponse{ID: t.ID().String(), Name: t.Name()})
}

func (c *AssetsController) DeleteTag(w http.ResponseWriter, r *http.Request) {
	tagID, err := uuid.Parse(mux.Vars(r)["tagID"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "bad_request", "malformed tag id", nil)
		return
	}
	if err := c.tagService.Delete(r.Context(), tagID); err != nil {
		c.writeLookupError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (c *AssetsController) assetID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "bad_request", "malformed asset id", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (c *AssetsController) writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, persistence.ErrAssetNotFound) || errors.Is(err, persistence.ErrTagNotFound) {
		_ = httpapi.WriteError(w, http.StatusNotFound, "not_found", "not found", nil)
		return
	}
	if errors.Is(err, services.ErrForbidden) {
		_ = httpapi.WriteError(w, http.StatusForbidden, "forbidden", "forbidden", nil)
		return
	}
	c.writeInternal(w, r, err, "asset operation failed")
}

func (c *AssetsController) writeInternal(w http.ResponseWriter, r *http.Request, err error, msg string) {
	composables.UseLogger(r.Context()).WithError(err).Error(msg)
	_ = httpapi.WriteError(w, http.StatusInternalServerError, "internal", "internal error", nil)
}

func toAssetResponse(a *asset.Asset) *AssetResponse {
	return &AssetResponse{
		ID:        a.ID().String(),
		Name:      a.Name(),
		Mimetype:  a.Mimetype(),
		SizeBytes: a.SizeBytes(),
		Kind:      string(a.Kind()),
		CreatedAt: a.CreatedAt(),
	}
}
