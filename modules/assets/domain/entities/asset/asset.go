package asset

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind buckets an asset by how the frontend renders it, derived from the
// mimetype at upload time.
type Kind string

const (
	KindImage    Kind = "image"
	KindVideo    Kind = "video"
	KindDocument Kind = "document"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

type Option func(a *Asset)

func WithID(id uuid.UUID) Option {
	return func(a *Asset) {
		a.id = id
	}
}

func WithStatus(status Status) Option {
	return func(a *Asset) {
		a.status = status
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(a *Asset) {
		a.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(a *Asset) {
		a.updatedAt = updatedAt
	}
}

// Asset is a stored brand file. ObjectKey points into the shared bucket
// under the owning tenant's prefix; the row never stores file bytes.
type Asset struct {
	id         uuid.UUID
	tenantID   uuid.UUID
	uploaderID uuid.UUID
	name       string
	objectKey  string
	mimetype   string
	sizeBytes  int64
	kind       Kind
	status     Status
	createdAt  time.Time
	updatedAt  time.Time
}

func New(tenantID, uploaderID uuid.UUID, name, objectKey, mimetype string, sizeBytes int64, opts ...Option) *Asset {
	a := &Asset{
		id:         uuid.New(),
		tenantID:   tenantID,
		uploaderID: uploaderID,
		name:       name,
		objectKey:  objectKey,
		mimetype:   mimetype,
		sizeBytes:  sizeBytes,
		kind:       KindFromMimetype(mimetype),
		status:     StatusActive,
		createdAt:  time.Now(),
		updatedAt:  time.Now(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// KindFromMimetype is intentionally coarse: anything that is not an image
// or a video is a document.
func KindFromMimetype(mimetype string) Kind {
	switch {
	case strings.HasPrefix(mimetype, "image/"):
		return KindImage
	case strings.HasPrefix(mimetype, "video/"):
		return KindVideo
	default:
		return KindDocument
	}
}

func (a *Asset) ID() uuid.UUID {
	return a.id
}

func (a *Asset) TenantID() uuid.UUID {
	return a.tenantID
}

func (a *Asset) UploaderID() uuid.UUID {
	return a.uploaderID
}

func (a *Asset) Name() string {
	return a.name
}

func (a *Asset) ObjectKey() string {
	return a.objectKey
}

func (a *Asset) Mimetype() string {
	return a.mimetype
}

func (a *Asset) SizeBytes() int64 {
	return a.sizeBytes
}

func (a *Asset) Kind() Kind {
	return a.kind
}

func (a *Asset) Status() Status {
	return a.status
}

func (a *Asset) IsDeleted() bool {
	return a.status == StatusDeleted
}

func (a *Asset) CreatedAt() time.Time {
	return a.createdAt
}

func (a *Asset) UpdatedAt() time.Time {
	return a.updatedAt
}

func (a *Asset) Rename(name string) {
	a.name = name
	a.updatedAt = time.Now()
}

func (a *Asset) MarkDeleted() {
	a.status = StatusDeleted
	a.updatedAt = time.Now()
}
