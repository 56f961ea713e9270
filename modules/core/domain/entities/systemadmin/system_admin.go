package systemadmin

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SystemAdmin is a row in the flat platform-admin allowlist. The registry is
// deliberately independent of tenant memberships: revoking every membership
// must not strip platform rights, and membership rows must not forge them.
type SystemAdmin struct {
	UserID    uuid.UUID
	GrantedBy uuid.UUID
	CreatedAt time.Time
}

type Repository interface {
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
	List(ctx context.Context) ([]*SystemAdmin, error)
	Add(ctx context.Context, admin *SystemAdmin) error
	Remove(ctx context.Context, userID uuid.UUID) error
}
