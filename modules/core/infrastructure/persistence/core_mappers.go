package persistence

import (
	"time"

	"github.com/google/uuid"

	"github.com/brandassets/dam/modules/core/domain/aggregates/user"
	"github.com/brandassets/dam/modules/core/domain/entities/membership"
	"github.com/brandassets/dam/modules/core/domain/entities/role"
	"github.com/brandassets/dam/modules/core/domain/entities/session"
	"github.com/brandassets/dam/modules/core/domain/entities/systemadmin"
	"github.com/brandassets/dam/modules/core/domain/entities/tenant"
	"github.com/brandassets/dam/modules/core/infrastructure/persistence/models"
	"github.com/brandassets/dam/pkg/mapping"
)

func toDomainTenant(t *models.Tenant) *tenant.Tenant {
	id, err := uuid.Parse(t.ID)
	if err != nil {
		id = uuid.Nil
	}

	return tenant.New(
		t.Name,
		t.Slug,
		tenant.WithID(id),
		tenant.WithCustomDomain(mapping.SQLNullStringToPointer(t.CustomDomain)),
		tenant.WithStatus(tenant.Status(t.Status)),
		tenant.WithBrandColors(
			mapping.SQLNullStringToValue(t.BrandPrimary),
			mapping.SQLNullStringToValue(t.BrandSecondary),
		),
		tenant.WithStorageQuota(t.StorageQuota),
		tenant.WithCreatedAt(t.CreatedAt),
		tenant.WithUpdatedAt(t.UpdatedAt),
	)
}

func toDomainUser(u *models.User) *user.User {
	id, err := uuid.Parse(u.ID)
	if err != nil {
		id = uuid.Nil
	}

	var lastLogin *time.Time
	if u.LastLogin.Valid {
		v := u.LastLogin.Time
		lastLogin = &v
	}

	return user.New(
		u.FirstName,
		u.LastName,
		u.Email,
		user.WithID(id),
		user.WithPhone(mapping.SQLNullStringToValue(u.Phone)),
		user.WithDepartment(mapping.SQLNullStringToValue(u.Department)),
		user.WithPasswordHash(mapping.SQLNullStringToValue(u.PasswordHash)),
		user.WithLastLogin(lastLogin),
		user.WithCreatedAt(u.CreatedAt),
		user.WithUpdatedAt(u.UpdatedAt),
	)
}

func toDomainMembership(m *models.Membership) *membership.Membership {
	tenantID, err := uuid.Parse(m.TenantID)
	if err != nil {
		tenantID = uuid.Nil
	}
	userID, err := uuid.Parse(m.UserID)
	if err != nil {
		userID = uuid.Nil
	}

	return membership.New(
		tenantID,
		userID,
		role.Key(m.RoleKey),
		membership.WithStatus(membership.Status(m.Status)),
		membership.WithCreatedAt(m.CreatedAt),
		membership.WithUpdatedAt(m.UpdatedAt),
	)
}

func toDomainSession(s *models.Session) *session.Session {
	userID, err := uuid.Parse(s.UserID)
	if err != nil {
		userID = uuid.Nil
	}
	tenantID := uuid.Nil
	if s.TenantID.Valid {
		if parsed, err := uuid.Parse(s.TenantID.String); err == nil {
			tenantID = parsed
		}
	}

	return &session.Session{
		Token:     s.Token,
		UserID:    userID,
		TenantID:  tenantID,
		IP:        s.IP,
		UserAgent: s.UserAgent,
		ExpiresAt: s.ExpiresAt,
		CreatedAt: s.CreatedAt,
	}
}

func toDomainSystemAdmin(a *models.SystemAdmin) *systemadmin.SystemAdmin {
	userID, err := uuid.Parse(a.UserID)
	if err != nil {
		userID = uuid.Nil
	}
	grantedBy := uuid.Nil
	if a.GrantedBy.Valid {
		if parsed, err := uuid.Parse(a.GrantedBy.String); err == nil {
			grantedBy = parsed
		}
	}

	return &systemadmin.SystemAdmin{
		UserID:    userID,
		GrantedBy: grantedBy,
		CreatedAt: a.CreatedAt,
	}
}
