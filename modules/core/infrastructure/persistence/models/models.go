package models

import (
	"database/sql"
	"time"
)

type Tenant struct {
	ID             string
	Name           string
	Slug           string
	CustomDomain   sql.NullString
	Status         string
	BrandPrimary   sql.NullString
	BrandSecondary sql.NullString
	StorageQuota   int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Phone        sql.NullString
	Department   sql.NullString
	PasswordHash sql.NullString
	LastLogin    sql.NullTime
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Role struct {
	ID   int
	Key  string
	Name string
}

type Membership struct {
	TenantID  string
	UserID    string
	RoleKey   string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Session struct {
	Token     string
	UserID    string
	TenantID  sql.NullString
	IP        string
	UserAgent string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type SystemAdmin struct {
	UserID    string
	GrantedBy sql.NullString
	CreatedAt time.Time
}
