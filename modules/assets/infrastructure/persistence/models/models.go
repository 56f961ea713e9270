package models

import (
	"time"
)

type Asset struct {
	ID         string
	TenantID   string
	UploaderID string
	Name       string
	ObjectKey  string
	Mimetype   string
	SizeBytes  int64
	Kind       string
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Tag struct {
	ID        string
	TenantID  string
	Name      string
	CreatedAt time.Time
}
