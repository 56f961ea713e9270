package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/brandassets/dam/modules/assets/domain/entities/tag"
	"github.com/brandassets/dam/modules/assets/infrastructure/persistence"
	"github.com/brandassets/dam/pkg/composables"
)

type TagService struct {
	repo tag.Repository
}

func NewTagService(repo tag.Repository) *TagService {
	return &TagService{repo: repo}
}

// Create is idempotent per name: creating an existing tag returns the
// existing row.
func (s *TagService) Create(ctx context.Context, name string) (*tag.Tag, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	existing, err := s.repo.GetByName(ctx, tenantID, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, persistence.ErrTagNotFound) {
		return nil, err
	}

	return s.repo.Create(ctx, tag.New(tenantID, name))
}

func (s *TagService) List(ctx context.Context) ([]*tag.Tag, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, tenantID)
}

func (s *TagService) Delete(ctx context.Context, id uuid.UUID) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if tg.TenantID() != tenantID {
		return persistence.ErrTagNotFound
	}
	return s.repo.Delete(ctx, id)
}
