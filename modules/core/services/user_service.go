package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/brandassets/dam/modules/core/domain/aggregates/user"
	"github.com/brandassets/dam/pkg/eventbus"
)

type UserCreatedEvent struct {
	Result user.User
}

type UserService struct {
	repo      user.Repository
	publisher eventbus.EventBus
}

func NewUserService(repo user.Repository, publisher eventbus.EventBus) *UserService {
	return &UserService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) List(ctx context.Context, params user.FindParams) ([]*user.User, error) {
	return s.repo.List(ctx, params)
}

func (s *UserService) Create(ctx context.Context, u *user.User) (*user.User, error) {
	created, err := s.repo.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(UserCreatedEvent{Result: *created})
	return created, nil
}

func (s *UserService) Update(ctx context.Context, u *user.User) (*user.User, error) {
	return s.repo.Update(ctx, u)
}
