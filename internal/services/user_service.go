package services

import (
	"context"
	"fmt"

	"diaria/internal/core"
)

// UserService orchestrates user operations
type UserService struct {
	repo Repository
}

func NewUserService(repo Repository) *UserService {
	return &UserService{repo: repo}
}

// CreateUserInput carries the fields accepted when registering a user
type CreateUserInput struct {
	Email    string
	Name     string
	Password string
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (core.User, error) {
	u := core.User{
		Email:    in.Email,
		Name:     in.Name,
		Password: in.Password,
	}
	if err := u.Validate(); err != nil {
		return core.User{}, err
	}

	created, err := s.repo.CreateUser(ctx, u)
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (s *UserService) Get(ctx context.Context, id string) (core.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (core.User, error) {
	return s.repo.GetUserByEmail(ctx, email)
}

func (s *UserService) List(ctx context.Context) ([]core.User, error) {
	return s.repo.ListUsers(ctx)
}
