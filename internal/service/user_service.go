package service

import (
	"context"
	"strings"

	"taskboard/internal/apperr"
	"taskboard/internal/domain"
	"taskboard/internal/repository"
	"taskboard/internal/validation"
)

// UserService coordinates validation, uniqueness checks and persistence for
// user operations. It is the only caller of the user repository.
type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CreateUser(ctx context.Context, input validation.NewUser) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *userService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.Get(ctx, id)
}

func (s *userService) CreateUser(ctx context.Context, input validation.NewUser) (*domain.User, error) {
	if violations := validation.CheckNewUser(input); len(violations) > 0 {
		return nil, apperr.Validation(violations)
	}

	email := validation.NormalizeEmail(input.Email)

	// Explicit probe so fallback mode reports duplicates too; in durable mode
	// the unique index is the authoritative check. Two concurrent creates can
	// both pass this probe in fallback mode (accepted limitation).
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Duplicate("email %s is already in use", email)
	}

	user := &domain.User{
		Name:   strings.TrimSpace(input.Name),
		Email:  email,
		Age:    input.Age,
		Role:   domain.RoleUser,
		Active: true,
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Active != nil {
		user.Active = *input.Active
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	// An empty patch is a no-op: validation and the store call are both
	// skipped, so UpdatedAt is left untouched.
	if patch.IsZero() {
		return s.users.Get(ctx, id)
	}

	if violations := validation.CheckUserPatch(patch); len(violations) > 0 {
		return nil, apperr.Validation(violations)
	}

	if patch.Email != nil {
		email := validation.NormalizeEmail(*patch.Email)
		existing, err := s.users.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, apperr.Duplicate("email %s is already in use", email)
		}
	}
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
	}

	return s.users.Update(ctx, id, patch)
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("user with id %s not found", id)
	}
	return s.users.Delete(ctx, id)
}
