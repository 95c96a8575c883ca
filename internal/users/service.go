package users

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/stockwise/stockwise/internal/shared"
)

// Service coordinates user account management.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]User, int, error) {
	if filters.Role != "" && !shared.Role(filters.Role).IsValid() {
		return nil, 0, fmt.Errorf("unknown role %q: %w", filters.Role, shared.ErrValidation)
	}
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	if id <= 0 {
		return User{}, fmt.Errorf("invalid user id: %w", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, input CreateUserRequest) (User, error) {
	if err := validate.Struct(input); err != nil {
		return User{}, fmt.Errorf("%s: %w", err.Error(), shared.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	return s.repo.Create(ctx, User{
		LoginID:      input.LoginID,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         shared.Role(input.Role),
		IsActive:     true,
	})
}

func (s *Service) Update(ctx context.Context, id int64, input UpdateUserRequest) (User, error) {
	if err := validate.Struct(input); err != nil {
		return User{}, fmt.Errorf("%s: %w", err.Error(), shared.ErrValidation)
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	if input.Name != nil {
		existing.Name = *input.Name
	}
	if input.Email != nil {
		existing.Email = *input.Email
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, err
		}
		existing.PasswordHash = string(hash)
	}
	if input.Role != nil {
		existing.Role = shared.Role(*input.Role)
	}
	if input.IsActive != nil {
		existing.IsActive = *input.IsActive
	}
	if err := s.repo.Update(ctx, id, existing); err != nil {
		return User{}, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes the account. Deleting yourself is rejected so an
// administrator cannot lock everyone out by accident.
func (s *Service) Delete(ctx context.Context, actor *shared.Actor, id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid user id: %w", shared.ErrValidation)
	}
	if actor != nil && actor.UserID == id {
		return fmt.Errorf("cannot delete your own account: %w", shared.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}
