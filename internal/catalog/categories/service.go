package categories

import (
	"context"
	"fmt"

	"github.com/stockwise/stockwise/internal/shared"
)

// Service coordinates category operations.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Category, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Category, error) {
	if id <= 0 {
		return Category{}, fmt.Errorf("invalid category id: %w", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, input CreateCategoryRequest) (Category, error) {
	if err := validate.Struct(input); err != nil {
		return Category{}, fmt.Errorf("%s: %w", err.Error(), shared.ErrValidation)
	}
	if input.ParentID != nil {
		parent, err := s.repo.Get(ctx, *input.ParentID)
		if err != nil {
			return Category{}, err
		}
		// Only one nesting level is supported.
		if parent.ParentID != nil {
			return Category{}, fmt.Errorf("parent category cannot itself have a parent: %w", shared.ErrValidation)
		}
	}
	return s.repo.Create(ctx, Category{
		Name:     input.Name,
		ParentID: input.ParentID,
		IsActive: true,
	})
}

func (s *Service) Update(ctx context.Context, id int64, input UpdateCategoryRequest) (Category, error) {
	if err := validate.Struct(input); err != nil {
		return Category{}, fmt.Errorf("%s: %w", err.Error(), shared.ErrValidation)
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return Category{}, err
	}
	if input.Name != nil {
		existing.Name = *input.Name
	}
	if input.ParentID != nil {
		if *input.ParentID == id {
			return Category{}, fmt.Errorf("category cannot be its own parent: %w", shared.ErrValidation)
		}
		existing.ParentID = input.ParentID
	}
	if input.IsActive != nil {
		existing.IsActive = *input.IsActive
	}
	if err := s.repo.Update(ctx, id, existing); err != nil {
		return Category{}, err
	}
	return s.repo.Get(ctx, id)
}

// Delete soft-deletes the category. Deletion is blocked while any product
// still references it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.ProductCount(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("category has %d products: %w", count, shared.ErrReferenced)
	}
	return s.repo.Deactivate(ctx, id)
}
