package warehouses

import (
	"context"
	"fmt"

	"github.com/stockwise/stockwise/internal/shared"
)

// Service coordinates warehouse operations.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Warehouse, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Warehouse, error) {
	if id <= 0 {
		return Warehouse{}, fmt.Errorf("invalid warehouse id: %w", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, input CreateWarehouseRequest) (Warehouse, error) {
	if err := validate.Struct(input); err != nil {
		return Warehouse{}, fmt.Errorf("%s: %w", err.Error(), shared.ErrValidation)
	}
	return s.repo.Create(ctx, Warehouse{
		Code:      input.Code,
		Name:      input.Name,
		Location:  input.Location,
		ManagerID: input.ManagerID,
		IsActive:  true,
	})
}

func (s *Service) Update(ctx context.Context, id int64, input UpdateWarehouseRequest) (Warehouse, error) {
	if err := validate.Struct(input); err != nil {
		return Warehouse{}, fmt.Errorf("%s: %w", err.Error(), shared.ErrValidation)
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return Warehouse{}, err
	}
	if input.Code != nil {
		existing.Code = *input.Code
	}
	if input.Name != nil {
		existing.Name = *input.Name
	}
	if input.Location != nil {
		existing.Location = *input.Location
	}
	if input.ManagerID != nil {
		existing.ManagerID = input.ManagerID
	}
	if input.IsActive != nil {
		existing.IsActive = *input.IsActive
	}
	if err := s.repo.Update(ctx, id, existing); err != nil {
		return Warehouse{}, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes the warehouse. Deletion is blocked while any product still
// references it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.ProductCount(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("warehouse has %d products: %w", count, shared.ErrReferenced)
	}
	return s.repo.Delete(ctx, id)
}
