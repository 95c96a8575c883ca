package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/stockwise/stockwise/internal/shared"
)

// CategoryPort resolves referenced categories.
type CategoryPort interface {
	CategoryName(ctx context.Context, id int64) (string, error)
}

// WarehousePort verifies referenced warehouses.
type WarehousePort interface {
	WarehouseExists(ctx context.Context, id int64) error
}

// SKUGenerator derives a SKU from a category name.
type SKUGenerator interface {
	ProductSKU(ctx context.Context, categoryName string) (string, error)
}

// Service coordinates product catalog operations.
type Service struct {
	repo       Repository
	categories CategoryPort
	warehouses WarehousePort
	skus       SKUGenerator
}

func NewService(repo Repository, categories CategoryPort, warehouses WarehousePort, skus SKUGenerator) *Service {
	return &Service{repo: repo, categories: categories, warehouses: warehouses, skus: skus}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]View, int, error) {
	items, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	views := make([]View, 0, len(items))
	for _, p := range items {
		views = append(views, NewView(p))
	}
	return views, total, nil
}

func (s *Service) Get(ctx context.Context, id int64) (View, error) {
	if id <= 0 {
		return View{}, fmt.Errorf("invalid product id: %w", shared.ErrValidation)
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	return NewView(p), nil
}

func (s *Service) Create(ctx context.Context, actor *shared.Actor, input CreateProductRequest) (View, error) {
	if err := validate.Struct(input); err != nil {
		return View{}, fmt.Errorf("%s: %w", err.Error(), shared.ErrValidation)
	}
	if input.MaxStockLevel != nil && *input.MaxStockLevel < input.ReorderLevel {
		return View{}, fmt.Errorf("max stock level must be >= reorder level: %w", shared.ErrValidation)
	}

	categoryName, err := s.categories.CategoryName(ctx, input.CategoryID)
	if err != nil {
		return View{}, err
	}
	if input.WarehouseID != nil {
		if err := s.warehouses.WarehouseExists(ctx, *input.WarehouseID); err != nil {
			return View{}, err
		}
	}

	sku := strings.ToUpper(strings.TrimSpace(input.SKU))
	if sku == "" {
		sku, err = s.skus.ProductSKU(ctx, categoryName)
		if err != nil {
			return View{}, err
		}
	}

	created, err := s.repo.Create(ctx, Product{
		SKU:                sku,
		Name:               input.Name,
		CategoryID:         input.CategoryID,
		WarehouseID:        input.WarehouseID,
		CurrentStock:       input.InitialStock,
		ReorderLevel:       input.ReorderLevel,
		MaxStockLevel:      input.MaxStockLevel,
		AutoReorderEnabled: input.AutoReorderEnabled,
		UnitOfMeasure:      UnitOfMeasure(input.UnitOfMeasure),
		CreatedBy:          actor.UserID,
	})
	if err != nil {
		return View{}, err
	}
	return NewView(created), nil
}

func (s *Service) Update(ctx context.Context, actor *shared.Actor, id int64, input UpdateProductRequest) (View, error) {
	if err := validate.Struct(input); err != nil {
		return View{}, fmt.Errorf("%s: %w", err.Error(), shared.ErrValidation)
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	if input.Name != nil {
		existing.Name = *input.Name
	}
	if input.CategoryID != nil {
		if _, err := s.categories.CategoryName(ctx, *input.CategoryID); err != nil {
			return View{}, err
		}
		existing.CategoryID = *input.CategoryID
	}
	if input.WarehouseID != nil {
		if err := s.warehouses.WarehouseExists(ctx, *input.WarehouseID); err != nil {
			return View{}, err
		}
		existing.WarehouseID = input.WarehouseID
	}
	if input.ReorderLevel != nil {
		existing.ReorderLevel = *input.ReorderLevel
	}
	if input.MaxStockLevel != nil {
		existing.MaxStockLevel = input.MaxStockLevel
	}
	if input.AutoReorderEnabled != nil {
		existing.AutoReorderEnabled = *input.AutoReorderEnabled
	}
	if input.UnitOfMeasure != nil {
		existing.UnitOfMeasure = UnitOfMeasure(*input.UnitOfMeasure)
	}
	if existing.MaxStockLevel != nil && *existing.MaxStockLevel < existing.ReorderLevel {
		return View{}, fmt.Errorf("max stock level must be >= reorder level: %w", shared.ErrValidation)
	}
	existing.LastUpdatedBy = actor.UserID

	if err := s.repo.Update(ctx, id, existing); err != nil {
		return View{}, err
	}
	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	return NewView(updated), nil
}

// Delete removes the product without checking open document references.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid product id: %w", shared.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}
