package products

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// CreateProductRequest is the payload for creating a product. SKU is optional;
// a missing SKU is generated from the category name.
type CreateProductRequest struct {
	SKU                string  `json:"sku,omitempty" validate:"omitempty,min=3,max=30"`
	Name               string  `json:"name" validate:"required,min=2,max=200"`
	CategoryID         int64   `json:"category_id" validate:"required,gt=0"`
	WarehouseID        *int64  `json:"warehouse_id,omitempty" validate:"omitempty,gt=0"`
	InitialStock       int     `json:"initial_stock" validate:"gte=0"`
	ReorderLevel       int     `json:"reorder_level" validate:"gte=0"`
	MaxStockLevel      *int    `json:"max_stock_level,omitempty" validate:"omitempty,gte=0"`
	AutoReorderEnabled bool    `json:"auto_reorder_enabled"`
	UnitOfMeasure      string  `json:"unit_of_measure" validate:"required,oneof=pcs box pack kg litre metre"`
}

// UpdateProductRequest is the payload for updating a product. CurrentStock is
// deliberately absent: stock moves only through documents.
type UpdateProductRequest struct {
	Name               *string `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	CategoryID         *int64  `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	WarehouseID        *int64  `json:"warehouse_id,omitempty" validate:"omitempty,gt=0"`
	ReorderLevel       *int    `json:"reorder_level,omitempty" validate:"omitempty,gte=0"`
	MaxStockLevel      *int    `json:"max_stock_level,omitempty" validate:"omitempty,gte=0"`
	AutoReorderEnabled *bool   `json:"auto_reorder_enabled,omitempty"`
	UnitOfMeasure      *string `json:"unit_of_measure,omitempty" validate:"omitempty,oneof=pcs box pack kg litre metre"`
}
