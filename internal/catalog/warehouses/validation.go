package warehouses

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// CreateWarehouseRequest is the payload for creating a warehouse.
type CreateWarehouseRequest struct {
	Code      string `json:"code" validate:"required,min=2,max=20"`
	Name      string `json:"name" validate:"required,min=2,max=100"`
	Location  string `json:"location" validate:"max=200"`
	ManagerID *int64 `json:"manager_id,omitempty" validate:"omitempty,gt=0"`
}

// UpdateWarehouseRequest is the payload for updating a warehouse.
type UpdateWarehouseRequest struct {
	Code      *string `json:"code,omitempty" validate:"omitempty,min=2,max=20"`
	Name      *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Location  *string `json:"location,omitempty" validate:"omitempty,max=200"`
	ManagerID *int64  `json:"manager_id,omitempty" validate:"omitempty,gt=0"`
	IsActive  *bool   `json:"is_active,omitempty"`
}
