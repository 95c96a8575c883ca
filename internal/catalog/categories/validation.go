package categories

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// CreateCategoryRequest is the payload for creating a category.
type CreateCategoryRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	ParentID *int64 `json:"parent_id,omitempty" validate:"omitempty,gt=0"`
}

// UpdateCategoryRequest is the payload for updating a category.
type UpdateCategoryRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	ParentID *int64  `json:"parent_id,omitempty" validate:"omitempty,gt=0"`
	IsActive *bool   `json:"is_active,omitempty"`
}
