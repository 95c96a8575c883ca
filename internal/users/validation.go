package users

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// CreateUserRequest is the payload for creating a user.
type CreateUserRequest struct {
	LoginID  string `json:"login_id" validate:"required,min=6,max=12,alphanum"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=Admin 'Inventory Manager' 'Warehouse Staff'"`
}

// UpdateUserRequest overwrites provided fields. LoginID is fixed at creation.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=Admin 'Inventory Manager' 'Warehouse Staff'"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// ListFilters narrows user listings.
type ListFilters struct {
	Role   string
	Search string
	Page   int
	Limit  int
}
