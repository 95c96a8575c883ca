package deliveries

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ItemRequest is one line in a create or update payload.
type ItemRequest struct {
	ProductID    int64 `json:"product_id" validate:"required,gt=0"`
	RequestedQty int   `json:"requested_qty" validate:"gte=0"`
	PickedQty    int   `json:"picked_qty" validate:"gte=0"`
}

// CreateDeliveryRequest is the payload for creating a delivery.
type CreateDeliveryRequest struct {
	Customer        string        `json:"customer" validate:"required,min=2,max=200"`
	DeliveryAddress string        `json:"delivery_address" validate:"required,min=5,max=500"`
	DeliveryDate    time.Time     `json:"delivery_date" validate:"required"`
	Status          string        `json:"status" validate:"omitempty,oneof=Draft Picking"`
	Items           []ItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateDeliveryRequest overwrites provided fields; the items array, when
// present, replaces the existing lines wholesale.
type UpdateDeliveryRequest struct {
	Customer        *string        `json:"customer,omitempty" validate:"omitempty,min=2,max=200"`
	DeliveryAddress *string        `json:"delivery_address,omitempty" validate:"omitempty,min=5,max=500"`
	DeliveryDate    *time.Time     `json:"delivery_date,omitempty"`
	Status          *string        `json:"status,omitempty" validate:"omitempty,oneof=Draft Picking Packed Shipped"`
	Items           *[]ItemRequest `json:"items,omitempty" validate:"omitempty,min=1,dive"`
}

// ListFilters narrows delivery listings.
type ListFilters struct {
	Status   string
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	Limit    int
}
