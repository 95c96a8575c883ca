package receipts

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ItemRequest is one line in a create or update payload.
type ItemRequest struct {
	ProductID     int64  `json:"product_id" validate:"required,gt=0"`
	ExpectedQty   int    `json:"expected_qty" validate:"gte=0"`
	ReceivedQty   int    `json:"received_qty" validate:"gte=0"`
	QualityStatus string `json:"quality_status" validate:"omitempty,oneof=Pending Pass Fail"`
}

// CreateReceiptRequest is the payload for creating a receipt.
type CreateReceiptRequest struct {
	Supplier     string        `json:"supplier" validate:"required,min=2,max=200"`
	ExpectedDate time.Time     `json:"expected_date" validate:"required"`
	Status       string        `json:"status" validate:"omitempty,oneof=Draft Waiting"`
	Items        []ItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateReceiptRequest overwrites provided fields; the items array, when
// present, replaces the existing lines wholesale.
type UpdateReceiptRequest struct {
	Supplier     *string        `json:"supplier,omitempty" validate:"omitempty,min=2,max=200"`
	ExpectedDate *time.Time     `json:"expected_date,omitempty"`
	Status       *string        `json:"status,omitempty" validate:"omitempty,oneof=Draft Waiting Received"`
	Items        *[]ItemRequest `json:"items,omitempty" validate:"omitempty,min=1,dive"`
}

// ListFilters narrows receipt listings.
type ListFilters struct {
	Status   string
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	Limit    int
}
