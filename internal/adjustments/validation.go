package adjustments

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// CreateAdjustmentRequest is the payload for creating an adjustment. Creation
// immediately overwrites the product's stock with PhysicalCount.
type CreateAdjustmentRequest struct {
	ProductID     int64  `json:"product_id" validate:"required,gt=0"`
	WarehouseID   *int64 `json:"warehouse_id,omitempty" validate:"omitempty,gt=0"`
	PhysicalCount int    `json:"physical_count" validate:"gte=0"`
	Reason        string `json:"reason" validate:"required,oneof='Damaged Goods' 'Expired Items' 'Theft/Loss' 'Counting Error' 'Return to Supplier' 'Other'"`
	Notes         string `json:"notes" validate:"max=1000"`
}

// ListFilters narrows adjustment listings.
type ListFilters struct {
	ProductID int64
	Reason    string
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	Limit     int
}
