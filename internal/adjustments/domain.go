// Package adjustments implements stock corrections from physical counts.
//
// An adjustment has no draft or validate step: creating one snapshots the
// system stock, records the counted quantity, and overwrites the product's
// stock with the physical count in the same transaction. Two adjustments for
// the same product are last-write-wins, not cumulative.
package adjustments

import "time"

// Reason classifies why the physical count diverged from the system stock.
type Reason string

const (
	ReasonDamagedGoods     Reason = "Damaged Goods"
	ReasonExpiredItems     Reason = "Expired Items"
	ReasonTheftLoss        Reason = "Theft/Loss"
	ReasonCountingError    Reason = "Counting Error"
	ReasonReturnToSupplier Reason = "Return to Supplier"
	ReasonOther            Reason = "Other"
)

// IsValid checks if the reason is a known value.
func (r Reason) IsValid() bool {
	switch r {
	case ReasonDamagedGoods, ReasonExpiredItems, ReasonTheftLoss,
		ReasonCountingError, ReasonReturnToSupplier, ReasonOther:
		return true
	default:
		return false
	}
}

// Adjustment records one stock correction. SystemStock is the on-hand
// quantity at the moment of creation; Difference is PhysicalCount minus
// SystemStock, stored signed.
type Adjustment struct {
	ID               int64     `json:"id"`
	AdjustmentNumber string    `json:"adjustment_number"`
	ProductID        int64     `json:"product_id"`
	WarehouseID      *int64    `json:"warehouse_id,omitempty"`
	SystemStock      int       `json:"system_stock"`
	PhysicalCount    int       `json:"physical_count"`
	Difference       int       `json:"difference"`
	Reason           Reason    `json:"reason"`
	Notes            string    `json:"notes,omitempty"`
	CreatedBy        int64     `json:"created_by"`
	LastUpdatedBy    int64     `json:"last_updated_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
