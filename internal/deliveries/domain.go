// Package deliveries implements the outbound stock document workflow.
package deliveries

import "time"

// Status represents the lifecycle of a delivery.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusPicking   Status = "Picking"
	StatusPacked    Status = "Packed"
	StatusShipped   Status = "Shipped"
	StatusDelivered Status = "Delivered"
)

// IsValid checks if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPicking, StatusPacked, StatusShipped, StatusDelivered:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the delivery is immutable.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered
}

// Delivery is an outbound document. Once Status is Delivered the document and
// its items are immutable.
type Delivery struct {
	ID              int64     `json:"id"`
	DeliveryNumber  string    `json:"delivery_number"`
	Customer        string    `json:"customer"`
	DeliveryAddress string    `json:"delivery_address"`
	DeliveryDate    time.Time `json:"delivery_date"`
	Status          Status    `json:"status"`
	CreatedBy       int64     `json:"created_by"`
	LastUpdatedBy   int64     `json:"last_updated_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Items           []Item    `json:"items"`
}

// Item is one product line on a delivery.
type Item struct {
	ID           int64 `json:"id"`
	DeliveryID   int64 `json:"delivery_id"`
	ProductID    int64 `json:"product_id"`
	RequestedQty int   `json:"requested_qty"`
	PickedQty    int   `json:"picked_qty"`
}
