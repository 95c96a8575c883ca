// Package receipts implements the inbound stock document workflow.
package receipts

import "time"

// Status represents the lifecycle of a receipt.
type Status string

const (
	StatusDraft    Status = "Draft"
	StatusWaiting  Status = "Waiting"
	StatusReceived Status = "Received"
	StatusDone     Status = "Done"
)

// IsValid checks if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusWaiting, StatusReceived, StatusDone:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the receipt is immutable.
func (s Status) IsTerminal() bool {
	return s == StatusDone
}

// QualityStatus flags the inspection outcome per item. Only Pass items
// contribute stock on validation.
type QualityStatus string

const (
	QualityPending QualityStatus = "Pending"
	QualityPass    QualityStatus = "Pass"
	QualityFail    QualityStatus = "Fail"
)

// IsValid checks if the quality status is a known value.
func (q QualityStatus) IsValid() bool {
	switch q {
	case QualityPending, QualityPass, QualityFail:
		return true
	default:
		return false
	}
}

// Receipt is an inbound document. Once Status is Done the document and its
// items are immutable.
type Receipt struct {
	ID            int64      `json:"id"`
	ReceiptNumber string     `json:"receipt_number"`
	Supplier      string     `json:"supplier"`
	ExpectedDate  time.Time  `json:"expected_date"`
	ReceivedDate  *time.Time `json:"received_date,omitempty"`
	Status        Status     `json:"status"`
	CreatedBy     int64      `json:"created_by"`
	LastUpdatedBy int64      `json:"last_updated_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Items         []Item     `json:"items"`
}

// Item is one product line on a receipt.
type Item struct {
	ID            int64         `json:"id"`
	ReceiptID     int64         `json:"receipt_id"`
	ProductID     int64         `json:"product_id"`
	ExpectedQty   int           `json:"expected_qty"`
	ReceivedQty   int           `json:"received_qty"`
	QualityStatus QualityStatus `json:"quality_status"`
}
