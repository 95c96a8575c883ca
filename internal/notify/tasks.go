// Package notify delivers fire-and-forget notifications through Asynq.
package notify

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the queue name for notification tasks.
	QueueDefault = "default"
	// KindLowStock fires when a stock mutation leaves a product at or below
	// its reorder level.
	KindLowStock = "notify:low_stock"
	// KindDocumentValidated fires when a receipt or delivery commits its
	// stock effect.
	KindDocumentValidated = "notify:document_validated"
)

// LowStockPayload describes a product that needs reordering attention.
type LowStockPayload struct {
	ProductID          int64  `json:"product_id"`
	SKU                string `json:"sku"`
	Name               string `json:"name"`
	CurrentStock       int    `json:"current_stock"`
	ReorderLevel       int    `json:"reorder_level"`
	SuggestedOrderQty  int    `json:"suggested_order_qty"`
	AutoReorderEnabled bool   `json:"auto_reorder_enabled"`
}

// DocumentValidatedPayload describes a committed document.
type DocumentValidatedPayload struct {
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
	ActorID        int64  `json:"actor_id"`
	ItemCount      int    `json:"item_count"`
}

// NewTask constructs an Asynq task for the given kind and payload.
func NewTask(kind string, payload any) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(kind, data), nil
}
