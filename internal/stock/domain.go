// Package stock implements the ledger invariants over product on-hand
// quantities: non-negative stock, all-or-nothing multi-item application, and
// optimistic-lock writes.
package stock

import "context"

// Product is the ledger's view of a product row.
type Product struct {
	ID                 int64
	SKU                string
	Name               string
	CurrentStock       int
	ReorderLevel       int
	MaxStockLevel      *int
	AutoReorderEnabled bool
	Version            int64
}

// Delta is one requested stock change; positive inbound, negative outbound.
type Delta struct {
	ProductID int64
	Change    int
}

// Applied reports the result of one committed change, carrying enough of the
// product to derive low-stock notifications without a second read.
type Applied struct {
	ProductID          int64
	SKU                string
	Name               string
	PreviousStock      int
	NewStock           int
	ReorderLevel       int
	MaxStockLevel      *int
	AutoReorderEnabled bool
}

// LowStock reports whether the committed change left the product at or below
// its reorder level.
func (a Applied) LowStock() bool {
	return a.NewStock <= a.ReorderLevel
}

// SuggestedOrderQty mirrors the product-level derivation for notification
// payloads.
func (a Applied) SuggestedOrderQty() int {
	if a.MaxStockLevel == nil || a.NewStock > a.ReorderLevel {
		return 0
	}
	qty := *a.MaxStockLevel - a.NewStock
	if qty < 0 {
		return 0
	}
	return qty
}

// TxPort is the transactional surface the ledger needs. Document repositories
// expose it from inside their own transactions so a document's status flip and
// its stock effect commit together.
type TxPort interface {
	GetProductForUpdate(ctx context.Context, productID int64) (Product, error)
	UpdateProductStock(ctx context.Context, productID int64, newStock int, expectedVersion int64, actorID int64) error
}
