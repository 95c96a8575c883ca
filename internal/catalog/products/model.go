package products

import "time"

// UnitOfMeasure enumerates supported stock-keeping units.
type UnitOfMeasure string

const (
	UnitPiece UnitOfMeasure = "pcs"
	UnitBox   UnitOfMeasure = "box"
	UnitPack  UnitOfMeasure = "pack"
	UnitKg    UnitOfMeasure = "kg"
	UnitLitre UnitOfMeasure = "litre"
	UnitMetre UnitOfMeasure = "metre"
)

// IsValid reports whether the unit is one of the known units.
func (u UnitOfMeasure) IsValid() bool {
	switch u {
	case UnitPiece, UnitBox, UnitPack, UnitKg, UnitLitre, UnitMetre:
		return true
	default:
		return false
	}
}

// StockStatus is derived from current stock and reorder level, never stored.
type StockStatus string

const (
	StockStatusOut StockStatus = "out_of_stock"
	StockStatusLow StockStatus = "low_stock"
	StockStatusIn  StockStatus = "in_stock"
)

// Product holds the authoritative on-hand quantity for one SKU. CurrentStock
// is mutated only through validated receipts, deliveries and adjustments;
// Version guards those writes with optimistic locking.
type Product struct {
	ID                 int64         `json:"id"`
	SKU                string        `json:"sku"`
	Name               string        `json:"name"`
	CategoryID         int64         `json:"category_id"`
	WarehouseID        *int64        `json:"warehouse_id,omitempty"`
	CurrentStock       int           `json:"current_stock"`
	ReorderLevel       int           `json:"reorder_level"`
	MaxStockLevel      *int          `json:"max_stock_level,omitempty"`
	AutoReorderEnabled bool          `json:"auto_reorder_enabled"`
	UnitOfMeasure      UnitOfMeasure `json:"unit_of_measure"`
	Version            int64         `json:"version"`
	CreatedBy          int64         `json:"created_by"`
	LastUpdatedBy      int64         `json:"last_updated_by"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// StockStatus computes the derived status from current stock.
func (p Product) StockStatus() StockStatus {
	switch {
	case p.CurrentStock == 0:
		return StockStatusOut
	case p.CurrentStock <= p.ReorderLevel:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// SuggestedOrderQty returns how much to reorder when stock is at or below the
// reorder level and a maximum level is configured, otherwise 0.
func (p Product) SuggestedOrderQty() int {
	if p.MaxStockLevel == nil || p.CurrentStock > p.ReorderLevel {
		return 0
	}
	qty := *p.MaxStockLevel - p.CurrentStock
	if qty < 0 {
		return 0
	}
	return qty
}

// View is the read shape of a product including derived fields.
type View struct {
	Product
	StockStatus       StockStatus `json:"stock_status"`
	SuggestedOrderQty int         `json:"suggested_order_qty"`
}

// NewView computes the derived fields for a product.
func NewView(p Product) View {
	return View{Product: p, StockStatus: p.StockStatus(), SuggestedOrderQty: p.SuggestedOrderQty()}
}
