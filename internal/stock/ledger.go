package stock

import (
	"context"
	"fmt"
	"sort"

	"github.com/stockwise/stockwise/internal/shared"
)

// Apply commits a set of deltas atomically. Every product is loaded and
// checked before any write: the first insufficient product aborts the whole
// call with no mutation. Products are locked in id order to avoid deadlocks
// between concurrent validations.
func Apply(ctx context.Context, tx TxPort, actorID int64, deltas []Delta) ([]Applied, error) {
	if len(deltas) == 0 {
		return nil, nil
	}

	merged := make(map[int64]int, len(deltas))
	for _, d := range deltas {
		merged[d.ProductID] += d.Change
	}
	ids := make([]int64, 0, len(merged))
	for id := range merged {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	loaded := make(map[int64]Product, len(ids))
	for _, id := range ids {
		p, err := tx.GetProductForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		loaded[id] = p
	}

	// All-or-nothing gate: reject before any write.
	for _, id := range ids {
		p := loaded[id]
		if p.CurrentStock+merged[id] < 0 {
			return nil, fmt.Errorf("product %s has %d on hand, needs %d: %w",
				p.SKU, p.CurrentStock, -merged[id], shared.ErrInsufficientStock)
		}
	}

	applied := make([]Applied, 0, len(ids))
	for _, id := range ids {
		p := loaded[id]
		newStock := p.CurrentStock + merged[id]
		if err := tx.UpdateProductStock(ctx, id, newStock, p.Version, actorID); err != nil {
			return nil, err
		}
		applied = append(applied, Applied{
			ProductID:          p.ID,
			SKU:                p.SKU,
			Name:               p.Name,
			PreviousStock:      p.CurrentStock,
			NewStock:           newStock,
			ReorderLevel:       p.ReorderLevel,
			MaxStockLevel:      p.MaxStockLevel,
			AutoReorderEnabled: p.AutoReorderEnabled,
		})
	}
	return applied, nil
}

// Set overwrites a product's stock with an absolute count, used by
// adjustments where creation is the mutation. The write is not additive.
func Set(ctx context.Context, tx TxPort, actorID int64, productID int64, physicalCount int) (Applied, error) {
	if physicalCount < 0 {
		return Applied{}, fmt.Errorf("physical count must be >= 0: %w", shared.ErrValidation)
	}
	p, err := tx.GetProductForUpdate(ctx, productID)
	if err != nil {
		return Applied{}, err
	}
	if err := tx.UpdateProductStock(ctx, productID, physicalCount, p.Version, actorID); err != nil {
		return Applied{}, err
	}
	return Applied{
		ProductID:          p.ID,
		SKU:                p.SKU,
		Name:               p.Name,
		PreviousStock:      p.CurrentStock,
		NewStock:           physicalCount,
		ReorderLevel:       p.ReorderLevel,
		MaxStockLevel:      p.MaxStockLevel,
		AutoReorderEnabled: p.AutoReorderEnabled,
	}, nil
}
