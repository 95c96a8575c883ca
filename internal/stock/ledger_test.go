package stock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stockwise/stockwise/internal/shared"
)

type memoryTx struct {
	products map[int64]*Product
}

func newMemoryTx(products ...Product) *memoryTx {
	tx := &memoryTx{products: make(map[int64]*Product)}
	for i := range products {
		p := products[i]
		if p.Version == 0 {
			p.Version = 1
		}
		tx.products[p.ID] = &p
	}
	return tx
}

func (m *memoryTx) GetProductForUpdate(ctx context.Context, productID int64) (Product, error) {
	p, ok := m.products[productID]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	return *p, nil
}

func (m *memoryTx) UpdateProductStock(ctx context.Context, productID int64, newStock int, expectedVersion int64, actorID int64) error {
	p, ok := m.products[productID]
	if !ok {
		return shared.ErrNotFound
	}
	if p.Version != expectedVersion {
		return shared.ErrStaleVersion
	}
	p.CurrentStock = newStock
	p.Version++
	return nil
}

func TestApplyIncrementsAndDecrements(t *testing.T) {
	tx := newMemoryTx(
		Product{ID: 1, SKU: "ELE-00001", CurrentStock: 10, ReorderLevel: 5},
		Product{ID: 2, SKU: "ELE-00002", CurrentStock: 3, ReorderLevel: 2},
	)

	applied, err := Apply(context.Background(), tx, 7, []Delta{
		{ProductID: 1, Change: -4},
		{ProductID: 2, Change: 6},
	})
	require.NoError(t, err)
	require.Len(t, applied, 2)
	require.Equal(t, 6, tx.products[1].CurrentStock)
	require.Equal(t, 9, tx.products[2].CurrentStock)
}

func TestApplyAllOrNothing(t *testing.T) {
	tx := newMemoryTx(
		Product{ID: 1, SKU: "A", CurrentStock: 10},
		Product{ID: 2, SKU: "B", CurrentStock: 2},
	)

	// Product 2 is short; product 1 must stay untouched too.
	_, err := Apply(context.Background(), tx, 7, []Delta{
		{ProductID: 1, Change: -5},
		{ProductID: 2, Change: -3},
	})
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	require.Contains(t, err.Error(), "B")
	require.Equal(t, 10, tx.products[1].CurrentStock)
	require.Equal(t, 2, tx.products[2].CurrentStock)
}

func TestApplyMergesDeltasPerProduct(t *testing.T) {
	tx := newMemoryTx(Product{ID: 1, SKU: "A", CurrentStock: 5})

	// Two lines for the same product net to -5; exactly sufficient.
	applied, err := Apply(context.Background(), tx, 7, []Delta{
		{ProductID: 1, Change: -3},
		{ProductID: 1, Change: -2},
	})
	require.NoError(t, err)
	require.Len(t, applied, 1)
	require.Equal(t, 0, tx.products[1].CurrentStock)

	_, err = Apply(context.Background(), tx, 7, []Delta{{ProductID: 1, Change: -1}})
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
}

func TestApplyEmptyIsNoop(t *testing.T) {
	tx := newMemoryTx(Product{ID: 1, CurrentStock: 5})
	applied, err := Apply(context.Background(), tx, 7, nil)
	require.NoError(t, err)
	require.Empty(t, applied)
}

func TestSetOverwritesAbsolute(t *testing.T) {
	tx := newMemoryTx(Product{ID: 1, SKU: "A", CurrentStock: 60, ReorderLevel: 10})

	applied, err := Set(context.Background(), tx, 7, 1, 50)
	require.NoError(t, err)
	require.Equal(t, 60, applied.PreviousStock)
	require.Equal(t, 50, applied.NewStock)
	require.Equal(t, 50, tx.products[1].CurrentStock)

	// Not additive: a second set wins outright.
	applied, err = Set(context.Background(), tx, 7, 1, 45)
	require.NoError(t, err)
	require.Equal(t, 50, applied.PreviousStock)
	require.Equal(t, 45, tx.products[1].CurrentStock)
}

func TestSetRejectsNegativeCount(t *testing.T) {
	tx := newMemoryTx(Product{ID: 1, CurrentStock: 5})
	_, err := Set(context.Background(), tx, 7, 1, -1)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestAppliedLowStock(t *testing.T) {
	max := 40
	a := Applied{NewStock: 3, ReorderLevel: 5, MaxStockLevel: &max}
	require.True(t, a.LowStock())
	require.Equal(t, 37, a.SuggestedOrderQty())

	a = Applied{NewStock: 8, ReorderLevel: 5, MaxStockLevel: &max}
	require.False(t, a.LowStock())
	require.Equal(t, 0, a.SuggestedOrderQty())
}
