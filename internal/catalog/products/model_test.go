package products

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestStockStatus(t *testing.T) {
	cases := []struct {
		name         string
		currentStock int
		reorderLevel int
		want         StockStatus
	}{
		{"zero stock", 0, 5, StockStatusOut},
		{"zero stock zero reorder", 0, 0, StockStatusOut},
		{"at reorder level", 5, 5, StockStatusLow},
		{"below reorder level", 3, 5, StockStatusLow},
		{"above reorder level", 6, 5, StockStatusIn},
		{"plenty", 100, 5, StockStatusIn},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Product{CurrentStock: tc.currentStock, ReorderLevel: tc.reorderLevel}
			require.Equal(t, tc.want, p.StockStatus())
		})
	}
}

func TestSuggestedOrderQty(t *testing.T) {
	// No max level configured: never suggest.
	p := Product{CurrentStock: 2, ReorderLevel: 5}
	require.Equal(t, 0, p.SuggestedOrderQty())

	// Low stock with max level: fill up to max.
	p = Product{CurrentStock: 2, ReorderLevel: 5, MaxStockLevel: intPtr(50)}
	require.Equal(t, 48, p.SuggestedOrderQty())

	// Healthy stock: nothing to order even with max level set.
	p = Product{CurrentStock: 20, ReorderLevel: 5, MaxStockLevel: intPtr(50)}
	require.Equal(t, 0, p.SuggestedOrderQty())

	// Stock above max (over-received): clamp at zero.
	p = Product{CurrentStock: 60, ReorderLevel: 100, MaxStockLevel: intPtr(50)}
	require.Equal(t, 0, p.SuggestedOrderQty())
}

func TestNewViewComputesDerivedFields(t *testing.T) {
	view := NewView(Product{CurrentStock: 4, ReorderLevel: 5, MaxStockLevel: intPtr(30)})
	require.Equal(t, StockStatusLow, view.StockStatus)
	require.Equal(t, 26, view.SuggestedOrderQty)
}
