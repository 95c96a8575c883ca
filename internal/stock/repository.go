package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/stockwise/stockwise/internal/shared"
)

// PgTx adapts a pgx transaction to the ledger's TxPort. Document repositories
// embed it in their own TxRepository implementations so stock writes share the
// document's transaction.
type PgTx struct {
	Tx pgx.Tx
}

// GetProductForUpdate loads and row-locks the product.
func (t PgTx) GetProductForUpdate(ctx context.Context, productID int64) (Product, error) {
	var p Product
	err := t.Tx.QueryRow(ctx,
		`SELECT id, sku, name, current_stock, reorder_level, max_stock_level, auto_reorder_enabled, version
		 FROM products WHERE id = $1 FOR UPDATE`, productID).
		Scan(&p.ID, &p.SKU, &p.Name, &p.CurrentStock, &p.ReorderLevel, &p.MaxStockLevel, &p.AutoReorderEnabled, &p.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, fmt.Errorf("product %d: %w", productID, shared.ErrNotFound)
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

// UpdateProductStock writes the new quantity guarded by the version read
// earlier. A changed version means another writer got there first.
func (t PgTx) UpdateProductStock(ctx context.Context, productID int64, newStock int, expectedVersion int64, actorID int64) error {
	tag, err := t.Tx.Exec(ctx,
		`UPDATE products SET current_stock = $1, version = version + 1, last_updated_by = $2, updated_at = $3
		 WHERE id = $4 AND version = $5`,
		newStock, actorID, time.Now().UTC(), productID, expectedVersion)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %d: %w", productID, shared.ErrStaleVersion)
	}
	return nil
}
