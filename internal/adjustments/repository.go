package adjustments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockwise/stockwise/internal/platform/db"
	"github.com/stockwise/stockwise/internal/shared"
	"github.com/stockwise/stockwise/internal/stock"
)

// TxRepository is the transactional surface for adjustment creation. It
// carries the stock ledger port so the stock overwrite and the adjustment row
// commit together.
type TxRepository interface {
	stock.TxPort
	InsertAdjustment(ctx context.Context, adjustment Adjustment) (Adjustment, error)
}

// Repository provides adjustment persistence.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Adjustment, int, error)
	Get(ctx context.Context, id int64) (Adjustment, error)
	Delete(ctx context.Context, id int64) error
	WarehouseExists(ctx context.Context, id int64) (bool, error)
	WithTx(ctx context.Context, fn func(tx TxRepository) error) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, adjustment_number, product_id, warehouse_id, system_stock, physical_count, difference, reason, notes, created_by, last_updated_by, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Adjustment, int, error) {
	query := `SELECT ` + columns + ` FROM adjustments WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM adjustments WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.ProductID > 0 {
		argCount++
		clause := ` AND product_id = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, filters.ProductID)
	}
	if filters.Reason != "" {
		argCount++
		clause := ` AND reason = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, filters.Reason)
	}
	if filters.DateFrom != nil {
		argCount++
		clause := ` AND created_at >= $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *filters.DateFrom)
	}
	if filters.DateTo != nil {
		argCount++
		clause := ` AND created_at <= $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *filters.DateTo)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY created_at DESC, id DESC`
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)
		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var adjustments []Adjustment
	for rows.Next() {
		var a Adjustment
		if err := scanAdjustment(rows, &a); err != nil {
			return nil, 0, err
		}
		adjustments = append(adjustments, a)
	}
	return adjustments, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Adjustment, error) {
	var a Adjustment
	row := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM adjustments WHERE id = $1`, id)
	err := scanAdjustment(row, &a)
	if errors.Is(err, pgx.ErrNoRows) {
		return Adjustment{}, fmt.Errorf("adjustment %d: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return Adjustment{}, err
	}
	return a, nil
}

// Delete removes the adjustment row. The stock overwrite it performed is not
// reversed.
func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM adjustments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("adjustment %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

func (r *repository) WarehouseExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM warehouses WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *repository) WithTx(ctx context.Context, fn func(tx TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&txRepository{tx: tx, PgTx: stock.PgTx{Tx: tx}})
	})
}

type txRepository struct {
	stock.PgTx
	tx pgx.Tx
}

func (t *txRepository) InsertAdjustment(ctx context.Context, adjustment Adjustment) (Adjustment, error) {
	now := time.Now().UTC()
	err := t.tx.QueryRow(ctx,
		`INSERT INTO adjustments (adjustment_number, product_id, warehouse_id, system_stock, physical_count, difference, reason, notes, created_by, last_updated_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9, $10, $10) RETURNING id, created_at, updated_at`,
		adjustment.AdjustmentNumber, adjustment.ProductID, adjustment.WarehouseID, adjustment.SystemStock,
		adjustment.PhysicalCount, adjustment.Difference, adjustment.Reason, adjustment.Notes, adjustment.CreatedBy, now).
		Scan(&adjustment.ID, &adjustment.CreatedAt, &adjustment.UpdatedAt)
	if err != nil {
		return Adjustment{}, err
	}
	return adjustment, nil
}

func scanAdjustment(row pgx.Row, a *Adjustment) error {
	return row.Scan(&a.ID, &a.AdjustmentNumber, &a.ProductID, &a.WarehouseID, &a.SystemStock, &a.PhysicalCount,
		&a.Difference, &a.Reason, &a.Notes, &a.CreatedBy, &a.LastUpdatedBy, &a.CreatedAt, &a.UpdatedAt)
}
