package products

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockwise/stockwise/internal/shared"
)

// ListFilters narrows product listings.
type ListFilters struct {
	Search      string
	CategoryID  *int64
	WarehouseID *int64
	StockStatus string
	Page        int
	Limit       int
}

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Product, int, error)
	Get(ctx context.Context, id int64) (Product, error)
	GetMany(ctx context.Context, ids []int64) ([]Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, id int64, product Product) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, sku, name, category_id, warehouse_id, current_stock, reorder_level,
	max_stock_level, auto_reorder_enabled, unit_of_measure, version,
	created_by, last_updated_by, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.CategoryID, &p.WarehouseID, &p.CurrentStock,
		&p.ReorderLevel, &p.MaxStockLevel, &p.AutoReorderEnabled, &p.UnitOfMeasure, &p.Version,
		&p.CreatedBy, &p.LastUpdatedBy, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	query := `SELECT ` + columns + ` FROM products WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM products WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		clause := ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR sku ILIKE $` + strconv.Itoa(argCount) + `)`
		query += clause
		countQuery += clause
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.CategoryID != nil {
		argCount++
		clause := ` AND category_id = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *filters.CategoryID)
	}
	if filters.WarehouseID != nil {
		argCount++
		clause := ` AND warehouse_id = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *filters.WarehouseID)
	}
	// stock_status is derived; filter with the same rules it is computed by.
	switch StockStatus(filters.StockStatus) {
	case StockStatusOut:
		clause := ` AND current_stock = 0`
		query += clause
		countQuery += clause
	case StockStatusLow:
		clause := ` AND current_stock > 0 AND current_stock <= reorder_level`
		query += clause
		countQuery += clause
	case StockStatusIn:
		clause := ` AND current_stock > reorder_level`
		query += clause
		countQuery += clause
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY name ASC`
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

	var result []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, p)
	}
	return result, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, fmt.Errorf("product %d: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *repository) GetMany(ctx context.Context, ids []int64) ([]Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO products (sku, name, category_id, warehouse_id, current_stock, reorder_level,
		   max_stock_level, auto_reorder_enabled, unit_of_measure, version,
		   created_by, last_updated_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10, $10, $11, $11)
		 RETURNING id, version, created_at, updated_at`,
		product.SKU, product.Name, product.CategoryID, product.WarehouseID, product.CurrentStock,
		product.ReorderLevel, product.MaxStockLevel, product.AutoReorderEnabled, product.UnitOfMeasure,
		product.CreatedBy, now).
		Scan(&product.ID, &product.Version, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return Product{}, mapUniqueViolation(err)
	}
	product.LastUpdatedBy = product.CreatedBy
	return product, nil
}

// Update writes reference fields only; current_stock and version belong to the
// stock ledger.
func (r *repository) Update(ctx context.Context, id int64, product Product) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET name = $1, category_id = $2, warehouse_id = $3, reorder_level = $4,
		   max_stock_level = $5, auto_reorder_enabled = $6, unit_of_measure = $7,
		   last_updated_by = $8, updated_at = $9
		 WHERE id = $10`,
		product.Name, product.CategoryID, product.WarehouseID, product.ReorderLevel,
		product.MaxStockLevel, product.AutoReorderEnabled, product.UnitOfMeasure,
		product.LastUpdatedBy, time.Now().UTC(), id)
	if err != nil {
		return mapUniqueViolation(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

// Delete removes the product unconditionally, even when open documents still
// reference it. Known gap carried over from the original behaviour.
func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("product sku already exists: %w", shared.ErrDuplicate)
	}
	return err
}
