package deliveries

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

// ProductStock is the snapshot used by the advisory sufficiency check at
// creation time.
type ProductStock struct {
	ID           int64
	SKU          string
	CurrentStock int
}

// TxRepository is the transactional surface for delivery mutations. It carries
// the stock ledger port so a validation's status flip and stock writes commit
// in the same transaction.
type TxRepository interface {
	stock.TxPort
	InsertDelivery(ctx context.Context, delivery Delivery) (Delivery, error)
	ReplaceDelivery(ctx context.Context, id int64, delivery Delivery) error
	GetForUpdate(ctx context.Context, id int64) (Delivery, error)
	MarkValidated(ctx context.Context, id int64, actorID int64) error
	DeleteDelivery(ctx context.Context, id int64) error
}

// Repository provides delivery persistence.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Delivery, int, error)
	Get(ctx context.Context, id int64) (Delivery, error)
	ProductStocks(ctx context.Context, productIDs []int64) (map[int64]ProductStock, error)
	WithTx(ctx context.Context, fn func(tx TxRepository) error) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const headerColumns = `id, delivery_number, customer, delivery_address, delivery_date, status, created_by, last_updated_by, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Delivery, int, error) {
	query := `SELECT ` + headerColumns + ` FROM deliveries WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM deliveries WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Status != "" {
		argCount++
		clause := ` AND status = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, filters.Status)
	}
	if filters.Search != "" {
		argCount++
		clause := ` AND (delivery_number ILIKE $` + strconv.Itoa(argCount) + ` OR customer ILIKE $` + strconv.Itoa(argCount) + `)`
		query += clause
		countQuery += clause
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.DateFrom != nil {
		argCount++
		clause := ` AND delivery_date >= $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *filters.DateFrom)
	}
	if filters.DateTo != nil {
		argCount++
		clause := ` AND delivery_date <= $` + strconv.Itoa(argCount)
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

	var deliveries []Delivery
	ids := make([]int64, 0)
	for rows.Next() {
		var d Delivery
		if err := scanHeader(rows, &d); err != nil {
			return nil, 0, err
		}
		deliveries = append(deliveries, d)
		ids = append(ids, d.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	itemsByDelivery, err := loadItems(ctx, r.pool, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range deliveries {
		deliveries[i].Items = itemsByDelivery[deliveries[i].ID]
	}
	return deliveries, total, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Delivery, error) {
	return getDelivery(ctx, r.pool, id, "")
}

func (r *repository) ProductStocks(ctx context.Context, productIDs []int64) (map[int64]ProductStock, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT id, sku, current_stock FROM products WHERE id = ANY($1)`, productIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]ProductStock, len(productIDs))
	for rows.Next() {
		var p ProductStock
		if err := rows.Scan(&p.ID, &p.SKU, &p.CurrentStock); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
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

func (t *txRepository) InsertDelivery(ctx context.Context, delivery Delivery) (Delivery, error) {
	now := time.Now().UTC()
	err := t.tx.QueryRow(ctx,
		`INSERT INTO deliveries (delivery_number, customer, delivery_address, delivery_date, status, created_by, last_updated_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6, $7, $7) RETURNING id, created_at, updated_at`,
		delivery.DeliveryNumber, delivery.Customer, delivery.DeliveryAddress, delivery.DeliveryDate, delivery.Status, delivery.CreatedBy, now).
		Scan(&delivery.ID, &delivery.CreatedAt, &delivery.UpdatedAt)
	if err != nil {
		return Delivery{}, err
	}
	items, err := insertItems(ctx, t.tx, delivery.ID, delivery.Items)
	if err != nil {
		return Delivery{}, err
	}
	delivery.Items = items
	return delivery, nil
}

func (t *txRepository) ReplaceDelivery(ctx context.Context, id int64, delivery Delivery) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE deliveries SET customer = $1, delivery_address = $2, delivery_date = $3, status = $4, last_updated_by = $5, updated_at = $6 WHERE id = $7`,
		delivery.Customer, delivery.DeliveryAddress, delivery.DeliveryDate, delivery.Status, delivery.LastUpdatedBy, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delivery %d: %w", id, shared.ErrNotFound)
	}
	if _, err := t.tx.Exec(ctx, `DELETE FROM delivery_items WHERE delivery_id = $1`, id); err != nil {
		return err
	}
	_, err = insertItems(ctx, t.tx, id, delivery.Items)
	return err
}

func (t *txRepository) GetForUpdate(ctx context.Context, id int64) (Delivery, error) {
	return getDelivery(ctx, t.tx, id, " FOR UPDATE")
}

func (t *txRepository) MarkValidated(ctx context.Context, id int64, actorID int64) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE deliveries SET status = $1, last_updated_by = $2, updated_at = $3 WHERE id = $4`,
		StatusDelivered, actorID, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delivery %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

func (t *txRepository) DeleteDelivery(ctx context.Context, id int64) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM delivery_items WHERE delivery_id = $1`, id); err != nil {
		return err
	}
	tag, err := t.tx.Exec(ctx, `DELETE FROM deliveries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delivery %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getDelivery(ctx context.Context, q querier, id int64, lock string) (Delivery, error) {
	var d Delivery
	row := q.QueryRow(ctx, `SELECT `+headerColumns+` FROM deliveries WHERE id = $1`+lock, id)
	err := scanHeader(row, &d)
	if errors.Is(err, pgx.ErrNoRows) {
		return Delivery{}, fmt.Errorf("delivery %d: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return Delivery{}, err
	}
	itemsByDelivery, err := loadItems(ctx, q, []int64{id})
	if err != nil {
		return Delivery{}, err
	}
	d.Items = itemsByDelivery[id]
	return d, nil
}

func scanHeader(row pgx.Row, d *Delivery) error {
	return row.Scan(&d.ID, &d.DeliveryNumber, &d.Customer, &d.DeliveryAddress, &d.DeliveryDate,
		&d.Status, &d.CreatedBy, &d.LastUpdatedBy, &d.CreatedAt, &d.UpdatedAt)
}

func loadItems(ctx context.Context, q querier, deliveryIDs []int64) (map[int64][]Item, error) {
	if len(deliveryIDs) == 0 {
		return nil, nil
	}
	rows, err := q.Query(ctx,
		`SELECT id, delivery_id, product_id, requested_qty, picked_qty
		 FROM delivery_items WHERE delivery_id = ANY($1) ORDER BY id ASC`, deliveryIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]Item)
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.DeliveryID, &item.ProductID, &item.RequestedQty, &item.PickedQty); err != nil {
			return nil, err
		}
		out[item.DeliveryID] = append(out[item.DeliveryID], item)
	}
	return out, rows.Err()
}

func insertItems(ctx context.Context, tx pgx.Tx, deliveryID int64, items []Item) ([]Item, error) {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		item.DeliveryID = deliveryID
		err := tx.QueryRow(ctx,
			`INSERT INTO delivery_items (delivery_id, product_id, requested_qty, picked_qty)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			deliveryID, item.ProductID, item.RequestedQty, item.PickedQty).
			Scan(&item.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
