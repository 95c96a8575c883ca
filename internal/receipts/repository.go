package receipts

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

// TxRepository is the transactional surface for receipt mutations. It carries
// the stock ledger port so a validation's status flip and stock writes commit
// in the same transaction.
type TxRepository interface {
	stock.TxPort
	InsertReceipt(ctx context.Context, receipt Receipt) (Receipt, error)
	ReplaceReceipt(ctx context.Context, id int64, receipt Receipt) error
	GetForUpdate(ctx context.Context, id int64) (Receipt, error)
	MarkValidated(ctx context.Context, id int64, receivedDate time.Time, actorID int64) error
	DeleteReceipt(ctx context.Context, id int64) error
}

// Repository provides receipt persistence.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Receipt, int, error)
	Get(ctx context.Context, id int64) (Receipt, error)
	MissingProducts(ctx context.Context, productIDs []int64) ([]int64, error)
	WithTx(ctx context.Context, fn func(tx TxRepository) error) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const headerColumns = `id, receipt_number, supplier, expected_date, received_date, status, created_by, last_updated_by, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Receipt, int, error) {
	query := `SELECT ` + headerColumns + ` FROM receipts WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM receipts WHERE 1=1`
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
		clause := ` AND (receipt_number ILIKE $` + strconv.Itoa(argCount) + ` OR supplier ILIKE $` + strconv.Itoa(argCount) + `)`
		query += clause
		countQuery += clause
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.DateFrom != nil {
		argCount++
		clause := ` AND expected_date >= $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *filters.DateFrom)
	}
	if filters.DateTo != nil {
		argCount++
		clause := ` AND expected_date <= $` + strconv.Itoa(argCount)
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

	var receipts []Receipt
	ids := make([]int64, 0)
	for rows.Next() {
		var rec Receipt
		if err := scanHeader(rows, &rec); err != nil {
			return nil, 0, err
		}
		receipts = append(receipts, rec)
		ids = append(ids, rec.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	itemsByReceipt, err := loadItems(ctx, r.pool, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range receipts {
		receipts[i].Items = itemsByReceipt[receipts[i].ID]
	}
	return receipts, total, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Receipt, error) {
	return getReceipt(ctx, r.pool, id, "")
}

func (r *repository) MissingProducts(ctx context.Context, productIDs []int64) ([]int64, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT id FROM products WHERE id = ANY($1)`, productIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[int64]bool, len(productIDs))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []int64
	for _, id := range productIDs {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
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

func (t *txRepository) InsertReceipt(ctx context.Context, receipt Receipt) (Receipt, error) {
	now := time.Now().UTC()
	err := t.tx.QueryRow(ctx,
		`INSERT INTO receipts (receipt_number, supplier, expected_date, status, created_by, last_updated_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5, $6, $6) RETURNING id, created_at, updated_at`,
		receipt.ReceiptNumber, receipt.Supplier, receipt.ExpectedDate, receipt.Status, receipt.CreatedBy, now).
		Scan(&receipt.ID, &receipt.CreatedAt, &receipt.UpdatedAt)
	if err != nil {
		return Receipt{}, err
	}
	items, err := insertItems(ctx, t.tx, receipt.ID, receipt.Items)
	if err != nil {
		return Receipt{}, err
	}
	receipt.Items = items
	return receipt, nil
}

func (t *txRepository) ReplaceReceipt(ctx context.Context, id int64, receipt Receipt) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE receipts SET supplier = $1, expected_date = $2, status = $3, last_updated_by = $4, updated_at = $5 WHERE id = $6`,
		receipt.Supplier, receipt.ExpectedDate, receipt.Status, receipt.LastUpdatedBy, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("receipt %d: %w", id, shared.ErrNotFound)
	}
	if _, err := t.tx.Exec(ctx, `DELETE FROM receipt_items WHERE receipt_id = $1`, id); err != nil {
		return err
	}
	_, err = insertItems(ctx, t.tx, id, receipt.Items)
	return err
}

func (t *txRepository) GetForUpdate(ctx context.Context, id int64) (Receipt, error) {
	return getReceipt(ctx, t.tx, id, " FOR UPDATE")
}

func (t *txRepository) MarkValidated(ctx context.Context, id int64, receivedDate time.Time, actorID int64) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE receipts SET status = $1, received_date = $2, last_updated_by = $3, updated_at = $4 WHERE id = $5`,
		StatusDone, receivedDate, actorID, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("receipt %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

func (t *txRepository) DeleteReceipt(ctx context.Context, id int64) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM receipt_items WHERE receipt_id = $1`, id); err != nil {
		return err
	}
	tag, err := t.tx.Exec(ctx, `DELETE FROM receipts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("receipt %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getReceipt(ctx context.Context, q querier, id int64, lock string) (Receipt, error) {
	var rec Receipt
	row := q.QueryRow(ctx, `SELECT `+headerColumns+` FROM receipts WHERE id = $1`+lock, id)
	err := scanHeader(row, &rec)
	if errors.Is(err, pgx.ErrNoRows) {
		return Receipt{}, fmt.Errorf("receipt %d: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return Receipt{}, err
	}
	itemsByReceipt, err := loadItems(ctx, q, []int64{id})
	if err != nil {
		return Receipt{}, err
	}
	rec.Items = itemsByReceipt[id]
	return rec, nil
}

func scanHeader(row pgx.Row, rec *Receipt) error {
	return row.Scan(&rec.ID, &rec.ReceiptNumber, &rec.Supplier, &rec.ExpectedDate, &rec.ReceivedDate,
		&rec.Status, &rec.CreatedBy, &rec.LastUpdatedBy, &rec.CreatedAt, &rec.UpdatedAt)
}

func loadItems(ctx context.Context, q querier, receiptIDs []int64) (map[int64][]Item, error) {
	if len(receiptIDs) == 0 {
		return nil, nil
	}
	rows, err := q.Query(ctx,
		`SELECT id, receipt_id, product_id, expected_qty, received_qty, quality_status
		 FROM receipt_items WHERE receipt_id = ANY($1) ORDER BY id ASC`, receiptIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]Item)
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.ReceiptID, &item.ProductID, &item.ExpectedQty, &item.ReceivedQty, &item.QualityStatus); err != nil {
			return nil, err
		}
		out[item.ReceiptID] = append(out[item.ReceiptID], item)
	}
	return out, rows.Err()
}

func insertItems(ctx context.Context, tx pgx.Tx, receiptID int64, items []Item) ([]Item, error) {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		item.ReceiptID = receiptID
		err := tx.QueryRow(ctx,
			`INSERT INTO receipt_items (receipt_id, product_id, expected_qty, received_qty, quality_status)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			receiptID, item.ProductID, item.ExpectedQty, item.ReceivedQty, item.QualityStatus).
			Scan(&item.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
