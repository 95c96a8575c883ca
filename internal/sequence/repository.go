package sequence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentSource tells the repository where legacy numbers for a prefix live,
// used once to seed a counter that has no row yet.
type DocumentSource struct {
	Table  string
	Column string
}

type repository struct {
	pool    *pgxpool.Pool
	sources map[string]DocumentSource
}

// NewRepository builds the postgres-backed counter repository. sources maps a
// document prefix to the table/column holding already-issued numbers.
func NewRepository(pool *pgxpool.Pool, sources map[string]DocumentSource) Repository {
	return &repository{pool: pool, sources: sources}
}

// NextCounter increments the (prefix, year) counter with a single atomic
// statement. A missing counter row is seeded from the highest legacy number so
// numbering continues where the old scan-and-increment scheme left off.
func (r *repository) NextCounter(ctx context.Context, prefix string, year int) (int, error) {
	var value int
	err := r.pool.QueryRow(ctx,
		`UPDATE document_counters SET value = value + 1 WHERE prefix = $1 AND year = $2 RETURNING value`,
		prefix, year).Scan(&value)
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	seed, err := r.legacyMax(ctx, prefix, year)
	if err != nil {
		return 0, err
	}
	// Concurrent first calls both reach the insert; ON CONFLICT keeps the
	// increment atomic so they still receive distinct values.
	err = r.pool.QueryRow(ctx,
		`INSERT INTO document_counters (prefix, year, value) VALUES ($1, $2, $3)
		 ON CONFLICT (prefix, year) DO UPDATE SET value = document_counters.value + 1
		 RETURNING value`,
		prefix, year, seed+1).Scan(&value)
	if err != nil {
		return 0, err
	}
	return value, nil
}

// NextSKUCounter increments the per-prefix SKU counter (no year segment).
func (r *repository) NextSKUCounter(ctx context.Context, prefix string) (int, error) {
	var value int
	err := r.pool.QueryRow(ctx,
		`INSERT INTO sku_counters (prefix, value) VALUES ($1, 1)
		 ON CONFLICT (prefix) DO UPDATE SET value = sku_counters.value + 1
		 RETURNING value`,
		prefix).Scan(&value)
	if err != nil {
		return 0, err
	}
	return value, nil
}

func (r *repository) legacyMax(ctx context.Context, prefix string, year int) (int, error) {
	src, ok := r.sources[prefix]
	if !ok {
		return 0, nil
	}
	pattern := fmt.Sprintf("%s-%d-%%", prefix, year)
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s LIKE $1 ORDER BY %s DESC LIMIT 1`,
		src.Column, src.Table, src.Column, src.Column)
	var number string
	err := r.pool.QueryRow(ctx, query, pattern).Scan(&number)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return TrailingInt(number), nil
}
