package adjustments

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stockwise/stockwise/internal/notify"
	"github.com/stockwise/stockwise/internal/sequence"
	"github.com/stockwise/stockwise/internal/shared"
	"github.com/stockwise/stockwise/internal/stock"
)

type memoryRepo struct {
	adjustments map[int64]*Adjustment
	products    map[int64]*stock.Product
	warehouses  map[int64]bool
	nextID      int64
}

func newMemoryRepo(products ...stock.Product) *memoryRepo {
	m := &memoryRepo{adjustments: map[int64]*Adjustment{}, products: map[int64]*stock.Product{}, warehouses: map[int64]bool{}}
	for i := range products {
		p := products[i]
		m.products[p.ID] = &p
	}
	return m
}

func (m *memoryRepo) List(_ context.Context, _ ListFilters) ([]Adjustment, int, error) {
	out := make([]Adjustment, 0, len(m.adjustments))
	for _, a := range m.adjustments {
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (m *memoryRepo) Get(_ context.Context, id int64) (Adjustment, error) {
	a, ok := m.adjustments[id]
	if !ok {
		return Adjustment{}, fmt.Errorf("adjustment %d: %w", id, shared.ErrNotFound)
	}
	return *a, nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.adjustments[id]; !ok {
		return fmt.Errorf("adjustment %d: %w", id, shared.ErrNotFound)
	}
	delete(m.adjustments, id)
	return nil
}

func (m *memoryRepo) WarehouseExists(_ context.Context, id int64) (bool, error) {
	return m.warehouses[id], nil
}

func (m *memoryRepo) WithTx(_ context.Context, fn func(tx TxRepository) error) error {
	return fn(&memoryTx{repo: m})
}

type memoryTx struct {
	repo *memoryRepo
}

func (t *memoryTx) GetProductForUpdate(_ context.Context, id int64) (stock.Product, error) {
	p, ok := t.repo.products[id]
	if !ok {
		return stock.Product{}, fmt.Errorf("product %d: %w", id, shared.ErrNotFound)
	}
	return *p, nil
}

func (t *memoryTx) UpdateProductStock(_ context.Context, id int64, newStock int, expectedVersion int64, _ int64) error {
	p := t.repo.products[id]
	if p.Version != expectedVersion {
		return fmt.Errorf("product %d: %w", id, shared.ErrStaleVersion)
	}
	p.CurrentStock = newStock
	p.Version++
	return nil
}

func (t *memoryTx) InsertAdjustment(_ context.Context, adjustment Adjustment) (Adjustment, error) {
	t.repo.nextID++
	adjustment.ID = t.repo.nextID
	adjustment.CreatedAt = time.Now().UTC()
	adjustment.UpdatedAt = adjustment.CreatedAt
	stored := adjustment
	t.repo.adjustments[adjustment.ID] = &stored
	return adjustment, nil
}

type fakeCounters struct {
	counters map[string]int
}

func (f *fakeCounters) NextCounter(_ context.Context, prefix string, year int) (int, error) {
	if f.counters == nil {
		f.counters = map[string]int{}
	}
	key := fmt.Sprintf("%s-%d", prefix, year)
	f.counters[key]++
	return f.counters[key], nil
}

func (f *fakeCounters) NextSKUCounter(_ context.Context, prefix string) (int, error) {
	if f.counters == nil {
		f.counters = map[string]int{}
	}
	f.counters[prefix]++
	return f.counters[prefix], nil
}

type captureNotifier struct {
	published []string
}

func (c *captureNotifier) Publish(_ context.Context, kind string, _ any) {
	c.published = append(c.published, kind)
}

func newTestService(repo *memoryRepo) (*Service, *captureNotifier) {
	notifier := &captureNotifier{}
	return NewService(repo, sequence.NewGenerator(&fakeCounters{}), notifier, nil), notifier
}

var actor = &shared.Actor{UserID: 9, Role: shared.RoleAdmin}

func TestCreateOverwritesStockAndStoresDifference(t *testing.T) {
	repo := newMemoryRepo(stock.Product{ID: 1, SKU: "ELE-00001", CurrentStock: 40, ReorderLevel: 10})
	service, _ := newTestService(repo)

	created, err := service.Create(context.Background(), actor, CreateAdjustmentRequest{
		ProductID:     1,
		PhysicalCount: 50,
		Reason:        "Counting Error",
	})
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("ADJ-%d-001", time.Now().UTC().Year()), created.AdjustmentNumber)
	require.Equal(t, 40, created.SystemStock)
	require.Equal(t, 50, created.PhysicalCount)
	require.Equal(t, 10, created.Difference)
	require.Equal(t, 50, repo.products[1].CurrentStock)
}

func TestSequentialAdjustmentsAreLastWriteWins(t *testing.T) {
	repo := newMemoryRepo(stock.Product{ID: 1, SKU: "ELE-00001", CurrentStock: 60})
	service, _ := newTestService(repo)

	first, err := service.Create(context.Background(), actor, CreateAdjustmentRequest{
		ProductID: 1, PhysicalCount: 50, Reason: "Counting Error",
	})
	require.NoError(t, err)
	require.Equal(t, -10, first.Difference)

	second, err := service.Create(context.Background(), actor, CreateAdjustmentRequest{
		ProductID: 1, PhysicalCount: 45, Reason: "Damaged Goods",
	})
	require.NoError(t, err)
	require.Equal(t, 50, second.SystemStock, "second snapshot sees the first overwrite")
	require.Equal(t, -5, second.Difference)
	require.Equal(t, 45, repo.products[1].CurrentStock, "overwrite, not cumulative")
}

func TestCreateRejectsNegativeCount(t *testing.T) {
	repo := newMemoryRepo(stock.Product{ID: 1, SKU: "ELE-00001", CurrentStock: 10})
	service, _ := newTestService(repo)

	_, err := service.Create(context.Background(), actor, CreateAdjustmentRequest{
		ProductID: 1, PhysicalCount: -3, Reason: "Other",
	})
	require.ErrorIs(t, err, shared.ErrValidation)
	require.Equal(t, 10, repo.products[1].CurrentStock)
}

func TestCreateRejectsUnknownReason(t *testing.T) {
	repo := newMemoryRepo(stock.Product{ID: 1, SKU: "ELE-00001", CurrentStock: 10})
	service, _ := newTestService(repo)

	_, err := service.Create(context.Background(), actor, CreateAdjustmentRequest{
		ProductID: 1, PhysicalCount: 5, Reason: "Shrinkage",
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRejectsUnknownProduct(t *testing.T) {
	repo := newMemoryRepo()
	service, _ := newTestService(repo)

	_, err := service.Create(context.Background(), actor, CreateAdjustmentRequest{
		ProductID: 99, PhysicalCount: 5, Reason: "Other",
	})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreatePublishesLowStockWhenCountIsBelowReorderLevel(t *testing.T) {
	repo := newMemoryRepo(stock.Product{ID: 1, SKU: "ELE-00001", Name: "Cable Drum", CurrentStock: 40, ReorderLevel: 10})
	service, notifier := newTestService(repo)

	_, err := service.Create(context.Background(), actor, CreateAdjustmentRequest{
		ProductID: 1, PhysicalCount: 4, Reason: "Theft/Loss",
	})
	require.NoError(t, err)
	require.Contains(t, notifier.published, notify.KindLowStock)
}

func TestDeleteDoesNotReverseStock(t *testing.T) {
	repo := newMemoryRepo(stock.Product{ID: 1, SKU: "ELE-00001", CurrentStock: 40})
	service, _ := newTestService(repo)

	created, err := service.Create(context.Background(), actor, CreateAdjustmentRequest{
		ProductID: 1, PhysicalCount: 25, Reason: "Expired Items",
	})
	require.NoError(t, err)
	require.Equal(t, 25, repo.products[1].CurrentStock)

	require.NoError(t, service.Delete(context.Background(), actor, created.ID))
	_, err = service.Get(context.Background(), created.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.Equal(t, 25, repo.products[1].CurrentStock, "deletion keeps the overwrite in place")
}
