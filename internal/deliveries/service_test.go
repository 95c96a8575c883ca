package deliveries

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
	deliveries map[int64]*Delivery
	products   map[int64]*stock.Product
	nextID     int64
	nextItemID int64
}

func newMemoryRepo(products ...stock.Product) *memoryRepo {
	m := &memoryRepo{deliveries: map[int64]*Delivery{}, products: map[int64]*stock.Product{}}
	for i := range products {
		p := products[i]
		m.products[p.ID] = &p
	}
	return m
}

func (m *memoryRepo) List(_ context.Context, _ ListFilters) ([]Delivery, int, error) {
	out := make([]Delivery, 0, len(m.deliveries))
	for _, d := range m.deliveries {
		out = append(out, cloneDelivery(*d))
	}
	return out, len(out), nil
}

func (m *memoryRepo) Get(_ context.Context, id int64) (Delivery, error) {
	d, ok := m.deliveries[id]
	if !ok {
		return Delivery{}, fmt.Errorf("delivery %d: %w", id, shared.ErrNotFound)
	}
	return cloneDelivery(*d), nil
}

func (m *memoryRepo) ProductStocks(_ context.Context, ids []int64) (map[int64]ProductStock, error) {
	out := make(map[int64]ProductStock, len(ids))
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out[id] = ProductStock{ID: p.ID, SKU: p.SKU, CurrentStock: p.CurrentStock}
		}
	}
	return out, nil
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

func (t *memoryTx) InsertDelivery(_ context.Context, delivery Delivery) (Delivery, error) {
	t.repo.nextID++
	delivery.ID = t.repo.nextID
	delivery.CreatedAt = time.Now().UTC()
	delivery.UpdatedAt = delivery.CreatedAt
	for i := range delivery.Items {
		t.repo.nextItemID++
		delivery.Items[i].ID = t.repo.nextItemID
		delivery.Items[i].DeliveryID = delivery.ID
	}
	stored := cloneDelivery(delivery)
	t.repo.deliveries[delivery.ID] = &stored
	return delivery, nil
}

func (t *memoryTx) ReplaceDelivery(_ context.Context, id int64, delivery Delivery) error {
	stored, ok := t.repo.deliveries[id]
	if !ok {
		return fmt.Errorf("delivery %d: %w", id, shared.ErrNotFound)
	}
	delivery.ID = id
	delivery.CreatedAt = stored.CreatedAt
	delivery.UpdatedAt = time.Now().UTC()
	updated := cloneDelivery(delivery)
	t.repo.deliveries[id] = &updated
	return nil
}

func (t *memoryTx) GetForUpdate(ctx context.Context, id int64) (Delivery, error) {
	return t.repo.Get(ctx, id)
}

func (t *memoryTx) MarkValidated(_ context.Context, id int64, actorID int64) error {
	stored, ok := t.repo.deliveries[id]
	if !ok {
		return fmt.Errorf("delivery %d: %w", id, shared.ErrNotFound)
	}
	stored.Status = StatusDelivered
	stored.LastUpdatedBy = actorID
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (t *memoryTx) DeleteDelivery(_ context.Context, id int64) error {
	if _, ok := t.repo.deliveries[id]; !ok {
		return fmt.Errorf("delivery %d: %w", id, shared.ErrNotFound)
	}
	delete(t.repo.deliveries, id)
	return nil
}

func cloneDelivery(d Delivery) Delivery {
	items := make([]Item, len(d.Items))
	copy(items, d.Items)
	d.Items = items
	return d
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

var actor = &shared.Actor{UserID: 3, Role: shared.RoleWarehouseStaff}

func createRequest(items ...ItemRequest) CreateDeliveryRequest {
	return CreateDeliveryRequest{
		Customer:        "Globex Corp",
		DeliveryAddress: "12 Harbour Road, Dockside",
		DeliveryDate:    time.Now().UTC(),
		Items:           items,
	}
}

func TestCreateAssignsNumberAndDraftStatus(t *testing.T) {
	repo := newMemoryRepo(stock.Product{ID: 1, SKU: "ELE-00001", CurrentStock: 10})
	service, _ := newTestService(repo)

	created, err := service.Create(context.Background(), actor, createRequest(
		ItemRequest{ProductID: 1, RequestedQty: 4, PickedQty: 4},
	))
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("DEL-%d-001", time.Now().UTC().Year()), created.DeliveryNumber)
	require.Equal(t, StatusDraft, created.Status)
	require.Equal(t, 10, repo.products[1].CurrentStock, "creation must not move stock")
}

func TestCreateRejectsInsufficientRequestedQty(t *testing.T) {
	repo := newMemoryRepo(stock.Product{ID: 1, SKU: "ELE-00001", CurrentStock: 3})
	service, _ := newTestService(repo)

	_, err := service.Create(context.Background(), actor, createRequest(
		ItemRequest{ProductID: 1, RequestedQty: 5, PickedQty: 0},
	))
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	require.Contains(t, err.Error(), "ELE-00001")
}

func TestValidateAllOrNothing(t *testing.T) {
	// Item A overdraws; item B alone would have sufficed. Neither product
	// may move.
	repo := newMemoryRepo(
		stock.Product{ID: 1, SKU: "AAA-00001", CurrentStock: 5},
		stock.Product{ID: 2, SKU: "BBB-00001", CurrentStock: 50},
	)
	service, _ := newTestService(repo)

	created, err := service.Create(context.Background(), actor, createRequest(
		ItemRequest{ProductID: 1, RequestedQty: 5, PickedQty: 5},
		ItemRequest{ProductID: 2, RequestedQty: 10, PickedQty: 10},
	))
	require.NoError(t, err)

	// Stock drifts below item A's picked quantity after creation.
	repo.products[1].CurrentStock = 4

	_, err = service.Validate(context.Background(), actor, created.ID)
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	require.Contains(t, err.Error(), "AAA-00001")
	require.Equal(t, 4, repo.products[1].CurrentStock)
	require.Equal(t, 50, repo.products[2].CurrentStock)

	current, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, StatusDraft, current.Status, "failed validation must not flip status")
}

func TestValidateEndToEnd(t *testing.T) {
	repo := newMemoryRepo(stock.Product{ID: 1, SKU: "ELE-00001", Name: "Cable Drum", CurrentStock: 10, ReorderLevel: 5})
	service, notifier := newTestService(repo)

	created, err := service.Create(context.Background(), actor, createRequest(
		ItemRequest{ProductID: 1, RequestedQty: 8, PickedQty: 8},
	))
	require.NoError(t, err)
	require.Equal(t, StatusDraft, created.Status)

	validated, err := service.Validate(context.Background(), actor, created.ID)
	require.NoError(t, err)
	require.Equal(t, StatusDelivered, validated.Status)
	require.Equal(t, 2, repo.products[1].CurrentStock)
	require.Contains(t, notifier.published, notify.KindDocumentValidated)
	require.Contains(t, notifier.published, notify.KindLowStock, "2 on hand is below the reorder level of 5")

	_, err = service.Validate(context.Background(), actor, created.ID)
	require.ErrorIs(t, err, shared.ErrTerminalDocument)
	require.Equal(t, 2, repo.products[1].CurrentStock, "stock must not move twice")
}

func TestTerminalDeliveryIsImmutable(t *testing.T) {
	repo := newMemoryRepo(stock.Product{ID: 1, SKU: "ELE-00001", CurrentStock: 10})
	service, _ := newTestService(repo)

	created, err := service.Create(context.Background(), actor, createRequest(
		ItemRequest{ProductID: 1, RequestedQty: 2, PickedQty: 2},
	))
	require.NoError(t, err)
	_, err = service.Validate(context.Background(), actor, created.ID)
	require.NoError(t, err)

	customer := "Someone Else"
	_, err = service.Update(context.Background(), actor, created.ID, UpdateDeliveryRequest{Customer: &customer})
	require.ErrorIs(t, err, shared.ErrTerminalDocument)

	err = service.Delete(context.Background(), actor, created.ID)
	require.ErrorIs(t, err, shared.ErrTerminalDocument)

	current, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, StatusDelivered, current.Status)
	require.Equal(t, 8, repo.products[1].CurrentStock)
}

func TestDeleteDraftDelivery(t *testing.T) {
	repo := newMemoryRepo(stock.Product{ID: 1, SKU: "ELE-00001", CurrentStock: 10})
	service, _ := newTestService(repo)

	created, err := service.Create(context.Background(), actor, createRequest(
		ItemRequest{ProductID: 1, RequestedQty: 2, PickedQty: 0},
	))
	require.NoError(t, err)
	require.NoError(t, service.Delete(context.Background(), actor, created.ID))

	_, err = service.Get(context.Background(), created.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
