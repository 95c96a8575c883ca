package deliveries

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/stockwise/stockwise/internal/notify"
	"github.com/stockwise/stockwise/internal/sequence"
	"github.com/stockwise/stockwise/internal/shared"
	"github.com/stockwise/stockwise/internal/stock"
)

// AuditPort records document lifecycle events.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service coordinates the delivery workflow.
type Service struct {
	repo     Repository
	numbers  *sequence.Generator
	notifier notify.Notifier
	audit    AuditPort
}

func NewService(repo Repository, numbers *sequence.Generator, notifier notify.Notifier, audit AuditPort) *Service {
	return &Service{repo: repo, numbers: numbers, notifier: notifier, audit: audit}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Delivery, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Delivery, error) {
	if id <= 0 {
		return Delivery{}, fmt.Errorf("invalid delivery id: %w", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Create registers a new delivery. The sufficiency check here is advisory:
// stock can drift between creation and validation, so the authoritative
// all-or-nothing gate runs again inside Validate.
func (s *Service) Create(ctx context.Context, actor *shared.Actor, input CreateDeliveryRequest) (Delivery, error) {
	if err := validate.Struct(input); err != nil {
		return Delivery{}, fmt.Errorf("%s: %w", err.Error(), shared.ErrValidation)
	}
	items, err := s.buildItems(ctx, input.Items)
	if err != nil {
		return Delivery{}, err
	}

	status := StatusDraft
	if input.Status != "" {
		status = Status(input.Status)
	}
	number, err := s.numbers.Next(ctx, sequence.PrefixDelivery, time.Now().UTC().Year())
	if err != nil {
		return Delivery{}, err
	}

	delivery := Delivery{
		DeliveryNumber:  number,
		Customer:        input.Customer,
		DeliveryAddress: input.DeliveryAddress,
		DeliveryDate:    input.DeliveryDate,
		Status:          status,
		CreatedBy:       actor.UserID,
		LastUpdatedBy:   actor.UserID,
		Items:           items,
	}
	var created Delivery
	err = s.repo.WithTx(ctx, func(tx TxRepository) error {
		created, err = tx.InsertDelivery(ctx, delivery)
		return err
	})
	if err != nil {
		return Delivery{}, err
	}
	s.recordAudit(ctx, actor, "delivery.created", created.ID)
	return created, nil
}

// Update overwrites provided header fields and, when present, replaces the
// item lines wholesale. Terminal deliveries are immutable.
func (s *Service) Update(ctx context.Context, actor *shared.Actor, id int64, input UpdateDeliveryRequest) (Delivery, error) {
	if err := validate.Struct(input); err != nil {
		return Delivery{}, fmt.Errorf("%s: %w", err.Error(), shared.ErrValidation)
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Delivery{}, err
	}
	if existing.Status.IsTerminal() {
		return Delivery{}, fmt.Errorf("delivery %s: %w", existing.DeliveryNumber, shared.ErrTerminalDocument)
	}

	if input.Customer != nil {
		existing.Customer = *input.Customer
	}
	if input.DeliveryAddress != nil {
		existing.DeliveryAddress = *input.DeliveryAddress
	}
	if input.DeliveryDate != nil {
		existing.DeliveryDate = *input.DeliveryDate
	}
	if input.Status != nil {
		existing.Status = Status(*input.Status)
	}
	if input.Items != nil {
		items, err := s.buildItems(ctx, *input.Items)
		if err != nil {
			return Delivery{}, err
		}
		existing.Items = items
	}
	existing.LastUpdatedBy = actor.UserID

	err = s.repo.WithTx(ctx, func(tx TxRepository) error {
		return tx.ReplaceDelivery(ctx, id, existing)
	})
	if err != nil {
		return Delivery{}, err
	}
	return s.repo.Get(ctx, id)
}

// Validate commits the delivery's stock effect: every item decrements its
// product's stock by the picked quantity. The decrement is all-or-nothing;
// one insufficient product aborts the whole call with no mutation, and the
// delivery stays in its current status. On success the delivery flips to
// Delivered and becomes immutable.
func (s *Service) Validate(ctx context.Context, actor *shared.Actor, id int64) (Delivery, error) {
	if id <= 0 {
		return Delivery{}, fmt.Errorf("invalid delivery id: %w", shared.ErrValidation)
	}
	var (
		number  string
		applied []stock.Applied
		count   int
	)
	err := s.repo.WithTx(ctx, func(tx TxRepository) error {
		delivery, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if delivery.Status.IsTerminal() {
			return fmt.Errorf("delivery %s: %w", delivery.DeliveryNumber, shared.ErrTerminalDocument)
		}
		number = delivery.DeliveryNumber
		count = len(delivery.Items)

		deltas := make([]stock.Delta, 0, len(delivery.Items))
		for _, item := range delivery.Items {
			if item.PickedQty == 0 {
				continue
			}
			deltas = append(deltas, stock.Delta{ProductID: item.ProductID, Change: -item.PickedQty})
		}
		applied, err = stock.Apply(ctx, tx, actor.UserID, deltas)
		if err != nil {
			return err
		}
		return tx.MarkValidated(ctx, id, actor.UserID)
	})
	if err != nil {
		return Delivery{}, err
	}

	s.notifier.Publish(ctx, notify.KindDocumentValidated, notify.DocumentValidatedPayload{
		DocumentType:   "delivery",
		DocumentNumber: number,
		ActorID:        actor.UserID,
		ItemCount:      count,
	})
	for _, a := range applied {
		if a.LowStock() {
			s.notifier.Publish(ctx, notify.KindLowStock, notify.LowStockPayload{
				ProductID:          a.ProductID,
				SKU:                a.SKU,
				Name:               a.Name,
				CurrentStock:       a.NewStock,
				ReorderLevel:       a.ReorderLevel,
				SuggestedOrderQty:  a.SuggestedOrderQty(),
				AutoReorderEnabled: a.AutoReorderEnabled,
			})
		}
	}
	s.recordAudit(ctx, actor, "delivery.validated", id)
	return s.repo.Get(ctx, id)
}

// Delete removes a non-terminal delivery and its items.
func (s *Service) Delete(ctx context.Context, actor *shared.Actor, id int64) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.Status.IsTerminal() {
		return fmt.Errorf("delivery %s: %w", existing.DeliveryNumber, shared.ErrTerminalDocument)
	}
	err = s.repo.WithTx(ctx, func(tx TxRepository) error {
		return tx.DeleteDelivery(ctx, id)
	})
	if err != nil {
		return err
	}
	s.recordAudit(ctx, actor, "delivery.deleted", id)
	return nil
}

// buildItems verifies product references and runs the advisory sufficiency
// check against the requested quantities.
func (s *Service) buildItems(ctx context.Context, reqs []ItemRequest) ([]Item, error) {
	ids := make([]int64, 0, len(reqs))
	for _, item := range reqs {
		ids = append(ids, item.ProductID)
	}
	stocks, err := s.repo.ProductStocks(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(reqs))
	for _, req := range reqs {
		current, ok := stocks[req.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %d does not exist: %w", req.ProductID, shared.ErrValidation)
		}
		if current.CurrentStock < req.RequestedQty {
			return nil, fmt.Errorf("product %s has %d on hand, requested %d: %w",
				current.SKU, current.CurrentStock, req.RequestedQty, shared.ErrInsufficientStock)
		}
		items = append(items, Item{
			ProductID:    req.ProductID,
			RequestedQty: req.RequestedQty,
			PickedQty:    req.PickedQty,
		})
	}
	return items, nil
}

func (s *Service) recordAudit(ctx context.Context, actor *shared.Actor, action string, id int64) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.UserID,
		Action:   action,
		Entity:   "delivery",
		EntityID: strconv.FormatInt(id, 10),
		At:       time.Now().UTC(),
	})
}
