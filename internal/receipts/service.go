package receipts

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

// Service coordinates the receipt workflow.
type Service struct {
	repo     Repository
	numbers  *sequence.Generator
	notifier notify.Notifier
	audit    AuditPort
}

func NewService(repo Repository, numbers *sequence.Generator, notifier notify.Notifier, audit AuditPort) *Service {
	return &Service{repo: repo, numbers: numbers, notifier: notifier, audit: audit}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Receipt, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Receipt, error) {
	if id <= 0 {
		return Receipt{}, fmt.Errorf("invalid receipt id: %w", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Create registers a new receipt in Draft (or Waiting) status. No stock moves
// until the receipt is validated.
func (s *Service) Create(ctx context.Context, actor *shared.Actor, input CreateReceiptRequest) (Receipt, error) {
	if err := validate.Struct(input); err != nil {
		return Receipt{}, fmt.Errorf("%s: %w", err.Error(), shared.ErrValidation)
	}
	items, err := s.buildItems(ctx, input.Items)
	if err != nil {
		return Receipt{}, err
	}

	status := StatusDraft
	if input.Status != "" {
		status = Status(input.Status)
	}
	number, err := s.numbers.Next(ctx, sequence.PrefixReceipt, time.Now().UTC().Year())
	if err != nil {
		return Receipt{}, err
	}

	receipt := Receipt{
		ReceiptNumber: number,
		Supplier:      input.Supplier,
		ExpectedDate:  input.ExpectedDate,
		Status:        status,
		CreatedBy:     actor.UserID,
		LastUpdatedBy: actor.UserID,
		Items:         items,
	}
	var created Receipt
	err = s.repo.WithTx(ctx, func(tx TxRepository) error {
		created, err = tx.InsertReceipt(ctx, receipt)
		return err
	})
	if err != nil {
		return Receipt{}, err
	}
	s.recordAudit(ctx, actor, "receipt.created", created.ID)
	return created, nil
}

// Update overwrites provided header fields and, when present, replaces the
// item lines wholesale. Terminal receipts are immutable.
func (s *Service) Update(ctx context.Context, actor *shared.Actor, id int64, input UpdateReceiptRequest) (Receipt, error) {
	if err := validate.Struct(input); err != nil {
		return Receipt{}, fmt.Errorf("%s: %w", err.Error(), shared.ErrValidation)
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Receipt{}, err
	}
	if existing.Status.IsTerminal() {
		return Receipt{}, fmt.Errorf("receipt %s: %w", existing.ReceiptNumber, shared.ErrTerminalDocument)
	}

	if input.Supplier != nil {
		existing.Supplier = *input.Supplier
	}
	if input.ExpectedDate != nil {
		existing.ExpectedDate = *input.ExpectedDate
	}
	if input.Status != nil {
		existing.Status = Status(*input.Status)
	}
	if input.Items != nil {
		items, err := s.buildItems(ctx, *input.Items)
		if err != nil {
			return Receipt{}, err
		}
		existing.Items = items
	}
	existing.LastUpdatedBy = actor.UserID

	err = s.repo.WithTx(ctx, func(tx TxRepository) error {
		return tx.ReplaceReceipt(ctx, id, existing)
	})
	if err != nil {
		return Receipt{}, err
	}
	return s.repo.Get(ctx, id)
}

// Validate commits the receipt's stock effect: every Pass item increments its
// product's stock, the receipt flips to Done, and the received date is
// stamped. Everything happens in one transaction; validating an already
// terminal receipt is rejected, which makes a double validation harmless.
func (s *Service) Validate(ctx context.Context, actor *shared.Actor, id int64) (Receipt, error) {
	if id <= 0 {
		return Receipt{}, fmt.Errorf("invalid receipt id: %w", shared.ErrValidation)
	}
	var (
		number  string
		applied []stock.Applied
		count   int
	)
	err := s.repo.WithTx(ctx, func(tx TxRepository) error {
		receipt, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if receipt.Status.IsTerminal() {
			return fmt.Errorf("receipt %s: %w", receipt.ReceiptNumber, shared.ErrTerminalDocument)
		}
		number = receipt.ReceiptNumber
		count = len(receipt.Items)

		deltas := make([]stock.Delta, 0, len(receipt.Items))
		for _, item := range receipt.Items {
			if item.QualityStatus != QualityPass || item.ReceivedQty == 0 {
				continue
			}
			deltas = append(deltas, stock.Delta{ProductID: item.ProductID, Change: item.ReceivedQty})
		}
		applied, err = stock.Apply(ctx, tx, actor.UserID, deltas)
		if err != nil {
			return err
		}
		return tx.MarkValidated(ctx, id, time.Now().UTC(), actor.UserID)
	})
	if err != nil {
		return Receipt{}, err
	}

	s.notifier.Publish(ctx, notify.KindDocumentValidated, notify.DocumentValidatedPayload{
		DocumentType:   "receipt",
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
	s.recordAudit(ctx, actor, "receipt.validated", id)
	return s.repo.Get(ctx, id)
}

// Delete removes a non-terminal receipt and its items.
func (s *Service) Delete(ctx context.Context, actor *shared.Actor, id int64) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.Status.IsTerminal() {
		return fmt.Errorf("receipt %s: %w", existing.ReceiptNumber, shared.ErrTerminalDocument)
	}
	err = s.repo.WithTx(ctx, func(tx TxRepository) error {
		return tx.DeleteReceipt(ctx, id)
	})
	if err != nil {
		return err
	}
	s.recordAudit(ctx, actor, "receipt.deleted", id)
	return nil
}

func (s *Service) buildItems(ctx context.Context, reqs []ItemRequest) ([]Item, error) {
	ids := make([]int64, 0, len(reqs))
	for _, item := range reqs {
		ids = append(ids, item.ProductID)
	}
	missing, err := s.repo.MissingProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("products %v do not exist: %w", missing, shared.ErrValidation)
	}

	items := make([]Item, 0, len(reqs))
	for _, req := range reqs {
		quality := QualityPending
		if req.QualityStatus != "" {
			quality = QualityStatus(req.QualityStatus)
		}
		items = append(items, Item{
			ProductID:     req.ProductID,
			ExpectedQty:   req.ExpectedQty,
			ReceivedQty:   req.ReceivedQty,
			QualityStatus: quality,
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
		Entity:   "receipt",
		EntityID: strconv.FormatInt(id, 10),
		At:       time.Now().UTC(),
	})
}
