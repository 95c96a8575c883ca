package adjustments

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

// Service coordinates stock adjustments.
type Service struct {
	repo     Repository
	numbers  *sequence.Generator
	notifier notify.Notifier
	audit    AuditPort
}

func NewService(repo Repository, numbers *sequence.Generator, notifier notify.Notifier, audit AuditPort) *Service {
	return &Service{repo: repo, numbers: numbers, notifier: notifier, audit: audit}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Adjustment, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Adjustment, error) {
	if id <= 0 {
		return Adjustment{}, fmt.Errorf("invalid adjustment id: %w", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Create records the physical count and overwrites the product's stock with
// it in one transaction. The system stock is snapshotted under the product's
// row lock, so the stored difference is exact even under concurrent writers.
func (s *Service) Create(ctx context.Context, actor *shared.Actor, input CreateAdjustmentRequest) (Adjustment, error) {
	if err := validate.Struct(input); err != nil {
		return Adjustment{}, fmt.Errorf("%s: %w", err.Error(), shared.ErrValidation)
	}
	if input.WarehouseID != nil {
		exists, err := s.repo.WarehouseExists(ctx, *input.WarehouseID)
		if err != nil {
			return Adjustment{}, err
		}
		if !exists {
			return Adjustment{}, fmt.Errorf("warehouse %d does not exist: %w", *input.WarehouseID, shared.ErrValidation)
		}
	}

	number, err := s.numbers.Next(ctx, sequence.PrefixAdjustment, time.Now().UTC().Year())
	if err != nil {
		return Adjustment{}, err
	}

	var (
		created Adjustment
		applied stock.Applied
	)
	err = s.repo.WithTx(ctx, func(tx TxRepository) error {
		applied, err = stock.Set(ctx, tx, actor.UserID, input.ProductID, input.PhysicalCount)
		if err != nil {
			return err
		}
		created, err = tx.InsertAdjustment(ctx, Adjustment{
			AdjustmentNumber: number,
			ProductID:        input.ProductID,
			WarehouseID:      input.WarehouseID,
			SystemStock:      applied.PreviousStock,
			PhysicalCount:    input.PhysicalCount,
			Difference:       input.PhysicalCount - applied.PreviousStock,
			Reason:           Reason(input.Reason),
			Notes:            input.Notes,
			CreatedBy:        actor.UserID,
			LastUpdatedBy:    actor.UserID,
		})
		return err
	})
	if err != nil {
		return Adjustment{}, err
	}

	if applied.LowStock() {
		s.notifier.Publish(ctx, notify.KindLowStock, notify.LowStockPayload{
			ProductID:          applied.ProductID,
			SKU:                applied.SKU,
			Name:               applied.Name,
			CurrentStock:       applied.NewStock,
			ReorderLevel:       applied.ReorderLevel,
			SuggestedOrderQty:  applied.SuggestedOrderQty(),
			AutoReorderEnabled: applied.AutoReorderEnabled,
		})
	}
	s.recordAudit(ctx, actor, "adjustment.created", created.ID)
	return created, nil
}

// Delete removes the adjustment record unconditionally. The stock overwrite
// it performed stands; deletion does not reverse it.
func (s *Service) Delete(ctx context.Context, actor *shared.Actor, id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid adjustment id: %w", shared.ErrValidation)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, actor, "adjustment.deleted", id)
	return nil
}

func (s *Service) recordAudit(ctx context.Context, actor *shared.Actor, action string, id int64) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.UserID,
		Action:   action,
		Entity:   "adjustment",
		EntityID: strconv.FormatInt(id, 10),
		At:       time.Now().UTC(),
	})
}
