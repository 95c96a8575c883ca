package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Worker consumes notification tasks and records them in the notifications
// table for the dashboard to surface.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewWorker constructs a Worker instance.
func NewWorker(redisOpts asynq.RedisClientOpt, pool *pgxpool.Pool, logger *slog.Logger) *Worker {
	srv := asynq.NewServer(redisOpts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			QueueDefault: 1,
		},
	})
	w := &Worker{server: srv, mux: asynq.NewServeMux(), pool: pool, logger: logger}
	w.mux.HandleFunc(KindLowStock, w.handleLowStock)
	w.mux.HandleFunc(KindDocumentValidated, w.handleDocumentValidated)
	return w
}

// Run starts processing tasks until context cancellation.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil {
		return errors.New("notify: worker not configured")
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Run(w.mux)
	}()
	select {
	case <-ctx.Done():
		w.server.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (w *Worker) handleLowStock(ctx context.Context, t *asynq.Task) error {
	var payload LowStockPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	w.logger.Info("low stock",
		slog.String("sku", payload.SKU),
		slog.Int("current_stock", payload.CurrentStock),
		slog.Int("suggested_order_qty", payload.SuggestedOrderQty))
	return w.record(ctx, KindLowStock, t.Payload())
}

func (w *Worker) handleDocumentValidated(ctx context.Context, t *asynq.Task) error {
	var payload DocumentValidatedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	w.logger.Info("document validated",
		slog.String("type", payload.DocumentType),
		slog.String("number", payload.DocumentNumber))
	return w.record(ctx, KindDocumentValidated, t.Payload())
}

func (w *Worker) record(ctx context.Context, kind string, payload []byte) error {
	_, err := w.pool.Exec(ctx,
		`INSERT INTO notifications (kind, payload, created_at) VALUES ($1, $2, $3)`,
		kind, payload, time.Now().UTC())
	return err
}
