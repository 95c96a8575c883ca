package notify

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Notifier publishes notifications. Failures are logged, never propagated:
// a lost notification must not fail the stock mutation that triggered it.
type Notifier interface {
	Publish(ctx context.Context, kind string, payload any)
}

// AsynqNotifier enqueues notification tasks on Redis.
type AsynqNotifier struct {
	client *asynq.Client
	logger *slog.Logger
}

// NewAsynqNotifier constructs an AsynqNotifier.
func NewAsynqNotifier(redisOpts asynq.RedisClientOpt, logger *slog.Logger) *AsynqNotifier {
	return &AsynqNotifier{client: asynq.NewClient(redisOpts), logger: logger}
}

// Publish enqueues the task, logging and swallowing any failure.
func (n *AsynqNotifier) Publish(ctx context.Context, kind string, payload any) {
	task, err := NewTask(kind, payload)
	if err != nil {
		n.logger.Error("build notification task", slog.String("kind", kind), slog.Any("error", err))
		return
	}
	if _, err := n.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault)); err != nil {
		n.logger.Error("enqueue notification", slog.String("kind", kind), slog.Any("error", err))
	}
}

// Close releases client resources.
func (n *AsynqNotifier) Close() error {
	return n.client.Close()
}

// NopNotifier discards notifications, used in tests.
type NopNotifier struct{}

func (NopNotifier) Publish(context.Context, string, any) {}
