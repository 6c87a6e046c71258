package audit

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/playground/internal/config"
	"github.com/Additional-Code/playground/internal/messaging"
	"github.com/Additional-Code/playground/internal/worker"
)

var workerTracer = otel.Tracer("github.com/Additional-Code/playground/worker/audit")

// Module registers the audit trail worker handler.
var Module = fx.Module("worker_audit",
	fx.Provide(
		fx.Annotate(
			NewAuditHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// envelope covers every event published on the sandbox topic; only the
// fields relevant for the audit line are decoded.
type envelope struct {
	Type        string  `json:"type"`
	OrderID     int64   `json:"order_id"`
	OrderNumber string  `json:"order_number"`
	UserID      int64   `json:"user_id"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
	Users       int     `json:"users"`
	Orders      int     `json:"orders"`
}

// NewAuditHandler sets up a worker handler that writes an audit log line
// for every sandbox event.
func NewAuditHandler(logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.audit.process", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var event envelope
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("failed to decode sandbox event", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return err
		}

		switch event.Type {
		case "order.created", "order.cancelled":
			logger.Info("audit: order event",
				zap.String("type", event.Type),
				zap.Int64("order_id", event.OrderID),
				zap.String("order_number", event.OrderNumber),
				zap.Int64("user_id", event.UserID),
				zap.String("status", event.Status),
				zap.Float64("total", event.TotalAmount),
			)
		case "sandbox.reset":
			logger.Info("audit: sandbox reset",
				zap.Int("users", event.Users),
				zap.Int("orders", event.Orders),
			)
		default:
			logger.Warn("audit: unknown event type", zap.String("type", event.Type))
		}

		return nil
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: handler,
	}
}
