package parcel

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/paketku/internal/config"
	"github.com/Additional-Code/paketku/internal/messaging"
	parcelsvc "github.com/Additional-Code/paketku/internal/service/parcel"
	"github.com/Additional-Code/paketku/internal/worker"
)

var workerTracer = otel.Tracer("github.com/Additional-Code/paketku/worker/parcel")

// Module registers package-event worker handlers.
var Module = fx.Module("worker_parcel",
	fx.Provide(
		fx.Annotate(
			NewPackageEventHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewPackageEventHandler sets up a worker handler that turns package
// lifecycle events into household notifications. COD arrivals get a louder
// log line so someone prepares cash before the courier shows up.
func NewPackageEventHandler(logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.packages.process", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var event parcelsvc.PackageEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("failed to decode package event", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return err
		}

		fields := []zap.Field{
			zap.Int64("id", event.ID),
			zap.String("type", event.Type),
			zap.String("tracking_number", event.TrackingNumber),
			zap.String("courier", event.Courier),
			zap.String("delivery_status", string(event.DeliveryStatus)),
		}

		if event.Type == parcelsvc.EventCreated && event.IsCod && event.CodAmount != nil {
			logger.Warn("cod package incoming; prepare cash",
				append(fields, zap.Float64("cod_amount", *event.CodAmount))...)
			return nil
		}

		logger.Info("package event processed", fields...)
		return nil
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: handler,
	}
}
