package services

import (
	"context"
	"time"

	"storefront/internal/domain"
	rabbit "storefront/internal/infra/rabbitmq"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "storefront/services"

func tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

const publishTimeout = 5 * time.Second

// publishOrderEvent runs after the database commit and never fails the caller.
// The span context is carried over so the event joins the request's trace.
func publishOrderEvent(ctx context.Context, pub rabbit.PublisherInterface, log *zap.Logger, pattern string, evt domain.OrderEvent) {
	ctx, cancel := context.WithTimeout(trace.ContextWithSpanContext(context.Background(), trace.SpanContextFromContext(ctx)), publishTimeout)
	defer cancel()

	if err := pub.Publish(ctx, pattern, evt); err != nil {
		log.Warn("failed to publish order event",
			zap.String("pattern", pattern),
			zap.Uint64("order_id", evt.OrderID),
			zap.Error(err),
		)
	}
}
