package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/temposched/tempo/internal/shared/domain"
)

// Publisher sends serialized domain events to an exchange.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// PublishEvents marshals each domain event and publishes it under its
// routing key. Publishing happens after the owning transaction commits,
// so a failed publish is logged and skipped rather than failing the
// request.
func PublishEvents(ctx context.Context, publisher Publisher, logger *slog.Logger, events ...domain.DomainEvent) {
	if logger == nil {
		logger = slog.Default()
	}

	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			logger.Error("failed to marshal event",
				"routing_key", event.RoutingKey(),
				"event_id", event.EventID(),
				"error", err,
			)
			continue
		}

		if err := publisher.Publish(ctx, event.RoutingKey(), payload); err != nil {
			logger.Warn("failed to publish event",
				"routing_key", event.RoutingKey(),
				"event_id", event.EventID(),
				"error", err,
			)
		}
	}
}
