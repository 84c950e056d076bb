package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
)

// Envelope is a published event as seen by in-process subscribers.
type Envelope struct {
	RoutingKey string
	Payload    json.RawMessage
}

// Handler consumes one envelope. Errors are logged by the bus, not
// returned to the publisher.
type Handler func(ctx context.Context, env Envelope) error

// InProcessBus delivers events synchronously to subscribers registered by
// routing-key pattern. It replaces RabbitMQ in local mode.
type InProcessBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *slog.Logger
}

// NewInProcessBus creates a new in-process bus.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for a routing-key pattern. Patterns use
// AMQP topic semantics: "*" matches one segment, "#" matches any tail.
func (b *InProcessBus) Subscribe(pattern string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[pattern] = append(b.handlers[pattern], handler)
}

// Publish dispatches the payload to every handler whose pattern matches.
// Handler errors are logged and never propagate to the publisher.
func (b *InProcessBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	b.mu.RLock()
	var matched []Handler
	for pattern, handlers := range b.handlers {
		if topicMatch(pattern, routingKey) {
			matched = append(matched, handlers...)
		}
	}
	b.mu.RUnlock()

	env := Envelope{RoutingKey: routingKey, Payload: payload}
	for _, handler := range matched {
		if err := handler(ctx, env); err != nil {
			b.logger.Error("event handler failed",
				"routing_key", routingKey,
				"error", err,
			)
		}
	}

	b.logger.Debug("event dispatched",
		"routing_key", routingKey,
		"handlers", len(matched),
	)

	return nil
}

// Close is a no-op for the in-process bus.
func (b *InProcessBus) Close() error {
	return nil
}

func topicMatch(pattern, key string) bool {
	pp := strings.Split(pattern, ".")
	kp := strings.Split(key, ".")

	for i, seg := range pp {
		if seg == "#" {
			return true
		}
		if i >= len(kp) {
			return false
		}
		if seg != "*" && seg != kp[i] {
			return false
		}
	}
	return len(pp) == len(kp)
}
