package messaging

import (
	"context"
	"log/slog"
)

// Topics carrying order lifecycle events.
const (
	TopicOrderPlaced        = "orders.placed"
	TopicOrderStatusChanged = "orders.status_changed"
)

// Publisher defines an interface for publishing events to a message broker.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, key string, event any) error
}

// Subscriber defines an interface for subscribing to a message topic.
type Subscriber interface {
	Consume(ctx context.Context, topic string, groupID string, handler func(ctx context.Context, payload []byte) error)
}

type logPublisher struct{}

// NewLogPublisher returns a Publisher that only logs. It stands in when no
// broker is configured.
func NewLogPublisher() Publisher {
	return logPublisher{}
}

func (logPublisher) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	slog.Debug("Broker disabled, event not published", "topic", topic, "key", key)
	return nil
}
