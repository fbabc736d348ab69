package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/mahalaxmi-auto/storefront/internal/entity"
)

const (
	topicOrderUpdates = "order_updates"
	metadataOrderID   = "order_id"
)

// Hub fans order change notifications out to in-process subscribers. It is
// push only: a subscriber that was not listening misses the update.
type Hub struct {
	pubsub *gochannel.GoChannel
}

func NewHub() *Hub {
	return &Hub{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NewSlogLogger(slog.Default()),
		),
	}
}

// Publish broadcasts an order update to every subscriber of that order.
func (h *Hub) Publish(u entity.OrderUpdated) error {
	payload, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to marshal order update: %w", err)
	}
	msg := message.NewMessage(uuid.NewString(), payload)
	msg.Metadata.Set(metadataOrderID, u.OrderID)
	if err := h.pubsub.Publish(topicOrderUpdates, msg); err != nil {
		return fmt.Errorf("failed to publish order update: %w", err)
	}
	return nil
}

// Subscribe delivers updates for a single order until ctx is cancelled, at
// which point the returned channel is closed.
func (h *Hub) Subscribe(ctx context.Context, orderID string) (<-chan entity.OrderUpdated, error) {
	messages, err := h.pubsub.Subscribe(ctx, topicOrderUpdates)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to order updates: %w", err)
	}

	out := make(chan entity.OrderUpdated, 8)
	go func() {
		defer close(out)
		for msg := range messages {
			if msg.Metadata.Get(metadataOrderID) != orderID {
				msg.Ack()
				continue
			}
			var u entity.OrderUpdated
			err := json.Unmarshal(msg.Payload, &u)
			msg.Ack()
			if err != nil {
				slog.Warn("Dropping malformed order update", "message_uuid", msg.UUID, "err", err)
				continue
			}
			select {
			case out <- u:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (h *Hub) Close() error {
	return h.pubsub.Close()
}
