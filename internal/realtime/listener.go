package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/mahalaxmi-auto/storefront/internal/entity"
)

// Listener bridges Postgres NOTIFY on the order updates channel into a Hub.
type Listener struct {
	dsn     string
	channel string
	hub     *Hub
}

func NewListener(dsn, channel string, hub *Hub) *Listener {
	return &Listener{dsn: dsn, channel: channel, hub: hub}
}

// Run listens until ctx is cancelled. Reconnects are left to pq.Listener;
// notifications raised while disconnected are lost.
func (l *Listener) Run(ctx context.Context) error {
	listener := pq.NewListener(l.dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			slog.Warn("Order update listener event", "event", ev, "err", err)
		}
	})
	defer listener.Close()

	if err := listener.Listen(l.channel); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", l.channel, err)
	}
	slog.Info("Listening for order updates", "channel", l.channel)

	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Order update listener shutting down")
			return nil
		case n := <-listener.Notify:
			// nil after a reconnect
			if n == nil {
				continue
			}
			if err := l.Dispatch(n.Extra); err != nil {
				slog.Warn("Failed to dispatch order update", "err", err)
			}
		case <-ping.C:
			go func() {
				if err := listener.Ping(); err != nil {
					slog.Warn("Order update listener ping failed", "err", err)
				}
			}()
		}
	}
}

// Dispatch decodes a notification payload and publishes it to the hub.
func (l *Listener) Dispatch(payload string) error {
	var u entity.OrderUpdated
	if err := json.Unmarshal([]byte(payload), &u); err != nil {
		return fmt.Errorf("failed to decode notification: %w", err)
	}
	if u.OrderID == "" {
		return errors.New("notification without order id")
	}
	return l.hub.Publish(u)
}
