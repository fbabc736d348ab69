package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/repository"
)

// OrderFeed delivers change notifications for one order until ctx ends.
type OrderFeed interface {
	Subscribe(ctx context.Context, orderID string) (<-chan entity.OrderUpdated, error)
}

// OrderService serves customer order history and tracking.
type OrderService struct {
	orders repository.OrderRepository
	feed   OrderFeed
}

func NewOrderService(orders repository.OrderRepository, feed OrderFeed) *OrderService {
	return &OrderService{
		orders: orders,
		feed:   feed,
	}
}

// Track finds an order by its number. Missing, foreign and failed lookups
// all come back as ErrOrderNotFound.
func (s *OrderService) Track(ctx context.Context, sess *entity.Session, orderNumber string) (*entity.Order, error) {
	if err := requireUser(sess); err != nil {
		return nil, err
	}
	number := entity.NormalizeOrderNumber(orderNumber)
	if number == "" {
		return nil, entity.ErrOrderNotFound
	}

	order, err := s.orders.FindByNumber(ctx, number)
	if err != nil {
		if !errors.Is(err, entity.ErrOrderNotFound) {
			slog.Error("Order lookup failed", "order_number", number, "err", err)
		}
		return nil, entity.ErrOrderNotFound
	}
	if !sess.IsAdmin && order.UserID != sess.UserID {
		return nil, entity.ErrOrderNotFound
	}
	return order, nil
}

// ListMine returns the caller's orders, newest first.
func (s *OrderService) ListMine(ctx context.Context, sess *entity.Session) ([]entity.Order, error) {
	if err := requireUser(sess); err != nil {
		return nil, err
	}
	orders, err := s.orders.ListByUser(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Watch emits the current order and then a freshly read copy after every
// change notification, until ctx is cancelled or emit fails. Notifications
// are only triggers; the pushed payload is never merged into the order.
func (s *OrderService) Watch(ctx context.Context, sess *entity.Session, orderNumber string, emit func(*entity.Order) error) error {
	order, err := s.Track(ctx, sess, orderNumber)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates, err := s.feed.Subscribe(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("failed to subscribe to order: %w", err)
	}

	// Re-read after subscribing so nothing between the two is lost.
	if current, err := s.orders.FindByID(ctx, order.ID); err == nil {
		order = current
	}
	if err := emit(order); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			fresh, err := s.orders.FindByID(ctx, order.ID)
			if err != nil {
				slog.Warn("Failed to refetch order after update", "order_id", order.ID, "status", u.Status, "err", err)
				continue
			}
			if err := emit(fresh); err != nil {
				return err
			}
		}
	}
}
