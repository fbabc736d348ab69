package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/messaging"
	"github.com/mahalaxmi-auto/storefront/internal/repository"
)

// CheckoutService drives the checkout wizard and turns a cart into an order.
type CheckoutService struct {
	store     repository.CheckoutStore
	carts     repository.CartRepository
	orders    repository.OrderRepository
	delivery  *DeliveryService
	publisher messaging.Publisher
	ttl       time.Duration
}

func NewCheckoutService(
	store repository.CheckoutStore,
	carts repository.CartRepository,
	orders repository.OrderRepository,
	delivery *DeliveryService,
	publisher messaging.Publisher,
	ttl time.Duration,
) *CheckoutService {
	return &CheckoutService{
		store:     store,
		carts:     carts,
		orders:    orders,
		delivery:  delivery,
		publisher: publisher,
		ttl:       ttl,
	}
}

// CheckoutView is the wizard state together with the priced cart.
type CheckoutView struct {
	*entity.Checkout
	CanContinue    bool                   `json:"can_continue"`
	Items          []entity.CartItem      `json:"items"`
	Summary        entity.CartSummary     `json:"summary"`
	PaymentOptions []entity.PaymentOption `json:"payment_options"`
}

func (s *CheckoutService) load(ctx context.Context, userID string) (*entity.Checkout, error) {
	c, err := s.store.Load(ctx, userID)
	if errors.Is(err, entity.ErrNotFound) {
		return entity.NewCheckout(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkout: %w", err)
	}
	return c, nil
}

func (s *CheckoutService) save(ctx context.Context, c *entity.Checkout) error {
	if err := s.store.Save(ctx, c, s.ttl); err != nil {
		return fmt.Errorf("failed to save checkout: %w", err)
	}
	return nil
}

func (s *CheckoutService) view(ctx context.Context, c *entity.Checkout) (*CheckoutView, error) {
	items, err := s.carts.ListByUser(ctx, c.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	cart := &entity.Cart{UserID: c.UserID, Items: items}
	return &CheckoutView{
		Checkout:       c,
		CanContinue:    c.CanContinue(),
		Items:          items,
		Summary:        cart.Summary(c.Coupon(), &c.Eligibility),
		PaymentOptions: entity.PaymentOptions(),
	}, nil
}

// mutate loads the wizard, applies fn and saves only when fn succeeds.
func (s *CheckoutService) mutate(ctx context.Context, sess *entity.Session, fn func(c *entity.Checkout) error) (*CheckoutView, error) {
	if err := requireUser(sess); err != nil {
		return nil, err
	}
	c, err := s.load(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if c.Step == entity.StepPlaced {
		c = entity.NewCheckout(sess.UserID)
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

func (s *CheckoutService) Get(ctx context.Context, sess *entity.Session) (*CheckoutView, error) {
	if err := requireUser(sess); err != nil {
		return nil, err
	}
	c, err := s.load(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

// UpdateAddress stores the address form. A newly entered 6-digit pincode is
// checked for delivery right away.
func (s *CheckoutService) UpdateAddress(ctx context.Context, sess *entity.Session, addr entity.ShippingAddress, notes string) (*CheckoutView, error) {
	return s.mutate(ctx, sess, func(c *entity.Checkout) error {
		needsCheck, err := c.SetAddress(addr)
		if err != nil {
			return err
		}
		c.Notes = notes
		if needsCheck {
			c.SetEligibility(s.delivery.CheckPincode(ctx, c.Address.Pincode))
		}
		return nil
	})
}

func (s *CheckoutService) Continue(ctx context.Context, sess *entity.Session) (*CheckoutView, error) {
	return s.mutate(ctx, sess, func(c *entity.Checkout) error {
		return c.Continue()
	})
}

func (s *CheckoutService) Back(ctx context.Context, sess *entity.Session) (*CheckoutView, error) {
	return s.mutate(ctx, sess, func(c *entity.Checkout) error {
		return c.Back()
	})
}

func (s *CheckoutService) SelectPayment(ctx context.Context, sess *entity.Session, method entity.PaymentMethod) (*CheckoutView, error) {
	return s.mutate(ctx, sess, func(c *entity.Checkout) error {
		return c.SelectPayment(method)
	})
}

func (s *CheckoutService) ApplyCoupon(ctx context.Context, sess *entity.Session, code string) (*CheckoutView, error) {
	return s.mutate(ctx, sess, func(c *entity.Checkout) error {
		_, err := c.ApplyCoupon(code)
		return err
	})
}

func (s *CheckoutService) RemoveCoupon(ctx context.Context, sess *entity.Session) (*CheckoutView, error) {
	return s.mutate(ctx, sess, func(c *entity.Checkout) error {
		c.RemoveCoupon()
		return nil
	})
}

// Place creates the order from the review step. The order and its items are
// written in one transaction; clearing the cart, closing the wizard and
// publishing the event happen afterwards and never fail the placement.
// A closed wizard keeps the order number for the confirmation page and
// rejects a second Place.
func (s *CheckoutService) Place(ctx context.Context, sess *entity.Session) (*entity.Order, error) {
	if err := requireUser(sess); err != nil {
		return nil, err
	}
	c, err := s.load(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if err := c.CanPlace(); err != nil {
		return nil, err
	}

	items, err := s.carts.ListByUser(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	cart := &entity.Cart{UserID: sess.UserID, Items: items}
	if cart.IsEmpty() {
		return nil, entity.ErrEmptyCart
	}

	// The area may have been deactivated or repriced since the address step.
	fresh := s.delivery.CheckPincode(ctx, c.Address.Pincode)
	if !fresh.Available() {
		return nil, entity.ErrNotServiceable
	}
	c.SetEligibility(fresh)

	order, err := entity.NewOrderFromCart(c.PlaceCommand(), cart)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	slog.Info("Order placed", "order_number", order.OrderNumber, "user_id", order.UserID, "total", order.Total)

	if err := s.carts.Clear(ctx, sess.UserID); err != nil {
		slog.Warn("Failed to clear cart after order", "order_number", order.OrderNumber, "err", err)
	}
	c.MarkPlaced(order.OrderNumber)
	if err := s.save(ctx, c); err != nil {
		slog.Warn("Failed to close checkout after order", "order_number", order.OrderNumber, "err", err)
	}

	event := entity.OrderPlaced{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Total:       order.Total,
		ItemCount:   len(order.Items),
		PlacedAt:    order.CreatedAt,
	}
	if err := s.publisher.PublishEvent(ctx, messaging.TopicOrderPlaced, order.ID, event); err != nil {
		slog.Error("Failed to publish OrderPlaced", "order_number", order.OrderNumber, "err", err)
	}

	return order, nil
}
