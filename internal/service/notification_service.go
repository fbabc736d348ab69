package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/notify"
	"github.com/mahalaxmi-auto/storefront/internal/repository"
)

// NotificationService emails customers about their orders.
type NotificationService struct {
	users  repository.UserRepository
	mailer notify.Mailer
}

func NewNotificationService(users repository.UserRepository, mailer notify.Mailer) *NotificationService {
	return &NotificationService{users: users, mailer: mailer}
}

// HandleStatusChanged looks up the owner's profile and sends the status
// email.
func (s *NotificationService) HandleStatusChanged(ctx context.Context, event entity.OrderStatusChanged) error {
	profile, err := s.users.FindProfile(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("failed to load customer profile: %w", err)
	}
	if profile.Email == "" {
		slog.Warn("Customer has no email, skipping notification", "order_number", event.OrderNumber)
		return nil
	}

	return s.mailer.SendOrderStatusEmail(ctx, notify.StatusEmail{
		OrderID:       event.OrderID,
		NewStatus:     string(event.NewStatus),
		CustomerEmail: profile.Email,
		CustomerName:  profile.FullName,
		OrderNumber:   event.OrderNumber,
	})
}

// HandleMessage is the broker consumer for status change events.
func (s *NotificationService) HandleMessage(ctx context.Context, payload []byte) error {
	var event entity.OrderStatusChanged
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to unmarshal OrderStatusChanged event: %w", err)
	}
	slog.Info("Notifying customer of status change", "order_number", event.OrderNumber, "status", event.NewStatus)
	return s.HandleStatusChanged(ctx, event)
}

// SendStatusEmail sends an explicit status email on an admin's request.
func (s *NotificationService) SendStatusEmail(ctx context.Context, sess *entity.Session, req notify.StatusEmail) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	return s.mailer.SendOrderStatusEmail(ctx, req)
}
