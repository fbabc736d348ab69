package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_HandleMessage(t *testing.T) {
	users := newFakeUsers()
	users.addProfile(entity.Profile{UserID: "u1", Email: "asha@example.com", FullName: "Asha Patil"})
	mailer := &fakeMailer{}
	svc := NewNotificationService(users, mailer)

	payload, err := json.Marshal(entity.OrderStatusChanged{
		OrderID:     "o1",
		OrderNumber: "MA261018000001",
		UserID:      "u1",
		OldStatus:   entity.OrderStatusPending,
		NewStatus:   entity.OrderStatusShipped,
	})
	require.NoError(t, err)

	require.NoError(t, svc.HandleMessage(context.Background(), payload))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, notify.StatusEmail{
		OrderID:       "o1",
		NewStatus:     "shipped",
		CustomerEmail: "asha@example.com",
		CustomerName:  "Asha Patil",
		OrderNumber:   "MA261018000001",
	}, mailer.sent[0])

	assert.Error(t, svc.HandleMessage(context.Background(), []byte("{not json")))
}

func TestNotificationService_SkipsMissingEmail(t *testing.T) {
	users := newFakeUsers()
	users.addProfile(entity.Profile{UserID: "u1"})
	mailer := &fakeMailer{}
	svc := NewNotificationService(users, mailer)

	err := svc.HandleStatusChanged(context.Background(), entity.OrderStatusChanged{UserID: "u1", NewStatus: entity.OrderStatusDelivered})
	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestNotificationService_SendStatusEmailAdminOnly(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewNotificationService(newFakeUsers(), mailer)
	req := notify.StatusEmail{OrderID: "o1", NewStatus: "processing", CustomerEmail: "a@example.com", OrderNumber: "MA1"}

	assert.ErrorIs(t, svc.SendStatusEmail(context.Background(), userSession("u1"), req), entity.ErrForbidden)
	require.NoError(t, svc.SendStatusEmail(context.Background(), adminSession(), req))
	assert.Len(t, mailer.sent, 1)
}
