package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/mahalaxmi-auto/storefront/internal/entity"
)

// StatusEmail is the request to notify a customer about a status change.
type StatusEmail struct {
	OrderID       string `json:"orderId" binding:"required"`
	NewStatus     string `json:"newStatus" binding:"required"`
	CustomerEmail string `json:"customerEmail" binding:"required,email"`
	CustomerName  string `json:"customerName"`
	OrderNumber   string `json:"orderNumber" binding:"required"`
}

// StatusMessage is the canned copy for a status.
type StatusMessage struct {
	Subject string
	Message string
}

var statusMessages = map[entity.OrderStatus]StatusMessage{
	entity.OrderStatusProcessing: {
		Subject: "Your order is being processed",
		Message: "We have received your order and are now processing it. We'll notify you once it's shipped.",
	},
	entity.OrderStatusShipped: {
		Subject: "Your order has been shipped!",
		Message: "Great news! Your order is on its way. You can expect delivery within 2-5 business days.",
	},
	entity.OrderStatusDelivered: {
		Subject: "Your order has been delivered",
		Message: "Your order has been successfully delivered. Thank you for shopping with us!",
	},
	entity.OrderStatusCancelled: {
		Subject: "Your order has been cancelled",
		Message: "Your order has been cancelled. If you have any questions, please contact our support team.",
	},
}

// MessageFor returns the copy for status, falling back to a generic update.
func MessageFor(status string) StatusMessage {
	if m, ok := statusMessages[entity.OrderStatus(status)]; ok {
		return m
	}
	return StatusMessage{
		Subject: fmt.Sprintf("Order status update: %s", status),
		Message: fmt.Sprintf("Your order status has been updated to: %s", status),
	}
}

// Subject is the full subject line including the order number.
func (e StatusEmail) Subject() string {
	return fmt.Sprintf("%s - Order #%s", MessageFor(e.NewStatus).Subject, e.OrderNumber)
}

// Store identifies the sender in the email body.
type Store struct {
	Name    string
	Address string
	Phone   string
}

var statusTemplate = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 0; padding: 0; background-color: #f5f5f5;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background-color: #ffffff; border-radius: 8px; padding: 32px;">
      <div style="text-align: center; margin-bottom: 24px;">
        <h1 style="color: #f59e0b; margin: 0; font-size: 24px;">{{.Store.Name}}</h1>
      </div>
      <h2 style="color: #1f2937; margin-bottom: 16px;">Hello {{.Name}},</h2>
      <p style="color: #4b5563; line-height: 1.6; margin-bottom: 16px;">{{.Message}}</p>
      <div style="background-color: #f9fafb; border-radius: 6px; padding: 16px; margin: 24px 0;">
        <p style="margin: 0; color: #6b7280; font-size: 14px;">Order Number</p>
        <p style="margin: 4px 0 0; color: #1f2937; font-size: 18px; font-weight: 600;">{{.OrderNumber}}</p>
        <p style="margin: 12px 0 0; color: #6b7280; font-size: 14px;">Status</p>
        <p style="margin: 4px 0 0; color: #f59e0b; font-size: 16px; font-weight: 600; text-transform: capitalize;">{{.Status}}</p>
      </div>
      <p style="color: #4b5563; line-height: 1.6;">If you have any questions about your order, please don't hesitate to contact us.</p>
      <div style="margin-top: 32px; padding-top: 24px; border-top: 1px solid #e5e7eb;">
        <p style="color: #9ca3af; font-size: 12px; margin: 0; text-align: center;">
          {{.Store.Name}}<br>
          {{.Store.Address}}<br>
          {{.Store.Phone}}
        </p>
      </div>
    </div>
  </div>
</body>
</html>
`))

// RenderHTML renders the status email body.
func RenderHTML(store Store, e StatusEmail) (string, error) {
	name := e.CustomerName
	if name == "" {
		name = "Valued Customer"
	}
	var buf bytes.Buffer
	err := statusTemplate.Execute(&buf, struct {
		Store       Store
		Name        string
		Message     string
		OrderNumber string
		Status      string
	}{store, name, MessageFor(e.NewStatus).Message, e.OrderNumber, e.NewStatus})
	if err != nil {
		return "", fmt.Errorf("failed to render status email: %w", err)
	}
	return buf.String(), nil
}
