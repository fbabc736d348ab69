package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/resend/resend-go/v2"
)

// Mailer sends transactional order emails.
type Mailer interface {
	SendOrderStatusEmail(ctx context.Context, e StatusEmail) error
}

// ResendMailer sends rendered emails through the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
	store  Store
}

// NewResendMailer builds a mailer against baseURL, or the Resend default when
// baseURL is empty.
func NewResendMailer(apiKey, baseURL, from string, store Store) (*ResendMailer, error) {
	client := resend.NewCustomClient(&http.Client{Timeout: 10 * time.Second}, apiKey)
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse email API url: %w", err)
		}
		client.BaseURL = u
	}
	return &ResendMailer{client: client, from: from, store: store}, nil
}

// SendOrderStatusEmail makes a single attempt; the caller decides whether a
// failure matters.
func (m *ResendMailer) SendOrderStatusEmail(ctx context.Context, e StatusEmail) error {
	html, err := RenderHTML(m.store, e)
	if err != nil {
		return err
	}

	slog.Info("Sending order status email", "order_number", e.OrderNumber, "status", e.NewStatus)
	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{e.CustomerEmail},
		Subject: e.Subject(),
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to send status email: %w", err)
	}

	slog.Info("Email sent", "order_number", e.OrderNumber, "email_id", sent.Id)
	return nil
}

// LogMailer logs instead of sending. Used when no API key is configured.
type LogMailer struct{}

func (LogMailer) SendOrderStatusEmail(ctx context.Context, e StatusEmail) error {
	slog.Info("Email delivery disabled, skipping", "order_number", e.OrderNumber, "subject", e.Subject())
	return nil
}
