package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event represents a domain event published to the broker.
type Event interface {
	EventType() string
}

// OrderPlaced is published after an order and its items are committed.
type OrderPlaced struct {
	OrderID     string          `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	UserID      string          `json:"user_id"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   int             `json:"item_count"`
	PlacedAt    time.Time       `json:"placed_at"`
}

func (e OrderPlaced) EventType() string { return "OrderPlaced" }

// OrderStatusChanged is published after an admin changes an order's status.
type OrderStatusChanged struct {
	OrderID     string      `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	UserID      string      `json:"user_id"`
	OldStatus   OrderStatus `json:"old_status"`
	NewStatus   OrderStatus `json:"new_status"`
	ChangedBy   string      `json:"changed_by"`
	ChangedAt   time.Time   `json:"changed_at"`
}

func (e OrderStatusChanged) EventType() string { return "OrderStatusChanged" }

// OrderUpdated is the row-change notification raised by the database on any
// update to an order.
type OrderUpdated struct {
	OrderID string      `json:"id"`
	Status  OrderStatus `json:"status"`
}

func (e OrderUpdated) EventType() string { return "OrderUpdated" }
