package entity

import (
	"fmt"
	"time"
)

// AuditAction classifies an admin mutation.
type AuditAction string

const (
	AuditCreate       AuditAction = "CREATE"
	AuditUpdate       AuditAction = "UPDATE"
	AuditDelete       AuditAction = "DELETE"
	AuditStatusChange AuditAction = "STATUS_CHANGE"
)

// AuditLogEntry is an append-only record of an admin mutation.
type AuditLogEntry struct {
	ID          string         `json:"id" bson:"_id"`
	AdminUserID string         `json:"admin_user_id" bson:"admin_user_id"`
	ActionType  AuditAction    `json:"action_type" bson:"action_type"`
	TableName   string         `json:"table_name" bson:"table_name"`
	RecordID    string         `json:"record_id" bson:"record_id"`
	OldValues   map[string]any `json:"old_values,omitempty" bson:"old_values,omitempty"`
	NewValues   map[string]any `json:"new_values,omitempty" bson:"new_values,omitempty"`
	Description string         `json:"description" bson:"description"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
}

// StatusChangeEntry records an order status transition.
func StatusChangeEntry(adminID string, order Order, from, to OrderStatus) AuditLogEntry {
	return AuditLogEntry{
		AdminUserID: adminID,
		ActionType:  AuditStatusChange,
		TableName:   "orders",
		RecordID:    order.ID,
		OldValues:   map[string]any{"status": string(from)},
		NewValues:   map[string]any{"status": string(to)},
		Description: fmt.Sprintf("Changed order %s status from %s to %s", order.OrderNumber, from, to),
	}
}

// AuditFilter narrows the audit log listing.
type AuditFilter struct {
	Query string
	Limit int
}
