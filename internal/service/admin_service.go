package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/messaging"
	"github.com/mahalaxmi-auto/storefront/internal/repository"
)

// StatusChangeHandler reacts to a committed status change in-process.
type StatusChangeHandler interface {
	HandleStatusChanged(ctx context.Context, event entity.OrderStatusChanged) error
}

// AdminService backs the admin back-office. Every mutation is followed by a
// best-effort audit entry.
type AdminService struct {
	orders    repository.OrderRepository
	products  repository.ProductRepository
	areas     repository.DeliveryAreaRepository
	users     repository.UserRepository
	audit     repository.AuditLog
	publisher messaging.Publisher
	inline    StatusChangeHandler
	now       func() time.Time
}

// NewAdminService wires the admin use cases. When inline is non-nil status
// changes are handled in-process instead of through the broker.
func NewAdminService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	areas repository.DeliveryAreaRepository,
	users repository.UserRepository,
	audit repository.AuditLog,
	publisher messaging.Publisher,
	inline StatusChangeHandler,
) *AdminService {
	return &AdminService{
		orders:    orders,
		products:  products,
		areas:     areas,
		users:     users,
		audit:     audit,
		publisher: publisher,
		inline:    inline,
		now:       time.Now,
	}
}

func (s *AdminService) record(ctx context.Context, entry entity.AuditLogEntry) {
	if err := s.audit.Append(ctx, &entry); err != nil {
		slog.Error("Failed to write audit log", "action", entry.ActionType, "table", entry.TableName,
			"record_id", entry.RecordID, "err", err)
	}
}

// snapshot flattens v into the map form stored as old/new values.
func snapshot(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// UpdateOrderStatus writes the new status, then independently records an
// audit entry and notifies the customer. Neither follow-up can undo the
// write.
func (s *AdminService) UpdateOrderStatus(ctx context.Context, sess *entity.Session, orderID, status string) (*entity.Order, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	next, err := entity.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}

	prev, err := s.orders.UpdateStatus(ctx, orderID, next)
	if err != nil {
		return nil, err
	}
	slog.Info("Order status changed", "order_number", prev.OrderNumber, "from", prev.Status, "to", next, "admin_id", sess.UserID)

	s.record(ctx, entity.StatusChangeEntry(sess.UserID, *prev, prev.Status, next))

	event := entity.OrderStatusChanged{
		OrderID:     prev.ID,
		OrderNumber: prev.OrderNumber,
		UserID:      prev.UserID,
		OldStatus:   prev.Status,
		NewStatus:   next,
		ChangedBy:   sess.UserID,
		ChangedAt:   s.now(),
	}
	if s.inline != nil {
		if err := s.inline.HandleStatusChanged(ctx, event); err != nil {
			slog.Error("Failed to send status notification", "order_number", event.OrderNumber, "err", err)
		}
	} else if err := s.publisher.PublishEvent(ctx, messaging.TopicOrderStatusChanged, event.OrderID, event); err != nil {
		slog.Error("Failed to publish OrderStatusChanged", "order_number", event.OrderNumber, "err", err)
	}

	updated := *prev
	updated.Status = next
	updated.UpdatedAt = event.ChangedAt
	return &updated, nil
}

func (s *AdminService) ListOrders(ctx context.Context, sess *entity.Session, query string) ([]entity.Order, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return s.orders.List(ctx, strings.ToUpper(strings.TrimSpace(query)), 200)
}

func (s *AdminService) GetOrder(ctx context.Context, sess *entity.Session, id string) (*entity.Order, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return s.orders.FindByID(ctx, id)
}

func (s *AdminService) Overview(ctx context.Context, sess *entity.Session) (*entity.OverviewStats, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return s.orders.Stats(ctx)
}

func (s *AdminService) ListCustomers(ctx context.Context, sess *entity.Session) ([]entity.Profile, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return s.users.ListProfiles(ctx)
}

func (s *AdminService) ListAuditLogs(ctx context.Context, sess *entity.Session, query string) ([]entity.AuditLogEntry, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return s.audit.List(ctx, entity.AuditFilter{Query: strings.TrimSpace(query), Limit: 100})
}

// Products

func validateProduct(p *entity.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return entity.ValidationError{Field: "name", Message: "is required"}
	}
	if p.Price.IsNegative() {
		return entity.ValidationError{Field: "price", Message: "must not be negative"}
	}
	if p.Stock < 0 {
		return entity.ValidationError{Field: "stock", Message: "must not be negative"}
	}
	if p.CompatibleModels == nil {
		p.CompatibleModels = []string{}
	}
	return nil
}

func (s *AdminService) ListProducts(ctx context.Context, sess *entity.Session) ([]entity.Product, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return s.products.ListAll(ctx)
}

func (s *AdminService) CreateProduct(ctx context.Context, sess *entity.Session, p *entity.Product) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if err := validateProduct(p); err != nil {
		return err
	}
	if err := s.products.Create(ctx, p); err != nil {
		return err
	}
	s.record(ctx, entity.AuditLogEntry{
		AdminUserID: sess.UserID,
		ActionType:  entity.AuditCreate,
		TableName:   "products",
		RecordID:    p.ID,
		NewValues:   snapshot(p),
		Description: fmt.Sprintf("Created product %s", p.Name),
	})
	return nil
}

func (s *AdminService) UpdateProduct(ctx context.Context, sess *entity.Session, p *entity.Product) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if err := validateProduct(p); err != nil {
		return err
	}
	old, err := s.products.FindByID(ctx, p.ID)
	if err != nil {
		return err
	}
	// Visibility changes only through SetProductActive.
	p.IsActive = old.IsActive
	if err := s.products.Update(ctx, p); err != nil {
		return err
	}
	s.record(ctx, entity.AuditLogEntry{
		AdminUserID: sess.UserID,
		ActionType:  entity.AuditUpdate,
		TableName:   "products",
		RecordID:    p.ID,
		OldValues:   snapshot(old),
		NewValues:   snapshot(p),
		Description: fmt.Sprintf("Updated product %s", p.Name),
	})
	return nil
}

func (s *AdminService) SetProductActive(ctx context.Context, sess *entity.Session, id string, active bool) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	old, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.products.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.record(ctx, entity.AuditLogEntry{
		AdminUserID: sess.UserID,
		ActionType:  entity.AuditUpdate,
		TableName:   "products",
		RecordID:    id,
		OldValues:   map[string]any{"is_active": old.IsActive},
		NewValues:   map[string]any{"is_active": active},
		Description: fmt.Sprintf("%s product %s", activeVerb(active), old.Name),
	})
	return nil
}

func (s *AdminService) DeleteProduct(ctx context.Context, sess *entity.Session, id string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	old, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, entity.AuditLogEntry{
		AdminUserID: sess.UserID,
		ActionType:  entity.AuditDelete,
		TableName:   "products",
		RecordID:    id,
		OldValues:   snapshot(old),
		Description: fmt.Sprintf("Deleted product %s", old.Name),
	})
	return nil
}

// Delivery areas

func (s *AdminService) ListDeliveryAreas(ctx context.Context, sess *entity.Session) ([]entity.DeliveryArea, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return s.areas.List(ctx)
}

func (s *AdminService) CreateDeliveryArea(ctx context.Context, sess *entity.Session, a *entity.DeliveryArea) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}
	if err := s.areas.Create(ctx, a); err != nil {
		return err
	}
	s.record(ctx, entity.AuditLogEntry{
		AdminUserID: sess.UserID,
		ActionType:  entity.AuditCreate,
		TableName:   "delivery_areas",
		RecordID:    a.ID,
		NewValues:   snapshot(a),
		Description: fmt.Sprintf("Added delivery area %s (%s)", a.AreaName, a.Pincode),
	})
	return nil
}

func (s *AdminService) UpdateDeliveryArea(ctx context.Context, sess *entity.Session, a *entity.DeliveryArea) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}
	old, err := s.areas.FindByID(ctx, a.ID)
	if err != nil {
		return err
	}
	a.IsActive = old.IsActive
	if err := s.areas.Update(ctx, a); err != nil {
		return err
	}
	s.record(ctx, entity.AuditLogEntry{
		AdminUserID: sess.UserID,
		ActionType:  entity.AuditUpdate,
		TableName:   "delivery_areas",
		RecordID:    a.ID,
		OldValues:   snapshot(old),
		NewValues:   snapshot(a),
		Description: fmt.Sprintf("Updated delivery area %s (%s)", a.AreaName, a.Pincode),
	})
	return nil
}

func (s *AdminService) SetDeliveryAreaActive(ctx context.Context, sess *entity.Session, id string, active bool) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	old, err := s.areas.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.areas.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.record(ctx, entity.AuditLogEntry{
		AdminUserID: sess.UserID,
		ActionType:  entity.AuditUpdate,
		TableName:   "delivery_areas",
		RecordID:    id,
		OldValues:   map[string]any{"is_active": old.IsActive},
		NewValues:   map[string]any{"is_active": active},
		Description: fmt.Sprintf("%s delivery area %s", activeVerb(active), old.Pincode),
	})
	return nil
}

func (s *AdminService) DeleteDeliveryArea(ctx context.Context, sess *entity.Session, id string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	old, err := s.areas.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.areas.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, entity.AuditLogEntry{
		AdminUserID: sess.UserID,
		ActionType:  entity.AuditDelete,
		TableName:   "delivery_areas",
		RecordID:    id,
		OldValues:   snapshot(old),
		Description: fmt.Sprintf("Deleted delivery area %s (%s)", old.AreaName, old.Pincode),
	})
	return nil
}

func activeVerb(active bool) string {
	if active {
		return "Activated"
	}
	return "Deactivated"
}
