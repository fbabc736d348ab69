package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/repository"
)

type auditLog struct {
	db *sql.DB
}

// NewAuditLog creates an append-only AuditLog backed by Postgres.
func NewAuditLog(db *sql.DB) repository.AuditLog {
	return &auditLog{db: db}
}

// marshalValues returns nil for absent snapshots so the column stays NULL.
func marshalValues(v map[string]any) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *auditLog) Append(ctx context.Context, entry *entity.AuditLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	oldValues, err := marshalValues(entry.OldValues)
	if err != nil {
		return fmt.Errorf("failed to marshal old values: %w", err)
	}
	newValues, err := marshalValues(entry.NewValues)
	if err != nil {
		return fmt.Errorf("failed to marshal new values: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO admin_audit_logs (id, admin_user_id, action_type, table_name, record_id, old_values,
			new_values, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.AdminUserID, entry.ActionType, entry.TableName, entry.RecordID, oldValues, newValues,
		entry.Description, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry %s: %w", entry.ActionType, err)
	}
	return nil
}

func (s *auditLog) List(ctx context.Context, filter entity.AuditFilter) ([]entity.AuditLogEntry, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}

	query := `SELECT id, admin_user_id, action_type, table_name, record_id, old_values, new_values,
			description, created_at
		FROM admin_audit_logs`
	args := []any{filter.Limit}
	if filter.Query != "" {
		query += " WHERE action_type ILIKE $2 OR table_name ILIKE $2 OR description ILIKE $2"
		args = append(args, "%"+filter.Query+"%")
	}
	query += " ORDER BY created_at DESC LIMIT $1"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit entries: %w", err)
	}
	defer rows.Close()

	entries := []entity.AuditLogEntry{}
	for rows.Next() {
		var e entity.AuditLogEntry
		var oldValues, newValues []byte
		if err := rows.Scan(&e.ID, &e.AdminUserID, &e.ActionType, &e.TableName, &e.RecordID, &oldValues,
			&newValues, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if len(oldValues) > 0 {
			if err := json.Unmarshal(oldValues, &e.OldValues); err != nil {
				return nil, fmt.Errorf("failed to decode old values: %w", err)
			}
		}
		if len(newValues) > 0 {
			if err := json.Unmarshal(newValues, &e.NewValues); err != nil {
				return nil, fmt.Errorf("failed to decode new values: %w", err)
			}
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit rows: %w", err)
	}
	return entries, nil
}
