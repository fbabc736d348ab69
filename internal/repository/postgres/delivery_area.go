package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/repository"
)

const areaColumns = "id, pincode, area_name, city, delivery_charge, estimated_days, is_active, created_at, updated_at"

type deliveryAreaRepository struct {
	db *sql.DB
}

// NewDeliveryAreaRepository creates a new DeliveryAreaRepository backed by Postgres.
func NewDeliveryAreaRepository(db *sql.DB) repository.DeliveryAreaRepository {
	return &deliveryAreaRepository{db: db}
}

func scanArea(row rowScanner) (entity.DeliveryArea, error) {
	var a entity.DeliveryArea
	err := row.Scan(&a.ID, &a.Pincode, &a.AreaName, &a.City, &a.DeliveryCharge, &a.EstimatedDays,
		&a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *deliveryAreaRepository) FindActiveByPincode(ctx context.Context, pincode string) (*entity.DeliveryArea, error) {
	a, err := scanArea(r.db.QueryRowContext(ctx,
		"SELECT "+areaColumns+" FROM delivery_areas WHERE pincode = $1 AND is_active",
		pincode,
	))
	if err != nil {
		return nil, notFound(err, entity.ErrNotServiceable, "failed to look up delivery area")
	}
	return &a, nil
}

func (r *deliveryAreaRepository) FindByID(ctx context.Context, id string) (*entity.DeliveryArea, error) {
	a, err := scanArea(r.db.QueryRowContext(ctx, "SELECT "+areaColumns+" FROM delivery_areas WHERE id = $1", id))
	if err != nil {
		return nil, notFound(err, entity.ErrNotFound, "failed to find delivery area")
	}
	return &a, nil
}

func (r *deliveryAreaRepository) List(ctx context.Context) ([]entity.DeliveryArea, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+areaColumns+" FROM delivery_areas ORDER BY pincode")
	if err != nil {
		return nil, fmt.Errorf("failed to query delivery areas: %w", err)
	}
	defer rows.Close()

	areas := []entity.DeliveryArea{}
	for rows.Next() {
		a, err := scanArea(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery area: %w", err)
		}
		areas = append(areas, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating delivery area rows: %w", err)
	}
	return areas, nil
}

func (r *deliveryAreaRepository) Create(ctx context.Context, a *entity.DeliveryArea) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO delivery_areas ("+areaColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		a.ID, a.Pincode, a.AreaName, a.City, a.DeliveryCharge, a.EstimatedDays, a.IsActive, a.CreatedAt, a.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return entity.ErrDuplicatePincode
	}
	if err != nil {
		return fmt.Errorf("failed to insert delivery area: %w", err)
	}
	return nil
}

func (r *deliveryAreaRepository) Update(ctx context.Context, a *entity.DeliveryArea) error {
	a.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE delivery_areas SET pincode = $2, area_name = $3, city = $4, delivery_charge = $5,
			estimated_days = $6, updated_at = $7
		WHERE id = $1`,
		a.ID, a.Pincode, a.AreaName, a.City, a.DeliveryCharge, a.EstimatedDays, a.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return entity.ErrDuplicatePincode
	}
	if err != nil {
		return fmt.Errorf("failed to update delivery area: %w", err)
	}
	return expectOne(res, entity.ErrNotFound)
}

func (r *deliveryAreaRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, "UPDATE delivery_areas SET is_active = $2, updated_at = NOW() WHERE id = $1", id, active)
	if isUniqueViolation(err) {
		return entity.ErrDuplicatePincode
	}
	if err != nil {
		return fmt.Errorf("failed to toggle delivery area: %w", err)
	}
	return expectOne(res, entity.ErrNotFound)
}

func (r *deliveryAreaRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM delivery_areas WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete delivery area: %w", err)
	}
	return expectOne(res, entity.ErrNotFound)
}
