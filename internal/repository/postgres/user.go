package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository backed by Postgres.
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// Create inserts the credentials and the profile together.
func (r *userRepository) Create(ctx context.Context, user *entity.User, profile *entity.Profile) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = time.Now()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)",
		user.ID, user.Email, user.PasswordHash, user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return entity.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	profile.UserID = user.ID
	profile.Email = user.Email
	profile.CreatedAt, profile.UpdatedAt = user.CreatedAt, user.CreatedAt
	_, err = tx.ExecContext(ctx,
		`INSERT INTO profiles (user_id, full_name, phone, email, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		profile.UserID, profile.FullName, profile.Phone, profile.Email, profile.IsAdmin, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at FROM users WHERE email = $1",
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err, entity.ErrNotFound, "failed to find user")
	}
	return &u, nil
}

const profileColumns = "user_id, full_name, phone, email, is_admin, created_at, updated_at"

func scanProfile(row rowScanner) (entity.Profile, error) {
	var p entity.Profile
	err := row.Scan(&p.UserID, &p.FullName, &p.Phone, &p.Email, &p.IsAdmin, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *userRepository) FindProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profiles WHERE user_id = $1", userID))
	if err != nil {
		return nil, notFound(err, entity.ErrNotFound, "failed to find profile")
	}
	return &p, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, p *entity.Profile) error {
	p.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx,
		"UPDATE profiles SET full_name = $2, phone = $3, updated_at = $4 WHERE user_id = $1",
		p.UserID, p.FullName, p.Phone, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return expectOne(res, entity.ErrNotFound)
}

func (r *userRepository) ListProfiles(ctx context.Context) ([]entity.Profile, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+profileColumns+" FROM profiles ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	profiles := []entity.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profile rows: %w", err)
	}
	return profiles, nil
}
