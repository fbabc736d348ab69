package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// AuthService establishes and invalidates sessions.
type AuthService struct {
	users    repository.UserRepository
	sessions repository.SessionStore
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewAuthService(users repository.UserRepository, sessions repository.SessionStore, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
}

type SignUpInput struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FullName        string `json:"full_name"`
	Phone           string `json:"phone"`
}

// AuthResult is returned by sign-up and sign-in.
type AuthResult struct {
	Token   string          `json:"token"`
	Session *entity.Session `json:"session"`
	Profile *entity.Profile `json:"profile"`
}

// SignUp validates the form locally before touching storage.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error) {
	if in.Password != in.ConfirmPassword {
		return nil, entity.ErrPasswordMismatch
	}
	if len(in.Password) < minPasswordLength {
		return nil, entity.ValidationError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", minPasswordLength)}
	}
	if strings.TrimSpace(in.Email) == "" {
		return nil, entity.ValidationError{Field: "email", Message: "is required"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{Email: in.Email, PasswordHash: string(hash)}
	profile := &entity.Profile{FullName: strings.TrimSpace(in.FullName), Phone: strings.TrimSpace(in.Phone)}
	if err := s.users.Create(ctx, user, profile); err != nil {
		return nil, err
	}
	slog.Info("User signed up", "user_id", user.ID)

	return s.start(ctx, user, profile)
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, entity.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, entity.ErrInvalidCredentials
	}

	profile, err := s.users.FindProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.start(ctx, user, profile)
}

func (s *AuthService) start(ctx context.Context, user *entity.User, profile *entity.Profile) (*AuthResult, error) {
	now := s.now()
	sess := &entity.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		IsAdmin:   profile.IsAdmin,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Save(ctx, sess, s.ttl); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        sess.ID,
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &AuthResult{Token: signed, Session: sess, Profile: profile}, nil
}

// Authenticate resolves a bearer token to its live session.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*entity.Session, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid || claims.ID == "" {
		return nil, entity.ErrUnauthorized
	}

	sess, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		if !errors.Is(err, entity.ErrUnauthorized) {
			slog.Error("Session lookup failed", "err", err)
		}
		return nil, entity.ErrUnauthorized
	}
	if sess.Expired(s.now()) || sess.UserID != claims.Subject {
		return nil, entity.ErrUnauthorized
	}
	return sess, nil
}

// SignOut invalidates the session; its token stops working immediately.
func (s *AuthService) SignOut(ctx context.Context, sess *entity.Session) error {
	if err := requireUser(sess); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, sess.ID)
}

func (s *AuthService) Profile(ctx context.Context, sess *entity.Session) (*entity.Profile, error) {
	if err := requireUser(sess); err != nil {
		return nil, err
	}
	return s.users.FindProfile(ctx, sess.UserID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, sess *entity.Session, fullName, phone string) (*entity.Profile, error) {
	if err := requireUser(sess); err != nil {
		return nil, err
	}
	profile, err := s.users.FindProfile(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	profile.FullName = strings.TrimSpace(fullName)
	profile.Phone = strings.TrimSpace(phone)
	if err := s.users.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
