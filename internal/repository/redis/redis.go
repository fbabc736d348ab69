package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/repository"
	goredis "github.com/redis/go-redis/v9"
)

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func getJSON(ctx context.Context, client goredis.Cmdable, key string, dst any, missing error) error {
	raw, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return missing
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func setJSON(ctx context.Context, client goredis.Cmdable, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

type sessionStore struct {
	client goredis.Cmdable
}

// NewSessionStore keeps sessions under session:<id> with a TTL.
func NewSessionStore(client goredis.Cmdable) repository.SessionStore {
	return &sessionStore{client: client}
}

func sessionKey(id string) string { return "session:" + id }

func (s *sessionStore) Save(ctx context.Context, sess *entity.Session, ttl time.Duration) error {
	return setJSON(ctx, s.client, sessionKey(sess.ID), sess, ttl)
}

func (s *sessionStore) Get(ctx context.Context, id string) (*entity.Session, error) {
	var sess entity.Session
	if err := getJSON(ctx, s.client, sessionKey(id), &sess, entity.ErrUnauthorized); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *sessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

type checkoutStore struct {
	client goredis.Cmdable
}

// NewCheckoutStore keeps checkout wizards under checkout:<user_id>.
func NewCheckoutStore(client goredis.Cmdable) repository.CheckoutStore {
	return &checkoutStore{client: client}
}

func checkoutKey(userID string) string { return "checkout:" + userID }

func (s *checkoutStore) Load(ctx context.Context, userID string) (*entity.Checkout, error) {
	var c entity.Checkout
	if err := getJSON(ctx, s.client, checkoutKey(userID), &c, entity.ErrNotFound); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *checkoutStore) Save(ctx context.Context, c *entity.Checkout, ttl time.Duration) error {
	c.UpdatedAt = time.Now()
	return setJSON(ctx, s.client, checkoutKey(c.UserID), c, ttl)
}

func (s *checkoutStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, checkoutKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete checkout: %w", err)
	}
	return nil
}
