package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bakery/internal/cart"

	"github.com/redis/go-redis/v9"
)

const defaultCartTTL = 12 * time.Hour

// RedisCartRepository stores each session's cart as a JSON value that
// expires after ttl of inactivity.
type RedisCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartRepository(client *redis.Client, ttl time.Duration) *RedisCartRepository {
	if ttl <= 0 {
		ttl = defaultCartTTL
	}
	return &RedisCartRepository{client: client, ttl: ttl}
}

func cartKey(sessionID string) string {
	return "bakery:cart:" + sessionID
}

func (r *RedisCartRepository) Get(ctx context.Context, sessionID string) (*cart.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return &c, nil
}

func (r *RedisCartRepository) Save(ctx context.Context, sessionID string, c *cart.Cart) error {
	if c.IsEmpty() {
		return r.Delete(ctx, sessionID)
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := r.client.Set(ctx, cartKey(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

func (r *RedisCartRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete cart: %w", err)
	}
	return nil
}
