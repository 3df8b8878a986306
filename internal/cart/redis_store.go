package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gourav6746-ai/Thulodeal/internal/domain"
	"github.com/redis/go-redis/v9"
)

// slotTTL keeps abandoned carts around long enough to survive any realistic
// return visit before Redis reclaims the slot.
const slotTTL = 90 * 24 * time.Hour

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

type RedisStore struct {
	client *redis.Client
}

func (r *RedisStore) Load(ctx context.Context, userID string) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, slotKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return emptyCart(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		// No schema versioning: a slot we cannot decode is an empty cart.
		return emptyCart(userID), nil
	}
	cart.UserID = userID

	return &cart, nil
}

func (r *RedisStore) Save(ctx context.Context, cart *domain.Cart) error {
	cart.UpdatedAt = time.Now()

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	if err := r.client.Set(ctx, slotKey(cart.UserID), data, slotTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, slotKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func slotKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

func emptyCart(userID string) *domain.Cart {
	return &domain.Cart{
		UserID: userID,
		Items:  nil,
	}
}
