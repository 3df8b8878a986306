package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/gourav6746-ai/Thulodeal/internal/domain"
	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// ListCache holds the rendered product list. The storefront pages the
// catalog in once per view mount, so a short shared cache absorbs most of
// the read load.
type ListCache interface {
	Get(ctx context.Context) ([]*domain.Product, error)
	Set(ctx context.Context, products []*domain.Product) error
	Invalidate(ctx context.Context) error
}

const listCacheKey = "catalog:products"

func NewRedisListCache(client *redis.Client) *RedisListCache {
	return &RedisListCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

type RedisListCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisListCache) Get(ctx context.Context) ([]*domain.Product, error) {
	data, err := r.client.Get(ctx, listCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var products []*domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal products failed: %w", err)
	}
	return products, nil
}

func (r *RedisListCache) Set(ctx context.Context, products []*domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal products failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if err := r.client.Set(ctx, listCacheKey, data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisListCache) Invalidate(ctx context.Context) error {
	if err := r.client.Del(ctx, listCacheKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
