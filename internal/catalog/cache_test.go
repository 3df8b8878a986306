package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gourav6746-ai/Thulodeal/internal/domain"
)

func setupListCache(t *testing.T) (*RedisListCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisListCache(client), mr
}

func TestListCache_MissOnEmpty(t *testing.T) {
	cache, _ := setupListCache(t)

	_, err := cache.Get(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestListCache_RoundTrip(t *testing.T) {
	cache, _ := setupListCache(t)
	ctx := context.Background()

	products := []*domain.Product{
		{ID: "p1", Name: "Linen Shirt", Price: 120, Category: domain.CategoryShirts},
		{ID: "p2", Name: "Wool Coat", Price: 900, Category: domain.CategoryJackets},
	}
	require.NoError(t, cache.Set(ctx, products))

	got, err := cache.Get(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, int64(900), got[1].Price)
}

func TestListCache_TTLWithinJitterWindow(t *testing.T) {
	cache, mr := setupListCache(t)

	require.NoError(t, cache.Set(context.Background(), []*domain.Product{{ID: "p1"}}))

	ttl := mr.TTL(listCacheKey)
	assert.GreaterOrEqual(t, ttl, 15*time.Minute)
	assert.LessOrEqual(t, ttl, 20*time.Minute)
}

func TestListCache_Invalidate(t *testing.T) {
	cache, _ := setupListCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, []*domain.Product{{ID: "p1"}}))
	require.NoError(t, cache.Invalidate(ctx))

	_, err := cache.Get(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestListCache_MalformedPayloadIsAnError(t *testing.T) {
	cache, mr := setupListCache(t)

	mr.Set(listCacheKey, "{not json")
	_, err := cache.Get(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}
