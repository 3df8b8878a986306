package cart

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gourav6746-ai/Thulodeal/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client), mr
}

func TestLoad_MissingSlot_ReturnsEmptyCart(t *testing.T) {
	store, _ := setupTestStore(t)

	cart, err := store.Load(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", cart.UserID)
	assert.Empty(t, cart.Items)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	cart := &domain.Cart{
		UserID: "u1",
		Items: []domain.CartItem{
			{ProductID: "p1", Name: "Tee", Price: 100, SelectedSize: "M", Quantity: 2},
			{ProductID: "p1", Name: "Tee", Price: 100, SelectedSize: "L", Quantity: 1},
		},
	}
	require.NoError(t, store.Save(ctx, cart))

	restored, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, restored.Items, 2)
	assert.Equal(t, cart.Items, restored.Items)
}

func TestLoad_MalformedSlot_TreatedAsEmptyCart(t *testing.T) {
	store, mr := setupTestStore(t)
	mr.Set(slotKey("u1"), "{not json")

	cart, err := store.Load(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", cart.UserID)
	assert.Empty(t, cart.Items)
}

func TestSave_SetsSlotWithTTL(t *testing.T) {
	store, mr := setupTestStore(t)

	cart := &domain.Cart{
		UserID: "u1",
		Items:  []domain.CartItem{{ProductID: "p1", Price: 100, SelectedSize: "M", Quantity: 1}},
	}
	require.NoError(t, store.Save(context.Background(), cart))

	raw, err := mr.Get(slotKey("u1"))
	require.NoError(t, err)

	var stored domain.Cart
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, cart.Items, stored.Items)
	assert.Equal(t, slotTTL, mr.TTL(slotKey("u1")))
}

func TestDelete_RemovesSlot(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	cart := &domain.Cart{UserID: "u1", Items: []domain.CartItem{{ProductID: "p1", Quantity: 1}}}
	require.NoError(t, store.Save(ctx, cart))
	require.NoError(t, store.Delete(ctx, "u1"))

	assert.False(t, mr.Exists(slotKey("u1")))
}
