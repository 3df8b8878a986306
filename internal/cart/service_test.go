package cart

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/gourav6746-ai/Thulodeal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	m       sync.RWMutex
	carts   map[string]*domain.Cart
	saveErr error
	loadErr error
	saves   int
}

func newMockStore() *mockStore {
	return &mockStore{carts: make(map[string]*domain.Cart)}
}

func (m *mockStore) Load(_ context.Context, userID string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if cart, ok := m.carts[userID]; ok {
		cp := *cart
		cp.Items = append([]domain.CartItem(nil), cart.Items...)
		return &cp, nil
	}
	return &domain.Cart{UserID: userID}, nil
}

func (m *mockStore) Save(_ context.Context, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	cp := *cart
	cp.Items = append([]domain.CartItem(nil), cart.Items...)
	m.carts[cart.UserID] = &cp
	return nil
}

func (m *mockStore) Delete(_ context.Context, userID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.carts, userID)
	return nil
}

func testProduct(id string, price int64, sizes ...string) domain.Product {
	if len(sizes) == 0 {
		sizes = []string{"M", "L"}
	}
	return domain.Product{
		ID:        id,
		Name:      "Product " + id,
		Price:     price,
		Category:  domain.CategoryShirts,
		Sizes:     sizes,
		ImageURLs: []string{"https://img.test/" + id + ".jpg"},
		Stock:     10,
	}
}

func TestAddItem_NewLine(t *testing.T) {
	store := newMockStore()
	sut := NewService(store)

	cart, err := sut.AddItem(context.Background(), "u1", testProduct("p1", 100), "M")
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, "p1", cart.Items[0].ProductID)
	assert.Equal(t, "M", cart.Items[0].SelectedSize)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, int64(100), cart.Items[0].Price)
	assert.Equal(t, 1, store.saves)
}

func TestAddItem_RepeatedCalls_MergeIntoOneLine(t *testing.T) {
	store := newMockStore()
	sut := NewService(store)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := sut.AddItem(ctx, "u1", testProduct("p1", 100), "M")
		require.NoError(t, err)
	}

	cart, err := sut.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestAddItem_DifferentSizes_AreDistinctLines(t *testing.T) {
	// Scenario B: p1 twice in "M", once in "L".
	store := newMockStore()
	sut := NewService(store)
	ctx := context.Background()

	p1 := testProduct("p1", 100)
	_, err := sut.AddItem(ctx, "u1", p1, "M")
	require.NoError(t, err)
	_, err = sut.AddItem(ctx, "u1", p1, "M")
	require.NoError(t, err)
	cart, err := sut.AddItem(ctx, "u1", p1, "L")
	require.NoError(t, err)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "M", cart.Items[0].SelectedSize)
	assert.Equal(t, 1, cart.Items[1].Quantity)
	assert.Equal(t, "L", cart.Items[1].SelectedSize)
	assert.Equal(t, int64(300), Subtotal(cart.Items))
	assert.Equal(t, 3, Count(cart.Items))
}

func TestAddItem_SizeNotOffered(t *testing.T) {
	sut := NewService(newMockStore())

	_, err := sut.AddItem(context.Background(), "u1", testProduct("p1", 100, "M"), "XXL")
	assert.ErrorIs(t, err, ErrSizeNotOffered)
}

func TestAddItem_SaveError_Propagates(t *testing.T) {
	store := newMockStore()
	store.saveErr = fmt.Errorf("redis down")
	sut := NewService(store)

	_, err := sut.AddItem(context.Background(), "u1", testProduct("p1", 100), "M")
	require.ErrorContains(t, err, "redis down")
}

func TestRemoveItem_DeletesWholeLine(t *testing.T) {
	store := newMockStore()
	sut := NewService(store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := sut.AddItem(ctx, "u1", testProduct("p1", 100), "M")
		require.NoError(t, err)
	}

	cart, err := sut.RemoveItem(ctx, "u1", "p1", "M")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestRemoveItem_MissingLine_IsNoOp(t *testing.T) {
	store := newMockStore()
	sut := NewService(store)

	cart, err := sut.RemoveItem(context.Background(), "u1", "ghost", "M")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, store.saves)
}

func TestRemoveThenAdd_YieldsQuantityOne(t *testing.T) {
	store := newMockStore()
	sut := NewService(store)
	ctx := context.Background()

	p1 := testProduct("p1", 100)
	_, err := sut.AddItem(ctx, "u1", p1, "M")
	require.NoError(t, err)
	_, err = sut.AddItem(ctx, "u1", p1, "M")
	require.NoError(t, err)
	_, err = sut.RemoveItem(ctx, "u1", "p1", "M")
	require.NoError(t, err)

	cart, err := sut.AddItem(ctx, "u1", p1, "M")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestUpdateQuantity_SetsExactValue(t *testing.T) {
	store := newMockStore()
	sut := NewService(store)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "u1", testProduct("p1", 100), "M")
	require.NoError(t, err)

	cart, err := sut.UpdateQuantity(ctx, "u1", "p1", "M", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, cart.Items[0].Quantity)
}

func TestUpdateQuantity_NoUpperClamp(t *testing.T) {
	// The primitive sets whatever it is told; bounding against stock
	// happens upstream.
	store := newMockStore()
	sut := NewService(store)
	ctx := context.Background()

	p := testProduct("p1", 100)
	p.Stock = 3
	_, err := sut.AddItem(ctx, "u1", p, "M")
	require.NoError(t, err)

	cart, err := sut.UpdateQuantity(ctx, "u1", "p1", "M", 50)
	require.NoError(t, err)
	assert.Equal(t, 50, cart.Items[0].Quantity)
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	// Scenario E: setting quantity 0 on the "M" line leaves only "L".
	store := newMockStore()
	sut := NewService(store)
	ctx := context.Background()

	p1 := testProduct("p1", 100)
	_, err := sut.AddItem(ctx, "u1", p1, "M")
	require.NoError(t, err)
	_, err = sut.AddItem(ctx, "u1", p1, "M")
	require.NoError(t, err)
	_, err = sut.AddItem(ctx, "u1", p1, "L")
	require.NoError(t, err)

	cart, err := sut.UpdateQuantity(ctx, "u1", "p1", "M", 0)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "L", cart.Items[0].SelectedSize)
}

func TestUpdateQuantity_MissingLine(t *testing.T) {
	sut := NewService(newMockStore())

	_, err := sut.UpdateQuantity(context.Background(), "u1", "ghost", "M", 2)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestClearCart_Idempotent(t *testing.T) {
	store := newMockStore()
	sut := NewService(store)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "u1", testProduct("p1", 100), "M")
	require.NoError(t, err)

	require.NoError(t, sut.ClearCart(ctx, "u1"))
	require.NoError(t, sut.ClearCart(ctx, "u1"))

	cart, err := sut.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestQuoteCart_EmptyCart(t *testing.T) {
	sut := NewService(newMockStore())

	q, err := sut.QuoteCart(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), q.Subtotal)
	assert.Equal(t, int64(0), q.Total)
}

func TestQuoteCart_RecomputedAfterMutation(t *testing.T) {
	store := newMockStore()
	sut := NewService(store)
	ctx := context.Background()

	for i, price := range []int64{50, 80, 120} {
		_, err := sut.AddItem(ctx, "u1", testProduct(fmt.Sprintf("p%d", i+1), price), "M")
		require.NoError(t, err)
	}

	q, err := sut.QuoteCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), q.Discount)

	// Dropping below three lines kills the discount immediately.
	_, err = sut.RemoveItem(ctx, "u1", "p1", "M")
	require.NoError(t, err)

	q, err = sut.QuoteCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), q.Discount)
	assert.Equal(t, q.Subtotal, q.Total)
}
