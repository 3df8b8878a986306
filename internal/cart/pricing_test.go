package cart

import (
	"testing"

	"github.com/gourav6746-ai/Thulodeal/internal/domain"
	"github.com/stretchr/testify/assert"
)

func line(productID string, price int64, quantity int) domain.CartItem {
	return domain.CartItem{
		ProductID:    productID,
		Name:         productID,
		Price:        price,
		SelectedSize: "M",
		Quantity:     quantity,
	}
}

func TestSubtotal_EmptyCart(t *testing.T) {
	assert.Equal(t, int64(0), Subtotal(nil))
}

func TestSubtotal_SumsSnapshotPrices(t *testing.T) {
	items := []domain.CartItem{
		line("p1", 100, 2),
		line("p2", 50, 3),
	}
	assert.Equal(t, int64(350), Subtotal(items))
}

func TestCount_SumsQuantities(t *testing.T) {
	items := []domain.CartItem{
		line("p1", 100, 2),
		line("p2", 50, 1),
	}
	assert.Equal(t, 3, Count(items))
	assert.Equal(t, 0, Count(nil))
}

func TestComputeQuote_FewerThanThreeLines_NoDiscount(t *testing.T) {
	items := []domain.CartItem{
		line("p1", 100, 5),
		line("p2", 900, 1),
	}

	q := ComputeQuote(items)

	assert.Equal(t, int64(0), q.Discount)
	assert.Equal(t, q.Subtotal, q.Total)
	assert.Equal(t, 2, q.Lines)
}

func TestComputeQuote_ThreeLines_CheapestLineFree(t *testing.T) {
	// 3 lines priced 50/80/120: floor(3/3)=1 free line, the cheapest one.
	items := []domain.CartItem{
		line("p1", 120, 1),
		line("p2", 50, 1),
		line("p3", 80, 1),
	}

	q := ComputeQuote(items)

	assert.Equal(t, int64(250), q.Subtotal)
	assert.Equal(t, int64(50), q.Discount)
	assert.Equal(t, int64(200), q.Total)
}

func TestComputeQuote_FourLines_StillOneFree(t *testing.T) {
	items := []domain.CartItem{
		line("p1", 120, 1),
		line("p2", 50, 1),
		line("p3", 80, 1),
		line("p4", 200, 1),
	}

	q := ComputeQuote(items)

	assert.Equal(t, int64(50), q.Discount)
	assert.Equal(t, int64(400), q.Total)
}

func TestComputeQuote_SixLines_TwoCheapestFree(t *testing.T) {
	items := []domain.CartItem{
		line("p1", 10, 1),
		line("p2", 20, 1),
		line("p3", 30, 1),
		line("p4", 40, 1),
		line("p5", 50, 1),
		line("p6", 60, 1),
	}

	q := ComputeQuote(items)

	assert.Equal(t, int64(30), q.Discount)
	assert.Equal(t, int64(180), q.Total)
}

func TestComputeQuote_DiscountUsesUnitPriceNotLineTotal(t *testing.T) {
	// The cheapest line has quantity 4 but only one unit's price is free.
	items := []domain.CartItem{
		line("p1", 10, 4),
		line("p2", 100, 1),
		line("p3", 100, 1),
	}

	q := ComputeQuote(items)

	assert.Equal(t, int64(240), q.Subtotal)
	assert.Equal(t, int64(10), q.Discount)
	assert.Equal(t, int64(230), q.Total)
}

func TestComputeQuote_CountsLinesNotQuantity(t *testing.T) {
	// 2 lines with total quantity 6: still below the 3-line threshold.
	items := []domain.CartItem{
		line("p1", 100, 3),
		line("p2", 200, 3),
	}

	q := ComputeQuote(items)

	assert.Equal(t, int64(0), q.Discount)
}

func TestComputeQuote_DoesNotReorderCart(t *testing.T) {
	items := []domain.CartItem{
		line("p1", 300, 1),
		line("p2", 100, 1),
		line("p3", 200, 1),
	}

	ComputeQuote(items)

	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, "p2", items[1].ProductID)
	assert.Equal(t, "p3", items[2].ProductID)
}

func TestComputeQuote_Empty(t *testing.T) {
	q := ComputeQuote(nil)
	assert.Equal(t, Quote{}, q)
}
