package cart

import (
	"sort"

	"github.com/gourav6746-ai/Thulodeal/internal/domain"
)

// Quote is the pricing of a cart snapshot at one instant. It is computed
// fresh on every call and never cached, so adding or removing lines changes
// the discount immediately and deterministically.
type Quote struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Total    int64 `json:"total"`
	Lines    int   `json:"lines"`
}

// Subtotal sums price*quantity over all lines using each line's captured
// price, never a live re-fetch.
func Subtotal(items []domain.CartItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// Count sums quantities across lines. Used for the cart badge, not for
// stock checks.
func Count(items []domain.CartItem) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// ComputeQuote applies the automatic buy-bundle promotion: with n distinct
// lines (not total quantity), n >= 3, the cheapest floor(n/3) lines each
// contribute one unit's price to the discount. Fewer than 3 lines means a
// discount of exactly zero.
func ComputeQuote(items []domain.CartItem) Quote {
	q := Quote{
		Subtotal: Subtotal(items),
		Lines:    len(items),
	}

	if free := len(items) / 3; free > 0 {
		byPrice := make([]domain.CartItem, len(items))
		copy(byPrice, items)
		sort.SliceStable(byPrice, func(i, j int) bool {
			return byPrice[i].Price < byPrice[j].Price
		})
		for _, item := range byPrice[:free] {
			q.Discount += item.Price
		}
	}

	q.Total = q.Subtotal - q.Discount
	return q
}
