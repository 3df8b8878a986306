package domain

import "time"

// CartItem is a product snapshot extended with the shopper's size choice and
// quantity. Name, price, images and stock are captured at add time and never
// re-read from the live catalog; totals downstream always use the snapshot
// price.
type CartItem struct {
	ProductID    string   `json:"product_id"`
	Name         string   `json:"name"`
	Price        int64    `json:"price"`
	Category     Category `json:"category"`
	ImageURLs    []string `json:"image_urls"`
	Sizes        []string `json:"sizes"`
	Stock        int      `json:"stock"`
	IsBundle     bool     `json:"is_bundle,omitempty"`
	SelectedSize string   `json:"selected_size"`
	Quantity     int      `json:"quantity"`
}

// SameLine reports whether two items belong to the same cart line. Lines are
// keyed by (product, selected size); quantities for matching lines are
// merged, never duplicated.
func (c CartItem) SameLine(productID, selectedSize string) bool {
	return c.ProductID == productID && c.SelectedSize == selectedSize
}

type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}
