package domain

import "time"

type Category string

const (
	CategoryShirts      Category = "shirts"
	CategoryJeans       Category = "jeans"
	CategoryShoes       Category = "shoes"
	CategoryJackets     Category = "jackets"
	CategoryAccessories Category = "accessories"
	CategoryBundles     Category = "bundles"
)

// IsValid reports whether c is one of the known catalog categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryShirts, CategoryJeans, CategoryShoes, CategoryJackets, CategoryAccessories, CategoryBundles:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

type Product struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Price       int64     `bson:"price" json:"price"`
	Category    Category  `bson:"category" json:"category"`
	Sizes       []string  `bson:"sizes" json:"sizes"`
	ImageURLs   []string  `bson:"image_urls" json:"imageURLs"`
	Description string    `bson:"description" json:"description"`
	Stock       int       `bson:"stock" json:"stock"`
	IsBundle    bool      `bson:"is_bundle,omitempty" json:"isBundle,omitempty"`
	BundleItems []string  `bson:"bundle_items,omitempty" json:"bundleItems,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}

type Bundle struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Price       int64     `bson:"price" json:"price"`
	ProductIDs  []string  `bson:"product_ids" json:"productIds"`
	ImageURL    string    `bson:"image_url" json:"imageURL"`
	Description string    `bson:"description" json:"description"`
	Active      bool      `bson:"active" json:"active"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}

type PromoCode struct {
	ID         string     `bson:"_id,omitempty" json:"id"`
	Code       string     `bson:"code" json:"code"`
	Discount   int        `bson:"discount" json:"discount"` // percentage
	IsActive   bool       `bson:"is_active" json:"isActive"`
	ExpiryDate *time.Time `bson:"expiry_date,omitempty" json:"expiryDate,omitempty"`
	CreatedAt  time.Time  `bson:"created_at" json:"createdAt"`
}

// Expired reports whether the promo has an expiry date in the past.
func (p PromoCode) Expired(now time.Time) bool {
	return p.ExpiryDate != nil && now.After(*p.ExpiryDate)
}
