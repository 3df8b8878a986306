package catalog

import (
	"context"
	"errors"

	"github.com/gourav6746-ai/Thulodeal/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrBundleNotFound  = errors.New("bundle not found")
	ErrPromoNotFound   = errors.New("promo code not found")
)

// Repository defines the catalog data operations. Consumers define this
// interface, not the MongoDB implementation.
type Repository interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	InsertProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error

	ListBundles(ctx context.Context) ([]*domain.Bundle, error)
	InsertBundle(ctx context.Context, bundle *domain.Bundle) error
	DeleteBundle(ctx context.Context, id string) error

	ListPromos(ctx context.Context) ([]*domain.PromoCode, error)
	GetPromoByCode(ctx context.Context, code string) (*domain.PromoCode, error)
	InsertPromo(ctx context.Context, promo *domain.PromoCode) error
	SetPromoActive(ctx context.Context, id string, active bool) error
	DeletePromo(ctx context.Context, id string) error
}
