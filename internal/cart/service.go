package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/gourav6746-ai/Thulodeal/internal/domain"
)

var ErrSizeNotOffered = errors.New("size not offered for product")

// Service is the cart engine: it owns the working set of cart lines for
// each shopper, enforces the line-merge rule, and persists to the slot
// store after every mutation. It trusts the product snapshot it is handed
// and does not re-validate stock against the live catalog; the set-quantity
// ceiling is the caller's responsibility.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.store.Load(ctx, userID)
}

// AddItem merges the product into an existing (product, size) line,
// incrementing its quantity by one, or appends a new line with quantity 1.
func (s *Service) AddItem(ctx context.Context, userID string, product domain.Product, selectedSize string) (*domain.Cart, error) {
	if !sizeOffered(product, selectedSize) {
		return nil, ErrSizeNotOffered
	}

	cart, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].SameLine(product.ID, selectedSize) {
			cart.Items[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, snapshot(product, selectedSize))
	}

	if err := s.store.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("persist cart: %w", err)
	}
	return cart, nil
}

// UpdateQuantity sets the matching line's quantity exactly as given; values
// <= 0 remove the line. There is deliberately no upper clamp here: the
// caller is expected to have bounded the value against stock already.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID, selectedSize string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID, selectedSize)
	}

	cart, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].SameLine(productID, selectedSize) {
			cart.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, ErrLineNotFound
	}

	if err := s.store.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("persist cart: %w", err)
	}
	return cart, nil
}

// RemoveItem deletes the matching line entirely regardless of quantity.
// Removing a line that does not exist is a no-op.
func (s *Service) RemoveItem(ctx context.Context, userID, productID, selectedSize string) (*domain.Cart, error) {
	cart, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i, item := range cart.Items {
		if item.SameLine(productID, selectedSize) {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			if err := s.store.Save(ctx, cart); err != nil {
				return nil, fmt.Errorf("persist cart: %w", err)
			}
			break
		}
	}
	return cart, nil
}

func (s *Service) ClearCart(ctx context.Context, userID string) error {
	cart := &domain.Cart{UserID: userID, Items: nil}
	if err := s.store.Save(ctx, cart); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

// QuoteCart prices the shopper's current cart snapshot.
func (s *Service) QuoteCart(ctx context.Context, userID string) (Quote, error) {
	cart, err := s.store.Load(ctx, userID)
	if err != nil {
		return Quote{}, err
	}
	return ComputeQuote(cart.Items), nil
}

func sizeOffered(product domain.Product, selectedSize string) bool {
	for _, size := range product.Sizes {
		if size == selectedSize {
			return true
		}
	}
	return false
}

func snapshot(product domain.Product, selectedSize string) domain.CartItem {
	return domain.CartItem{
		ProductID:    product.ID,
		Name:         product.Name,
		Price:        product.Price,
		Category:     product.Category,
		ImageURLs:    product.ImageURLs,
		Sizes:        product.Sizes,
		Stock:        product.Stock,
		IsBundle:     product.IsBundle,
		SelectedSize: selectedSize,
		Quantity:     1,
	}
}
