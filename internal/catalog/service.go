package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gourav6746-ai/Thulodeal/internal/domain"
	"golang.org/x/sync/singleflight"
)

var (
	ErrInvalidProduct = errors.New("invalid product")
	ErrBundleTooSmall = errors.New("bundle requires at least 2 products")
	ErrInvalidPromo   = errors.New("invalid promo code")
)

// bundleStock is the synthetic stock a curated bundle is materialized with;
// bundles are not tracked against component inventory.
const bundleStock = 99

type Service struct {
	repo  Repository
	cache ListCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo Repository, cache ListCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// ListProducts serves the storefront product list, collapsing concurrent
// cache misses into a single repository read.
func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	v, err, _ := s.sfg.Do(listCacheKey, func() (interface{}, error) {
		products, err := s.cache.Get(ctx)
		if err == nil {
			return products, nil
		}

		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		products, errList := s.repo.ListProducts(ctx)
		if errList != nil {
			return nil, errList
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), products); errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return products, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]*domain.Product), nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, product *domain.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}

	if err := s.repo.InsertProduct(ctx, product); err != nil {
		log.Printf("repo insert product error: %v \n", err)
		return err
	}

	s.invalidateListCache()
	return nil
}

func (s *Service) UpdateProduct(ctx context.Context, product *domain.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		log.Printf("repo update product error: %v \n", err)
		return err
	}

	s.invalidateListCache()
	return nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		log.Printf("repo delete product error: %v \n", err)
		return err
	}

	s.invalidateListCache()
	return nil
}

func (s *Service) ListBundles(ctx context.Context) ([]*domain.Bundle, error) {
	return s.repo.ListBundles(ctx)
}

// CreateBundle stores the curated bundle and materializes it as a special
// product (category bundles, one synthetic size) so it flows through the
// same cart and checkout path as any other product.
func (s *Service) CreateBundle(ctx context.Context, bundle *domain.Bundle) error {
	if len(bundle.ProductIDs) < 2 {
		return ErrBundleTooSmall
	}
	if bundle.Name == "" || bundle.Price < 0 {
		return ErrInvalidProduct
	}

	bundle.Active = true
	if err := s.repo.InsertBundle(ctx, bundle); err != nil {
		log.Printf("repo insert bundle error: %v \n", err)
		return err
	}

	product := &domain.Product{
		Name:        bundle.Name,
		Price:       bundle.Price,
		Category:    domain.CategoryBundles,
		Sizes:       []string{"One Size"},
		ImageURLs:   []string{bundle.ImageURL},
		Description: fmt.Sprintf("Editorial Bundle: Includes %d premium pieces.", len(bundle.ProductIDs)),
		Stock:       bundleStock,
		IsBundle:    true,
		BundleItems: bundle.ProductIDs,
	}
	if err := s.repo.InsertProduct(ctx, product); err != nil {
		log.Printf("repo materialize bundle error: %v \n", err)
		return err
	}

	s.invalidateListCache()
	return nil
}

func (s *Service) DeleteBundle(ctx context.Context, id string) error {
	if err := s.repo.DeleteBundle(ctx, id); err != nil {
		log.Printf("repo delete bundle error: %v \n", err)
		return err
	}

	s.invalidateListCache()
	return nil
}

func (s *Service) ListPromos(ctx context.Context) ([]*domain.PromoCode, error) {
	return s.repo.ListPromos(ctx)
}

func (s *Service) CreatePromo(ctx context.Context, promo *domain.PromoCode) error {
	if promo.Code == "" || promo.Discount <= 0 || promo.Discount > 100 {
		return ErrInvalidPromo
	}

	promo.IsActive = true
	if err := s.repo.InsertPromo(ctx, promo); err != nil {
		log.Printf("repo insert promo error: %v \n", err)
		return err
	}
	return nil
}

func (s *Service) SetPromoActive(ctx context.Context, id string, active bool) error {
	return s.repo.SetPromoActive(ctx, id, active)
}

func (s *Service) DeletePromo(ctx context.Context, id string) error {
	return s.repo.DeletePromo(ctx, id)
}

// RedeemablePromo resolves a promo code for checkout: it must exist, be
// active and be unexpired.
func (s *Service) RedeemablePromo(ctx context.Context, code string) (*domain.PromoCode, error) {
	promo, err := s.repo.GetPromoByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !promo.IsActive || promo.Expired(time.Now()) {
		return nil, ErrInvalidPromo
	}
	return promo, nil
}

func (s *Service) invalidateListCache() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("cache invalidate error: %v \n", err)
	}
}

func validateProduct(product *domain.Product) error {
	switch {
	case product.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	case product.Price < 0:
		return fmt.Errorf("%w: price must be non-negative", ErrInvalidProduct)
	case !product.Category.IsValid():
		return fmt.Errorf("%w: unknown category %q", ErrInvalidProduct, product.Category)
	case len(product.ImageURLs) == 0:
		return fmt.Errorf("%w: at least one image is required", ErrInvalidProduct)
	case len(product.Sizes) == 0:
		return fmt.Errorf("%w: at least one size is required", ErrInvalidProduct)
	case product.Stock < 0:
		return fmt.Errorf("%w: stock must be non-negative", ErrInvalidProduct)
	}
	return nil
}
