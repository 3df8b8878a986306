package checkout

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gourav6746-ai/Thulodeal/internal/cart"
	"github.com/gourav6746-ai/Thulodeal/internal/domain"
	"github.com/gourav6746-ai/Thulodeal/internal/storage"
)

var (
	ErrNotAuthenticated = errors.New("login required to finalize an order")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrValidation       = errors.New("validation failed")
	ErrProofTooLarge    = errors.New("payment proof exceeds size limit")
)

// CartEngine is the slice of the cart service checkout needs: the snapshot
// to finalize, and the clear that follows a successful submission.
type CartEngine interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

type PromoResolver interface {
	RedeemablePromo(ctx context.Context, code string) (*domain.PromoCode, error)
}

type OrderWriter interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
}

// Proof is the payment screenshot handed over by the shopper for non-cash
// methods.
type Proof struct {
	Filename string
	Data     []byte
}

type Request struct {
	ShippingAddress domain.ShippingAddress
	PaymentMethod   domain.PaymentMethod
	SenderID        string
	TransactionID   string
	Note            string
	PromoCode       string
	Proof           *Proof
}

type Service struct {
	carts  CartEngine
	promos PromoResolver
	orders OrderWriter
	blobs  storage.BlobStorage
}

func NewService(carts CartEngine, promos PromoResolver, orders OrderWriter, blobs storage.BlobStorage) *Service {
	return &Service{
		carts:  carts,
		promos: promos,
		orders: orders,
		blobs:  blobs,
	}
}

// Quote prices the shopper's cart as the checkout view would render it,
// with an optional promo code stacked on the automatic line discount.
func (s *Service) Quote(ctx context.Context, userID, promoCode string) (cart.Quote, error) {
	snapshot, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return cart.Quote{}, err
	}

	quote := cart.ComputeQuote(snapshot.Items)
	if promoCode != "" {
		promo, err := s.promos.RedeemablePromo(ctx, promoCode)
		if err != nil {
			return cart.Quote{}, err
		}
		cut := quote.Total * int64(promo.Discount) / 100
		quote.Discount += cut
		quote.Total -= cut
	}
	return quote, nil
}

// Submit finalizes the order. All validation happens before any network
// call; the proof upload precedes the order write; the cart is cleared only
// after the write succeeds. Any failure leaves the cart exactly as it was
// so the shopper can retry. An already-uploaded proof of a failed write is
// not cleaned up.
func (s *Service) Submit(ctx context.Context, session domain.Session, req Request) (*domain.Order, error) {
	if session.UserID == "" {
		return nil, ErrNotAuthenticated
	}

	snapshot, err := s.carts.GetCart(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(snapshot.Items) == 0 {
		return nil, ErrEmptyCart
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	var promo *domain.PromoCode
	if req.PromoCode != "" {
		promo, err = s.promos.RedeemablePromo(ctx, req.PromoCode)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	quote := cart.ComputeQuote(snapshot.Items)
	discount := quote.Discount
	total := quote.Total
	if promo != nil {
		cut := total * int64(promo.Discount) / 100
		discount += cut
		total -= cut
	}

	details := domain.PaymentDetails{
		SenderID:      req.SenderID,
		TransactionID: req.TransactionID,
		Note:          req.Note,
	}

	if req.Proof != nil {
		name := fmt.Sprintf("%s_%d.jpg", session.UserID, time.Now().UnixMilli())
		url, err := s.blobs.Save(ctx, name, bytes.NewReader(req.Proof.Data))
		if err != nil {
			return nil, fmt.Errorf("payment proof upload failed: %w", err)
		}
		details.ScreenshotURL = url
	}

	paymentStatus := domain.PaymentStatusSubmitted
	if req.PaymentMethod == domain.PaymentMethodCOD {
		paymentStatus = domain.PaymentStatusConfirmed
	}

	order := &domain.Order{
		ID:              uuid.New(),
		UserID:          session.UserID,
		UserEmail:       session.Email,
		Items:           snapshot.Items,
		TotalPrice:      total,
		DiscountAmount:  discount,
		PromoCode:       req.PromoCode,
		Status:          domain.OrderStatusPending,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   paymentStatus,
		PaymentDetails:  details,
		ShippingAddress: req.ShippingAddress,
		CreatedAt:       time.Now(),
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("order write failed: %w", err)
	}

	// The order is placed; a failed clear only leaves a stale cart behind.
	if err := s.carts.ClearCart(ctx, session.UserID); err != nil {
		log.Printf("clear cart after checkout error: %v \n", err)
	}

	return order, nil
}

func validate(req Request) error {
	if !req.PaymentMethod.IsValid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrValidation, req.PaymentMethod)
	}

	addr := req.ShippingAddress
	if addr.FullName == "" || addr.Address == "" || addr.City == "" || addr.ZipCode == "" {
		return fmt.Errorf("%w: complete shipping address is required", ErrValidation)
	}

	if req.PaymentMethod.RequiresProof() {
		if req.SenderID == "" || req.TransactionID == "" {
			return fmt.Errorf("%w: payer ID and transaction ID are required", ErrValidation)
		}
		if req.Proof == nil || len(req.Proof.Data) == 0 {
			return fmt.Errorf("%w: payment proof screenshot is required", ErrValidation)
		}
	}

	if req.Proof != nil && len(req.Proof.Data) > storage.MaxProofSize {
		return ErrProofTooLarge
	}

	return nil
}
