package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo enforces forward-only fulfilment progression. There is no
// defined transition back.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusShipped || next == OrderStatusCancelled
	case OrderStatusShipped:
		return next == OrderStatusDelivered || next == OrderStatusCancelled
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

type PaymentMethod string

const (
	PaymentMethodCOD     PaymentMethod = "COD"
	PaymentMethodESewa   PaymentMethod = "eSewa"
	PaymentMethodKhalti  PaymentMethod = "Khalti"
	PaymentMethodBinance PaymentMethod = "Binance"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodESewa, PaymentMethodKhalti, PaymentMethodBinance:
		return true
	}
	return false
}

// RequiresProof reports whether the method needs payer details and an
// uploaded payment screenshot before the order can be submitted. Cash on
// delivery is settled at the door.
func (m PaymentMethod) RequiresProof() bool {
	return m != PaymentMethodCOD
}

// PaymentStatus is a small state machine independent of fulfilment status,
// advanced only by the admin surface.
type PaymentStatus string

const (
	PaymentStatusSubmitted PaymentStatus = "Submitted"
	PaymentStatusVerifying PaymentStatus = "Verifying"
	PaymentStatusConfirmed PaymentStatus = "Confirmed"
	PaymentStatusFailed    PaymentStatus = "Failed"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusSubmitted, PaymentStatusVerifying, PaymentStatusConfirmed, PaymentStatusFailed:
		return true
	}
	return false
}

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusConfirmed || s == PaymentStatusFailed
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentStatusSubmitted:
		return next == PaymentStatusVerifying || next == PaymentStatusConfirmed || next == PaymentStatusFailed
	case PaymentStatusVerifying:
		return next == PaymentStatusConfirmed || next == PaymentStatusFailed
	}
	return false
}

type PaymentDetails struct {
	SenderID      string `json:"sender_id,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	ScreenshotURL string `json:"screenshot_url,omitempty"`
	Note          string `json:"note,omitempty"`
}

type ShippingAddress struct {
	FullName string `json:"full_name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	ZipCode  string `json:"zip_code"`
}

// Order is created once at checkout and immutable afterwards except for the
// two status fields, which only the admin surface advances.
type Order struct {
	ID              uuid.UUID       `json:"id"`
	UserID          string          `json:"user_id"`
	UserEmail       string          `json:"user_email"`
	Items           []CartItem      `json:"items"`
	TotalPrice      int64           `json:"total_price"`
	DiscountAmount  int64           `json:"discount_amount,omitempty"`
	PromoCode       string          `json:"promo_code,omitempty"`
	Status          OrderStatus     `json:"status"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	PaymentDetails  PaymentDetails  `json:"payment_details"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at"`
}
