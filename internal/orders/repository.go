package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gourav6746-ai/Thulodeal/internal/domain"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// OutboxEvent is a pending row of the transactional outbox, written in the
// same transaction as the order it describes.
type OutboxEvent struct {
	ID          int
	AggregateId string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
	ListAllOrders(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, next domain.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, next domain.PaymentStatus) error
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int) error
	RunMigrations(*Credentials) error
	Close() error
}
