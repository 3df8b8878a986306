package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/gourav6746-ai/Thulodeal/internal/domain"
	_ "github.com/lib/pq"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "orders_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

// orderCreatedEvent is the outbox payload for a freshly submitted order.
type orderCreatedEvent struct {
	OrderID       string `json:"order_id"`
	UserID        string `json:"user_id"`
	UserEmail     string `json:"user_email"`
	TotalPrice    int64  `json:"total_price"`
	Discount      int64  `json:"discount_amount"`
	PaymentMethod string `json:"payment_method"`
	PaymentStatus string `json:"payment_status"`
	Lines         int    `json:"lines"`
}

// CreateOrder writes the order and its outbox event in one transaction:
// either both land or neither does.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	detailsJSON, err := json.Marshal(order.PaymentDetails)
	if err != nil {
		return fmt.Errorf("failed to marshal payment details: %w", err)
	}

	addressJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping address: %w", err)
	}

	eventJSON, err := json.Marshal(orderCreatedEvent{
		OrderID:       order.ID.String(),
		UserID:        order.UserID,
		UserEmail:     order.UserEmail,
		TotalPrice:    order.TotalPrice,
		Discount:      order.DiscountAmount,
		PaymentMethod: string(order.PaymentMethod),
		PaymentStatus: string(order.PaymentStatus),
		Lines:         len(order.Items),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal outbox event: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO orders (id, user_id, user_email, items, total_price, discount_amount, promo_code,
	          status, payment_method, payment_status, payment_details, shipping_address, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())`

	if _, err := tx.ExecContext(ctx, query,
		order.ID,
		order.UserID,
		order.UserEmail,
		itemsJSON,
		order.TotalPrice,
		order.DiscountAmount,
		order.PromoCode,
		order.Status,
		order.PaymentMethod,
		order.PaymentStatus,
		detailsJSON,
		addressJSON,
	); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	outboxQuery := `INSERT INTO order_outbox (aggregate_id, event_type, payload, created_at)
	                VALUES ($1, $2, $3, NOW())`
	if _, err := tx.ExecContext(ctx, outboxQuery, order.ID.String(), "order.created", eventJSON); err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

const orderColumns = `id, user_id, user_email, items, total_price, discount_amount, promo_code,
	status, payment_method, payment_status, payment_details, shipping_address, created_at`

func scanOrder(scan func(dest ...any) error) (*domain.Order, error) {
	var order domain.Order
	var itemsJSON, detailsJSON, addressJSON []byte

	if err := scan(
		&order.ID,
		&order.UserID,
		&order.UserEmail,
		&itemsJSON,
		&order.TotalPrice,
		&order.DiscountAmount,
		&order.PromoCode,
		&order.Status,
		&order.PaymentMethod,
		&order.PaymentStatus,
		&detailsJSON,
		&addressJSON,
		&order.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	if err := json.Unmarshal(detailsJSON, &order.PaymentDetails); err != nil {
		return nil, fmt.Errorf("unmarshal payment details: %w", err)
	}
	if err := json.Unmarshal(addressJSON, &order.ShippingAddress); err != nil {
		return nil, fmt.Errorf("unmarshal shipping address: %w", err)
	}

	return &order, nil
}

func (r *Repository) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}
	return order, nil
}

func (r *Repository) ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	return r.listOrders(ctx, query, userID)
}

func (r *Repository) ListAllOrders(ctx context.Context) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.listOrders(ctx, query)
}

func (r *Repository) listOrders(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return orders, nil
}

// UpdateStatus advances fulfilment status, rejecting anything but the
// forward-only transitions the domain allows. The current row is locked so
// two admins cannot race past the check.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, next domain.OrderStatus) error {
	return r.advance(ctx, id, "status", string(next), func(current string) bool {
		return domain.OrderStatus(current).CanTransitionTo(next)
	})
}

// UpdatePaymentStatus advances the independent payment state machine.
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, next domain.PaymentStatus) error {
	return r.advance(ctx, id, "payment_status", string(next), func(current string) bool {
		return domain.PaymentStatus(current).CanTransitionTo(next)
	})
}

func (r *Repository) advance(ctx context.Context, id uuid.UUID, column, next string, allowed func(current string) bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var current string
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1 FOR UPDATE`, column)
	err = tx.QueryRowContext(ctx, query, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("lock order row: %w", err)
	}

	if !allowed(current) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, next)
	}

	update := fmt.Sprintf(`UPDATE orders SET %s = $1 WHERE id = $2`, column)
	if _, err := tx.ExecContext(ctx, update, next, id); err != nil {
		return fmt.Errorf("update order %s: %w", column, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit status update: %w", err)
	}
	return nil
}

func (r *Repository) GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	query := `SELECT id, aggregate_id, event_type, payload, created_at
	          FROM order_outbox WHERE processed_at IS NULL ORDER BY id LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var events []*OutboxEvent
	for rows.Next() {
		var event OutboxEvent
		if err := rows.Scan(&event.ID, &event.AggregateId, &event.EventType, &event.Payload, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return events, nil
}

func (r *Repository) MarkEventAsProcessed(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE order_outbox SET processed_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark event processed: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("outbox event %d not found", id)
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
