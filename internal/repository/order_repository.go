package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	// FindForCustomer only returns the order when it belongs to customerID
	FindForCustomer(ctx context.Context, id, customerID uuid.UUID) (*domain.Order, error)
	// ListAll lists every order, optionally restricted to one status
	ListAll(ctx context.Context, status *domain.OrderStatus) ([]*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
	// BulkUpdateStatus updates every listed order and reports how many changed
	BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status domain.OrderStatus) (int64, error)
}

type orderRepository struct {
	db DBTX
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db DBTX) OrderRepository {
	return &orderRepository{db: db}
}

const orderSelect = `
	SELECT o.id, o.customer_id, o.product_id, o.quantity, o.status, o.created_at, o.updated_at,
	       p.name, u.username
	FROM orders o
	JOIN products p ON p.id = o.product_id
	JOIN users u ON u.id = o.customer_id
`

func scanOrder(row rowScanner) (*domain.Order, error) {
	order := &domain.Order{}
	err := row.Scan(
		&order.ID,
		&order.CustomerID,
		&order.ProductID,
		&order.Quantity,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.ProductName,
		&order.CustomerUsername,
	)
	return order, err
}

// Create inserts a new order using parameterized queries
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, customer_id, product_id, quantity, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		order.ID,
		order.CustomerID,
		order.ProductID,
		order.Quantity,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return r.findOne(ctx, orderSelect+` WHERE o.id = $1`, id)
}

func (r *orderRepository) FindForCustomer(ctx context.Context, id, customerID uuid.UUID) (*domain.Order, error) {
	return r.findOne(ctx, orderSelect+` WHERE o.id = $1 AND o.customer_id = $2`, id, customerID)
}

func (r *orderRepository) findOne(ctx context.Context, query string, args ...interface{}) (*domain.Order, error) {
	order, err := scanOrder(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	return order, nil
}

func (r *orderRepository) ListAll(ctx context.Context, status *domain.OrderStatus) ([]*domain.Order, error) {
	if status != nil {
		return r.list(ctx, orderSelect+` WHERE o.status = $1 ORDER BY o.created_at DESC, o.id`, *status)
	}
	return r.list(ctx, orderSelect+` ORDER BY o.created_at DESC, o.id`)
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error) {
	return r.list(ctx, orderSelect+` WHERE o.customer_id = $1 ORDER BY o.created_at DESC, o.id`, customerID)
}

func (r *orderRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus sets the status regardless of the current one
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// BulkUpdateStatus silently skips ids that do not exist
func (r *orderRepository) BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status domain.OrderStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = ANY($3::uuid[])
	`

	result, err := r.db.ExecContext(ctx, query, status, time.Now(), idStrings)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
