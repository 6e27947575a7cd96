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
	ErrCartNotFound = errors.New("cart not found")
)

// CartRepository defines the interface for cart and cart line data access
type CartRepository interface {
	// GetOrCreate returns the customer's cart, creating it on first use
	GetOrCreate(ctx context.Context, customerID uuid.UUID) (*domain.Cart, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) (*domain.Cart, error)
	// IncrementItem adds delta units of a product to the cart, creating the line if needed
	IncrementItem(ctx context.Context, cartID, productID uuid.UUID, delta int) (*domain.CartItem, error)
	ListItems(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error)
	// TakeItems deletes every line of the cart and returns the deleted lines.
	// The cart row is kept.
	TakeItems(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error)
}

type cartRepository struct {
	db DBTX
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(db DBTX) CartRepository {
	return &cartRepository{db: db}
}

// GetOrCreate relies on the unique customer_id constraint so that concurrent
// first adds converge on the same cart row
func (r *cartRepository) GetOrCreate(ctx context.Context, customerID uuid.UUID) (*domain.Cart, error) {
	query := `
		INSERT INTO carts (id, customer_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (customer_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, uuid.New(), customerID, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	return r.FindByCustomer(ctx, customerID)
}

// FindByCustomer retrieves the customer's cart using parameterized queries
func (r *cartRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) (*domain.Cart, error) {
	query := `
		SELECT id, customer_id, created_at
		FROM carts
		WHERE customer_id = $1
	`

	cart := &domain.Cart{}
	err := r.db.QueryRowContext(ctx, query, customerID).Scan(
		&cart.ID,
		&cart.CustomerID,
		&cart.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}

	return cart, nil
}

// IncrementItem performs the get-or-create and the increment in one statement,
// so concurrent adds of the same product never lose an update
func (r *cartRepository) IncrementItem(ctx context.Context, cartID, productID uuid.UUID, delta int) (*domain.CartItem, error) {
	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, cart_id, product_id, quantity
	`

	item := &domain.CartItem{}
	err := r.db.QueryRowContext(ctx, query, uuid.New(), cartID, productID, delta).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to increment cart item: %w", err)
	}

	return item, nil
}

// ListItems retrieves every line of the cart with its product
func (r *cartRepository) ListItems(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error) {
	query := `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity,
		       p.id, p.name, p.description, p.price, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY p.name ASC, ci.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	return scanCartItems(rows)
}

// TakeItems builds from the rows the DELETE actually removed. Lines that a
// concurrent add commits after the statement starts stay in the cart, and a
// line bumped before it is returned with its latest quantity.
func (r *cartRepository) TakeItems(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error) {
	query := `
		WITH taken AS (
			DELETE FROM cart_items
			WHERE cart_id = $1
			RETURNING id, cart_id, product_id, quantity
		)
		SELECT t.id, t.cart_id, t.product_id, t.quantity,
		       p.id, p.name, p.description, p.price, p.created_at, p.updated_at
		FROM taken t
		JOIN products p ON p.id = t.product_id
		ORDER BY p.name ASC, t.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to take cart items: %w", err)
	}
	defer rows.Close()

	return scanCartItems(rows)
}

func scanCartItems(rows *sql.Rows) ([]domain.CartItem, error) {
	items := []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.Quantity,
			&item.Product.ID,
			&item.Product.Name,
			&item.Product.Description,
			&item.Product.Price,
			&item.Product.CreatedAt,
			&item.Product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}
