package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the single shopping cart owned by a customer
type Cart struct {
	ID         uuid.UUID `json:"id" db:"id"`
	CustomerID uuid.UUID `json:"customer_id" db:"customer_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// CartItem is one (product, quantity) line within a cart
type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CartID    uuid.UUID `json:"cart_id" db:"cart_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Product   Product   `json:"product" db:"-"`
}

// Subtotal returns price * quantity for the line
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartView is a cart as presented to its owner. Cart is nil when the
// customer has never added anything.
type CartView struct {
	Cart  *Cart           `json:"cart,omitempty"`
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// CartTotal sums every line subtotal using exact decimal arithmetic
func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
