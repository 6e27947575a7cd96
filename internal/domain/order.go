package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle label of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusApproved  OrderStatus = "Approved"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
)

// OrderStatuses lists every status in display order. The first entry is the
// status assigned at checkout.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusApproved,
	OrderStatusShipped,
	OrderStatusDelivered,
}

// IsValid reports whether s belongs to the status enum
func (s OrderStatus) IsValid() bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Order is one purchased cart line. Checkout writes one order per cart line.
type Order struct {
	ID         uuid.UUID   `json:"id" db:"id"`
	CustomerID uuid.UUID   `json:"customer_id" db:"customer_id"`
	ProductID  uuid.UUID   `json:"product_id" db:"product_id"`
	Quantity   int         `json:"quantity" db:"quantity"`
	Status     OrderStatus `json:"status" db:"status"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`

	// Populated by list queries for display
	ProductName      string `json:"product_name,omitempty" db:"-"`
	CustomerUsername string `json:"customer_username,omitempty" db:"-"`
}
