package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Rating is a customer's score and review for a product
type Rating struct {
	ID         uuid.UUID `json:"id" db:"id"`
	CustomerID uuid.UUID `json:"customer_id" db:"customer_id"`
	ProductID  uuid.UUID `json:"product_id" db:"product_id"`
	Rating     int       `json:"rating" db:"rating"`
	Review     string    `json:"review" db:"review"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
