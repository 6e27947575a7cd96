package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog
type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`

	// AverageRating is the mean of all ratings for the product, nil when unrated.
	// It is aggregated at read time and never stored.
	AverageRating *decimal.Decimal `json:"average_rating,omitempty" db:"-"`
	RatingCount   int              `json:"rating_count" db:"-"`
}
