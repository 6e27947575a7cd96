package repository

import (
	"context"
	"fmt"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

// RatingRepository defines the interface for rating data access
type RatingRepository interface {
	Create(ctx context.Context, rating *domain.Rating) error
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Rating, error)
}

type ratingRepository struct {
	db DBTX
}

// NewRatingRepository creates a new instance of RatingRepository
func NewRatingRepository(db DBTX) RatingRepository {
	return &ratingRepository{db: db}
}

// Create appends a rating. Repeat ratings by the same customer are kept.
func (r *ratingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	query := `
		INSERT INTO ratings (id, customer_id, product_id, rating, review, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		rating.ID,
		rating.CustomerID,
		rating.ProductID,
		rating.Rating,
		rating.Review,
		rating.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create rating: %w", err)
	}

	return nil
}

// ListByProduct retrieves a product's ratings, newest first
func (r *ratingRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Rating, error) {
	query := `
		SELECT id, customer_id, product_id, rating, review, created_at
		FROM ratings
		WHERE product_id = $1
		ORDER BY created_at DESC, id
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer rows.Close()

	ratings := []*domain.Rating{}
	for rows.Next() {
		rating := &domain.Rating{}
		err := rows.Scan(
			&rating.ID,
			&rating.CustomerID,
			&rating.ProductID,
			&rating.Rating,
			&rating.Review,
			&rating.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}

	return ratings, nil
}
