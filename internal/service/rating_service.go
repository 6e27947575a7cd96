package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidRating = errors.New("rating out of range")
)

// RatingService records product ratings
type RatingService interface {
	// Rate appends a rating; there is no purchase check and no per-customer limit
	Rate(ctx context.Context, customerID, productID uuid.UUID, score int, review string) (*domain.Rating, error)
	ListForProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Rating, error)
}

type ratingService struct {
	ratingRepo  repository.RatingRepository
	productRepo repository.ProductRepository
	logger      *zap.Logger
}

// NewRatingService creates a new instance of RatingService
func NewRatingService(ratingRepo repository.RatingRepository, productRepo repository.ProductRepository, logger *zap.Logger) RatingService {
	return &ratingService{ratingRepo: ratingRepo, productRepo: productRepo, logger: logger}
}

func (s *ratingService) Rate(ctx context.Context, customerID, productID uuid.UUID, score int, review string) (*domain.Rating, error) {
	if score < domain.MinRating || score > domain.MaxRating {
		return nil, ErrInvalidRating
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	rating := &domain.Rating{
		ID:         uuid.New(),
		CustomerID: customerID,
		ProductID:  productID,
		Rating:     score,
		Review:     review,
		CreatedAt:  time.Now(),
	}

	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		return nil, fmt.Errorf("failed to create rating: %w", err)
	}

	s.logger.Info("Product rated",
		zap.String("product_id", productID.String()),
		zap.Int("rating", score),
	)
	return rating, nil
}

func (s *ratingService) ListForProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Rating, error) {
	ratings, err := s.ratingRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	return ratings, nil
}
