package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartService manages the per-customer cart
type CartService interface {
	// AddToCart adds one unit of the product; repeated calls accumulate
	AddToCart(ctx context.Context, customerID, productID uuid.UUID) (*domain.CartItem, error)
	// ViewCart never fails for a customer without a cart
	ViewCart(ctx context.Context, customerID uuid.UUID) (*domain.CartView, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      *zap.Logger
}

// NewCartService creates a new instance of CartService
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, logger *zap.Logger) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo, logger: logger}
}

func (s *cartService) AddToCart(ctx context.Context, customerID, productID uuid.UUID) (*domain.CartItem, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	item, err := s.cartRepo.IncrementItem(ctx, cart.ID, product.ID, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}
	item.Product = *product

	s.logger.Debug("Added to cart",
		zap.String("customer_id", customerID.String()),
		zap.String("product_id", productID.String()),
		zap.Int("quantity", item.Quantity),
	)
	return item, nil
}

func (s *cartService) ViewCart(ctx context.Context, customerID uuid.UUID) (*domain.CartView, error) {
	cart, err := s.cartRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return &domain.CartView{Items: []domain.CartItem{}, Total: domain.CartTotal(nil)}, nil
		}
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}

	items, err := s.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}

	return &domain.CartView{Cart: cart, Items: items, Total: domain.CartTotal(items)}, nil
}
