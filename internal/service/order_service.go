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
	ErrInvalidStatus = errors.New("invalid order status")
)

// BulkStatuses are the targets offered as batch actions
var BulkStatuses = []domain.OrderStatus{
	domain.OrderStatusApproved,
	domain.OrderStatusShipped,
	domain.OrderStatusDelivered,
}

// OrderService covers checkout and the order status workflow
type OrderService interface {
	// EnsureCheckout fails with repository.ErrCartNotFound when the customer has no cart
	EnsureCheckout(ctx context.Context, customerID uuid.UUID) error
	// PlaceOrder atomically saves the address, clears the cart and writes one order per removed line
	PlaceOrder(ctx context.Context, customerID uuid.UUID, address domain.Address) ([]*domain.Order, error)
	ListAll(ctx context.Context, status *domain.OrderStatus) ([]*domain.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error)
	GetForCustomer(ctx context.Context, id, customerID uuid.UUID) (*domain.Order, error)
	// UpdateStatus allows any transition between enum values
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
	BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status domain.OrderStatus) (int64, error)
}

type orderService struct {
	tx        repository.Transactor
	cartRepo  repository.CartRepository
	orderRepo repository.OrderRepository
	logger    *zap.Logger
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	tx repository.Transactor,
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	logger *zap.Logger,
) OrderService {
	return &orderService{tx: tx, cartRepo: cartRepo, orderRepo: orderRepo, logger: logger}
}

func (s *orderService) EnsureCheckout(ctx context.Context, customerID uuid.UUID) error {
	_, err := s.cartRepo.FindByCustomer(ctx, customerID)
	return err
}

func (s *orderService) PlaceOrder(ctx context.Context, customerID uuid.UUID, address domain.Address) ([]*domain.Order, error) {
	var orders []*domain.Order

	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		cart, err := repos.Carts.FindByCustomer(ctx, customerID)
		if err != nil {
			return err
		}

		now := time.Now()

		address.ID = uuid.New()
		address.CustomerID = customerID
		address.CreatedAt = now
		if err := repos.Addresses.Create(ctx, &address); err != nil {
			return fmt.Errorf("failed to save address: %w", err)
		}

		// Orders come from the lines actually removed, so an add racing the
		// checkout either lands in an order or stays in the cart
		items, err := repos.Carts.TakeItems(ctx, cart.ID)
		if err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}

		orders = make([]*domain.Order, 0, len(items))
		for _, item := range items {
			order := &domain.Order{
				ID:          uuid.New(),
				CustomerID:  customerID,
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				Status:      domain.OrderStatuses[0],
				CreatedAt:   now,
				UpdatedAt:   now,
				ProductName: item.Product.Name,
			}
			if err := repos.Orders.Create(ctx, order); err != nil {
				return fmt.Errorf("failed to create order: %w", err)
			}
			orders = append(orders, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.String("customer_id", customerID.String()),
		zap.Int("orders", len(orders)),
	)
	return orders, nil
}

func (s *orderService) ListAll(ctx context.Context, status *domain.OrderStatus) ([]*domain.Order, error) {
	if status != nil && !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	orders, err := s.orderRepo.ListAll(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

func (s *orderService) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error) {
	orders, err := s.orderRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetForCustomer reports another customer's order as not found
func (s *orderService) GetForCustomer(ctx context.Context, id, customerID uuid.UUID) (*domain.Order, error) {
	return s.orderRepo.FindForCustomer(ctx, id, customerID)
}

func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", id.String()),
		zap.String("status", string(status)),
	)
	return s.orderRepo.FindByID(ctx, id)
}

func (s *orderService) BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status domain.OrderStatus) (int64, error) {
	allowed := false
	for _, candidate := range BulkStatuses {
		if status == candidate {
			allowed = true
			break
		}
	}
	if !allowed {
		return 0, ErrInvalidStatus
	}

	updated, err := s.orderRepo.BulkUpdateStatus(ctx, ids, status)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update orders: %w", err)
	}

	s.logger.Info("Orders bulk updated",
		zap.Int("selected", len(ids)),
		zap.Int64("updated", updated),
		zap.String("status", string(status)),
	)
	return updated, nil
}
