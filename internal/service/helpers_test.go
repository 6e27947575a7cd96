package service

import (
	"context"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type fixture struct {
	store   *memory.Store
	auth    AuthService
	catalog CatalogService
	carts   CartService
	orders  OrderService
	ratings RatingService
}

func newFixture() *fixture {
	store := memory.NewStore()
	repos := store.Repositories()
	logger := zap.NewNop()

	return &fixture{
		store:   store,
		auth:    NewAuthService(repos.Users, repos.Sessions, "test-secret", 0, logger),
		catalog: NewCatalogService(repos.Products, logger),
		carts:   NewCartService(repos.Carts, repos.Products, logger),
		orders:  NewOrderService(store.Transactor(), repos.Carts, repos.Orders, logger),
		ratings: NewRatingService(repos.Ratings, repos.Products, logger),
	}
}

func (f *fixture) product(t *testing.T, name, price string) *domain.Product {
	t.Helper()
	product, err := f.catalog.Create(context.Background(), domain.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
	})
	if err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	return product
}

func (f *fixture) customer(t *testing.T, username string) *domain.User {
	t.Helper()
	storeUser := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         domain.RoleCustomer,
	}
	if err := f.store.Repositories().Users.Create(context.Background(), storeUser); err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}
	return storeUser
}

func testAddress() domain.Address {
	return domain.Address{
		AddressLine1: "1 Main St",
		City:         "Springfield",
		State:        "IL",
		ZipCode:      "62701",
		Country:      "US",
	}
}
