package service

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestCatalog_CRUD(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created := f.product(t, "Lamp", "19.99")

	got, err := f.catalog.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.Price.Equal(decimal.RequireFromString("19.99")) {
		t.Errorf("expected price 19.99, got %s", got.Price)
	}

	updated, err := f.catalog.Update(ctx, created.ID, domain.Product{
		Name:        "Desk Lamp",
		Description: "brighter",
		Price:       decimal.RequireFromString("24.50"),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "Desk Lamp" || !updated.Price.Equal(decimal.RequireFromString("24.5")) {
		t.Errorf("unexpected update result: %+v", updated)
	}

	products, err := f.catalog.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Desk Lamp" {
		t.Errorf("expected the updated product in the list, got %+v", products)
	}

	if err := f.catalog.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := f.catalog.Get(ctx, created.ID); !errors.Is(err, repository.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound after delete, got %v", err)
	}
}

func TestCatalog_MissingProduct(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	missing := uuid.New()

	if _, err := f.catalog.Update(ctx, missing, domain.Product{Name: "x", Price: decimal.Zero}); !errors.Is(err, repository.ErrProductNotFound) {
		t.Errorf("Update: expected ErrProductNotFound, got %v", err)
	}
	if err := f.catalog.Delete(ctx, missing); !errors.Is(err, repository.ErrProductNotFound) {
		t.Errorf("Delete: expected ErrProductNotFound, got %v", err)
	}
}

func TestCatalog_NegativePrice(t *testing.T) {
	f := newFixture()
	_, err := f.catalog.Create(context.Background(), domain.Product{Name: "x", Price: decimal.NewFromInt(-1)})
	if !errors.Is(err, ErrNegativePrice) {
		t.Errorf("expected ErrNegativePrice, got %v", err)
	}
	if got := f.store.Count("products"); got != 0 {
		t.Errorf("expected no products, got %d", got)
	}
}

func TestCatalog_DeleteCascades(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	customer := f.customer(t, "erin")
	product := f.product(t, "Mug", "5.00")

	if _, err := f.carts.AddToCart(ctx, customer.ID, product.ID); err != nil {
		t.Fatalf("AddToCart failed: %v", err)
	}
	if _, err := f.ratings.Rate(ctx, customer.ID, product.ID, 4, ""); err != nil {
		t.Fatalf("Rate failed: %v", err)
	}

	if err := f.catalog.Delete(ctx, product.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	for _, table := range []string{"cart_items", "ratings", "orders"} {
		if got := f.store.Count(table); got != 0 {
			t.Errorf("expected %s to be empty after delete, got %d", table, got)
		}
	}
}
