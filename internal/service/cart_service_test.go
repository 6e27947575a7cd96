package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

// Feature: storefront, Property 22: Cart lines accumulate per product
func TestProperty_AddToCartAccumulates(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("n adds of one product give one line of quantity n", prop.ForAll(
		func(adds []int) bool {
			f := newFixture()
			ctx := context.Background()
			customer := f.customer(t, "frank")
			products := []uuid.UUID{
				f.product(t, "A", "1.10").ID,
				f.product(t, "B", "2.20").ID,
				f.product(t, "C", "0.70").ID,
			}

			want := map[uuid.UUID]int{}
			for _, index := range adds {
				id := products[index]
				if _, err := f.carts.AddToCart(ctx, customer.ID, id); err != nil {
					t.Logf("FAIL: AddToCart: %v", err)
					return false
				}
				want[id]++
			}

			view, err := f.carts.ViewCart(ctx, customer.ID)
			if err != nil {
				t.Logf("FAIL: ViewCart: %v", err)
				return false
			}

			if len(view.Items) != len(want) {
				t.Logf("FAIL: expected %d lines, got %d", len(want), len(view.Items))
				return false
			}

			total := decimal.Zero
			for _, item := range view.Items {
				if item.Quantity != want[item.ProductID] {
					t.Logf("FAIL: product %s quantity %d, want %d", item.ProductID, item.Quantity, want[item.ProductID])
					return false
				}
				total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			}

			if !view.Total.Equal(total) {
				t.Logf("FAIL: total %s, want %s", view.Total, total)
				return false
			}
			return f.store.Count("carts") <= 1
		},
		gen.SliceOf(gen.IntRange(0, 2)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestViewCart_NoCart(t *testing.T) {
	f := newFixture()

	view, err := f.carts.ViewCart(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ViewCart failed: %v", err)
	}
	if view.Cart != nil || len(view.Items) != 0 || !view.Total.IsZero() {
		t.Errorf("expected an empty view, got %+v", view)
	}
	if got := f.store.Count("carts"); got != 0 {
		t.Errorf("ViewCart must not create a cart, got %d", got)
	}
}

func TestAddToCart_MissingProduct(t *testing.T) {
	f := newFixture()
	customer := f.customer(t, "gina")

	_, err := f.carts.AddToCart(context.Background(), customer.ID, uuid.New())
	if !errors.Is(err, repository.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if got := f.store.Count("carts"); got != 0 {
		t.Errorf("expected no cart to be created, got %d", got)
	}
}

func TestAddToCart_Concurrent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	customer := f.customer(t, "hank")
	product := f.product(t, "Pen", "1.00")

	const adds = 25
	var wg sync.WaitGroup
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.carts.AddToCart(ctx, customer.ID, product.ID); err != nil {
				t.Errorf("AddToCart failed: %v", err)
			}
		}()
	}
	wg.Wait()

	view, err := f.carts.ViewCart(ctx, customer.ID)
	if err != nil {
		t.Fatalf("ViewCart failed: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != adds {
		t.Errorf("expected one line of quantity %d, got %+v", adds, view.Items)
	}
	if got := f.store.Count("carts"); got != 1 {
		t.Errorf("expected one cart, got %d", got)
	}
}
