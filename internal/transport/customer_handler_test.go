package transport

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestCustomer_RequiresLogin(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{
		"/customer/home/",
		"/customer/view_cart/",
		"/customer/place_order/",
		"/customer/view_orders/",
	} {
		assertRedirect(t, app.do(http.MethodGet, path, nil, nil), "/login/")
	}
}

func TestViewCart_WithoutCart(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.signIn(t, "hank", domain.RoleCustomer)

	w := app.do(http.MethodGet, "/customer/view_cart/", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Your cart is empty.") || !strings.Contains(w.Body.String(), "0.00") {
		t.Errorf("expected an empty cart with a zero total")
	}
	if app.store.Count("carts") != 0 {
		t.Error("viewing must not create a cart")
	}
}

// Feature: storefront, Property 9: Posting add-to-cart N times yields quantity N
func TestProperty_AddToCartRoute(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 10
	properties := gopter.NewProperties(parameters)

	properties.Property("one line with quantity n", prop.ForAll(
		func(n int) bool {
			app := newTestApp(t)
			customer, cookie := app.signIn(t, "ivy", domain.RoleCustomer)
			product := app.product(t, "Cup", "2.35")

			for i := 0; i < n; i++ {
				w := app.do(http.MethodPost, "/customer/add_to_cart/"+product.ID.String()+"/", url.Values{}, cookie)
				if w.Code != http.StatusFound || w.Header().Get("Location") != cartPath {
					return false
				}
			}

			view, err := app.carts.ViewCart(context.Background(), customer.ID)
			return err == nil &&
				len(view.Items) == 1 &&
				view.Items[0].Quantity == n
		},
		gen.IntRange(1, 8),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAddToCart_MissingProduct(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.signIn(t, "jack", domain.RoleCustomer)

	if w := app.do(http.MethodPost, "/customer/add_to_cart/"+uuid.New().String()+"/", url.Values{}, cookie); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestCheckout(t *testing.T) {
	app := newTestApp(t)
	customer, cookie := app.signIn(t, "kate", domain.RoleCustomer)
	first := app.product(t, "Fork", "1.25")
	second := app.product(t, "Knife", "2.50")

	// No cart yet
	if w := app.do(http.MethodGet, "/customer/place_order/", nil, cookie); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without a cart, got %d", w.Code)
	}
	if w := app.do(http.MethodPost, "/customer/place_order/", addressForm(), cookie); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without a cart, got %d", w.Code)
	}
	if app.store.Count("addresses") != 0 {
		t.Fatal("address saved without a cart")
	}

	for _, id := range []uuid.UUID{first.ID, first.ID, second.ID} {
		app.do(http.MethodPost, "/customer/add_to_cart/"+id.String()+"/", url.Values{}, cookie)
	}

	cart := app.do(http.MethodGet, "/customer/view_cart/", nil, cookie)
	if !strings.Contains(cart.Body.String(), "5.00") {
		t.Errorf("expected a total of 5.00 in the cart page")
	}

	if w := app.do(http.MethodGet, "/customer/place_order/", nil, cookie); w.Code != http.StatusOK {
		t.Fatalf("expected the checkout form, got %d", w.Code)
	}

	invalid := addressForm()
	invalid.Del("city")
	if w := app.do(http.MethodPost, "/customer/place_order/", invalid, cookie); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a missing city, got %d", w.Code)
	}
	if app.store.Count("orders") != 0 {
		t.Fatal("orders created from an invalid form")
	}

	assertRedirect(t, app.do(http.MethodPost, "/customer/place_order/", addressForm(), cookie), customerOrdersPath)

	orders, err := app.orders.ListForCustomer(context.Background(), customer.ID)
	if err != nil {
		t.Fatalf("ListForCustomer failed: %v", err)
	}
	quantities := map[uuid.UUID]int{}
	for _, o := range orders {
		quantities[o.ProductID] = o.Quantity
		if o.Status != domain.OrderStatusPending {
			t.Errorf("expected new orders to be Pending, got %s", o.Status)
		}
	}
	if len(orders) != 2 || quantities[first.ID] != 2 || quantities[second.ID] != 1 {
		t.Errorf("expected Fork:2 and Knife:1, got %v", quantities)
	}
	if app.store.Count("cart_items") != 0 {
		t.Error("expected the cart to be emptied")
	}

	w := app.do(http.MethodGet, "/customer/view_orders/", nil, cookie)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Knife") {
		t.Errorf("expected the order list to show the new orders")
	}
}

func TestOrderDetail_ScopedToOwner(t *testing.T) {
	app := newTestApp(t)
	owner, ownerCookie := app.signIn(t, "liam", domain.RoleCustomer)
	_, otherCookie := app.signIn(t, "mia", domain.RoleCustomer)
	order := placeOrders(t, app, owner, app.product(t, "Plate", "4.00"))[0]
	path := "/customer/order/" + order.ID.String() + "/"

	w := app.do(http.MethodGet, path, nil, ownerCookie)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Plate") {
		t.Errorf("expected the owner to see the order, got %d", w.Code)
	}

	if w := app.do(http.MethodGet, path, nil, otherCookie); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for another customer, got %d", w.Code)
	}
	if w := app.do(http.MethodGet, "/customer/order/42/", nil, ownerCookie); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a malformed id, got %d", w.Code)
	}
}

func TestRateProduct(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.signIn(t, "noah", domain.RoleCustomer)
	product := app.product(t, "Bowl", "6.00")
	path := "/customer/rate_product/" + product.ID.String() + "/"

	if w := app.do(http.MethodGet, path, nil, cookie); w.Code != http.StatusOK {
		t.Fatalf("expected the rating form, got %d", w.Code)
	}

	if w := app.do(http.MethodPost, path, url.Values{"rating": {"9"}}, cookie); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an out of range score, got %d", w.Code)
	}

	for _, score := range []string{"5", "4", "4"} {
		assertRedirect(t, app.do(http.MethodPost, path, url.Values{"rating": {score}, "review": {"nice"}}, cookie), CustomerHomePath)
	}

	home := app.do(http.MethodGet, "/customer/home/", nil, cookie)
	if !strings.Contains(home.Body.String(), "4.33 (3)") {
		t.Errorf("expected the average rating 4.33 over 3 ratings on the home page")
	}

	missing := "/customer/rate_product/" + uuid.New().String() + "/"
	if w := app.do(http.MethodPost, missing, url.Values{"rating": {"3"}}, cookie); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a missing product, got %d", w.Code)
	}
}

func TestDeleteProduct_CascadesThroughRoutes(t *testing.T) {
	app := newTestApp(t)
	_, staff := app.signIn(t, "boss", domain.RoleStaff)
	customer, cookie := app.signIn(t, "olga", domain.RoleCustomer)
	ordered := app.product(t, "Vase", "15.00")
	carted := app.product(t, "Frame", "8.00")

	placeOrders(t, app, customer, ordered)
	app.do(http.MethodPost, "/customer/add_to_cart/"+carted.ID.String()+"/", url.Values{}, cookie)
	app.do(http.MethodPost, "/customer/rate_product/"+ordered.ID.String()+"/", url.Values{"rating": {"2"}}, cookie)

	for _, p := range []*domain.Product{ordered, carted} {
		assertRedirect(t, app.do(http.MethodPost, "/admin_home/delete_product/"+p.ID.String()+"/", url.Values{}, staff), AdminHomePath)
	}

	for _, table := range []string{"orders", "cart_items", "ratings"} {
		if got := app.store.Count(table); got != 0 {
			t.Errorf("expected no %s to reference deleted products, got %d", table, got)
		}
	}

	if w := app.do(http.MethodGet, "/customer/view_orders/", nil, cookie); w.Code != http.StatusOK {
		t.Errorf("order history should still render, got %d", w.Code)
	}
}
