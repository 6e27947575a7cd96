package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository/memory"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const testCookieName = "storefront_session"

var testSessionCookie = middleware.SessionCookie{Name: testCookieName}

type testApp struct {
	store   *memory.Store
	auth    service.AuthService
	catalog service.CatalogService
	carts   service.CartService
	orders  service.OrderService
	router  http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	logger := zap.NewNop()
	store := memory.NewStore()
	repos := store.Repositories()

	app := &testApp{
		store:   store,
		auth:    service.NewAuthService(repos.Users, repos.Sessions, "test-secret", 0, logger),
		catalog: service.NewCatalogService(repos.Products, logger),
		carts:   service.NewCartService(repos.Carts, repos.Products, logger),
		orders:  service.NewOrderService(store.Transactor(), repos.Carts, repos.Orders, logger),
	}
	ratings := service.NewRatingService(repos.Ratings, repos.Products, logger)

	renderer, err := NewRenderer(logger)
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.SessionMiddleware(app.auth, testSessionCookie, logger))

	noLimit := func(next http.Handler) http.Handler { return next }
	NewAuthHandler(app.auth, app.catalog, testSessionCookie, renderer, logger).RegisterRoutes(r, noLimit)
	NewAdminHandler(app.catalog, app.orders, renderer, logger).RegisterRoutes(r)
	NewCustomerHandler(app.catalog, app.carts, app.orders, ratings, renderer, logger).RegisterRoutes(r)

	app.router = r
	return app
}

// do sends a request, posting form when it is not nil
func (a *testApp) do(method, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// signIn creates a user with the given role and returns its session cookie
func (a *testApp) signIn(t *testing.T, username string, role domain.Role) (*domain.User, *http.Cookie) {
	t.Helper()
	ctx := context.Background()

	input := service.RegisterInput{Username: username, Email: username + "@example.com", Password: "password123"}
	var (
		user *domain.User
		err  error
	)
	if role == domain.RoleStaff {
		user, err = a.auth.EnsureStaff(ctx, input)
	} else {
		user, err = a.auth.Register(ctx, input)
	}
	if err != nil {
		t.Fatalf("failed to create %s: %v", username, err)
	}

	token, err := a.auth.StartSession(ctx, user)
	if err != nil {
		t.Fatalf("failed to start session: %v", err)
	}
	return user, &http.Cookie{Name: testCookieName, Value: token.Value}
}

func (a *testApp) product(t *testing.T, name, price string) *domain.Product {
	t.Helper()
	product, err := a.catalog.Create(context.Background(), domain.Product{
		Name:  name,
		Price: decimal.RequireFromString(price),
	})
	if err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	return product
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == testCookieName {
			return cookie
		}
	}
	return nil
}

func assertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Location"); got != location {
		t.Fatalf("expected redirect to %s, got %s", location, got)
	}
}

func addressForm() url.Values {
	return url.Values{
		"address_line1": {"1 Main St"},
		"city":          {"Springfield"},
		"state":         {"IL"},
		"zip_code":      {"62701"},
		"country":       {"US"},
	}
}
