package transport

import (
	"errors"
	"net/http"

	"storefront/internal/forms"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	cartPath           = "/customer/view_cart/"
	customerOrdersPath = "/customer/view_orders/"
)

// CustomerHandler serves shopping, checkout, order history and ratings
type CustomerHandler struct {
	responder
	catalogService service.CatalogService
	cartService    service.CartService
	orderService   service.OrderService
	ratingService  service.RatingService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(
	catalogService service.CatalogService,
	cartService service.CartService,
	orderService service.OrderService,
	ratingService service.RatingService,
	renderer *Renderer,
	logger *zap.Logger,
) *CustomerHandler {
	return &CustomerHandler{
		responder:      responder{renderer: renderer, logger: logger},
		catalogService: catalogService,
		cartService:    cartService,
		orderService:   orderService,
		ratingService:  ratingService,
	}
}

// RegisterRoutes registers the customer routes behind RequireAuthenticated
func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Route("/customer", func(r chi.Router) {
		r.Use(middleware.RequireAuthenticated(h.logger))

		r.Get("/home/", h.Home)
		r.Post("/add_to_cart/{product_id}/", h.AddToCart)
		r.Get("/view_cart/", h.ViewCart)
		r.Get("/place_order/", h.PlaceOrderForm)
		r.Post("/place_order/", h.PlaceOrder)
		r.Get("/view_orders/", h.ListOrders)
		r.Get("/order/{id}/", h.OrderDetail)
		r.Get("/rate_product/{product_id}/", h.RateProductForm)
		r.Post("/rate_product/{product_id}/", h.RateProduct)
	})
}

func (h *CustomerHandler) Home(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.List(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to list products")
		return
	}

	h.render(w, r, http.StatusOK, "customer_home", Page{Title: "Shop", Data: products})
}

func (h *CustomerHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "product_id")
	if !ok {
		return
	}

	identity := middleware.GetIdentity(r.Context())
	if _, err := h.cartService.AddToCart(r.Context(), identity.UserID, productID); err != nil {
		h.fail(w, r, err, "Failed to add to cart")
		return
	}

	redirect(w, r, cartPath)
}

func (h *CustomerHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	view, err := h.cartService.ViewCart(r.Context(), identity.UserID)
	if err != nil {
		h.fail(w, r, err, "Failed to load cart")
		return
	}

	h.render(w, r, http.StatusOK, "cart", Page{Title: "Your cart", Data: view})
}

// PlaceOrderForm is only available to customers that have a cart
func (h *CustomerHandler) PlaceOrderForm(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if err := h.orderService.EnsureCheckout(r.Context(), identity.UserID); err != nil {
		h.fail(w, r, err, "Failed to load cart")
		return
	}

	h.render(w, r, http.StatusOK, "place_order", Page{Title: "Checkout"})
}

func (h *CustomerHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if err := h.orderService.EnsureCheckout(r.Context(), identity.UserID); err != nil {
		h.fail(w, r, err, "Failed to load cart")
		return
	}

	if err := r.ParseForm(); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid form")
		return
	}

	address, errs := forms.ValidateAddress(r.PostForm)
	if !errs.Valid() {
		h.render(w, r, http.StatusBadRequest, "place_order", Page{Title: "Checkout", Form: r.PostForm, Errors: errs})
		return
	}

	if _, err := h.orderService.PlaceOrder(r.Context(), identity.UserID, address); err != nil {
		h.fail(w, r, err, "Failed to place order")
		return
	}

	redirect(w, r, customerOrdersPath)
}

func (h *CustomerHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	orders, err := h.orderService.ListForCustomer(r.Context(), identity.UserID)
	if err != nil {
		h.fail(w, r, err, "Failed to list orders")
		return
	}

	h.render(w, r, http.StatusOK, "customer_orders", Page{Title: "Your orders", Data: orders})
}

// OrderDetail answers 404 for orders that belong to someone else
func (h *CustomerHandler) OrderDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	identity := middleware.GetIdentity(r.Context())
	order, err := h.orderService.GetForCustomer(r.Context(), id, identity.UserID)
	if err != nil {
		h.fail(w, r, err, "Failed to load order")
		return
	}

	h.render(w, r, http.StatusOK, "order_detail", Page{Title: "Order details", Data: order})
}

func (h *CustomerHandler) RateProductForm(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "product_id")
	if !ok {
		return
	}

	product, err := h.catalogService.Get(r.Context(), productID)
	if err != nil {
		h.fail(w, r, err, "Failed to load product")
		return
	}

	h.render(w, r, http.StatusOK, "rate_product", Page{Title: "Rate " + product.Name, Data: product})
}

func (h *CustomerHandler) RateProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "product_id")
	if !ok {
		return
	}

	product, err := h.catalogService.Get(r.Context(), productID)
	if err != nil {
		h.fail(w, r, err, "Failed to load product")
		return
	}

	if err := r.ParseForm(); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid form")
		return
	}

	input, errs := forms.ValidateRating(r.PostForm)
	if !errs.Valid() {
		h.render(w, r, http.StatusBadRequest, "rate_product", Page{
			Title:  "Rate " + product.Name,
			Form:   r.PostForm,
			Errors: errs,
			Data:   product,
		})
		return
	}

	identity := middleware.GetIdentity(r.Context())
	if _, err := h.ratingService.Rate(r.Context(), identity.UserID, productID, input.Rating, input.Review); err != nil {
		if errors.Is(err, service.ErrInvalidRating) {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid rating")
			return
		}
		h.fail(w, r, err, "Failed to rate product")
		return
	}

	redirect(w, r, CustomerHomePath)
}
