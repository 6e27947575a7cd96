package transport

import (
	"errors"
	"net/http"
	"net/url"

	"storefront/internal/domain"
	"storefront/internal/forms"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const adminOrdersPath = "/admin_home/view_orders/"

// AdminHandler serves catalog management and the order workflow for staff
type AdminHandler struct {
	responder
	catalogService service.CatalogService
	orderService   service.OrderService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	catalogService service.CatalogService,
	orderService service.OrderService,
	renderer *Renderer,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		responder:      responder{renderer: renderer, logger: logger},
		catalogService: catalogService,
		orderService:   orderService,
	}
}

// RegisterRoutes registers the staff routes behind RequireStaff
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireStaff(h.logger))

		r.Route("/admin_home", func(r chi.Router) {
			r.Get("/", h.Home)
			r.Get("/view_all_products/", h.ListProducts)
			r.Get("/add_product/", h.AddProductForm)
			r.Post("/add_product/", h.AddProduct)
			r.Get("/edit_product/{id}/", h.EditProductForm)
			r.Post("/edit_product/{id}/", h.EditProduct)
			r.Post("/delete_product/{id}/", h.DeleteProduct)
			r.Get("/view_orders/", h.ListOrders)
			r.Post("/view_orders/bulk_status/", h.BulkUpdateStatus)
		})

		r.Get("/order/{id}/update_status/", h.UpdateStatusForm)
		r.Post("/order/{id}/update_status/", h.UpdateStatus)
	})
}

func (h *AdminHandler) Home(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.List(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to list products")
		return
	}

	h.render(w, r, http.StatusOK, "admin_home", Page{Title: "Admin", Data: products})
}

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.List(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to list products")
		return
	}

	h.render(w, r, http.StatusOK, "admin_products", Page{Title: "All products", Data: products})
}

func (h *AdminHandler) AddProductForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "product_form", Page{Title: "Add product"})
}

func (h *AdminHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid form")
		return
	}

	input, errs := forms.ValidateProduct(r.PostForm)
	if !errs.Valid() {
		h.render(w, r, http.StatusBadRequest, "product_form", Page{Title: "Add product", Form: r.PostForm, Errors: errs})
		return
	}

	if _, err := h.catalogService.Create(r.Context(), input); err != nil {
		h.fail(w, r, err, "Failed to create product")
		return
	}

	redirect(w, r, AdminHomePath)
}

func (h *AdminHandler) EditProductForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	product, err := h.catalogService.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "Failed to load product")
		return
	}

	h.render(w, r, http.StatusOK, "product_form", Page{Title: "Edit product", Form: forms.ProductValues(product)})
}

func (h *AdminHandler) EditProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if _, err := h.catalogService.Get(r.Context(), id); err != nil {
		h.fail(w, r, err, "Failed to load product")
		return
	}

	if err := r.ParseForm(); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid form")
		return
	}

	input, errs := forms.ValidateProduct(r.PostForm)
	if !errs.Valid() {
		h.render(w, r, http.StatusBadRequest, "product_form", Page{Title: "Edit product", Form: r.PostForm, Errors: errs})
		return
	}

	if _, err := h.catalogService.Update(r.Context(), id, input); err != nil {
		h.fail(w, r, err, "Failed to update product")
		return
	}

	redirect(w, r, AdminHomePath)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalogService.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err, "Failed to delete product")
		return
	}

	redirect(w, r, AdminHomePath)
}

// ListOrders lists every order; ?status= narrows it to one status
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var filter *domain.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.OrderStatus(raw)
		if !status.IsValid() {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		filter = &status
	}

	h.renderOrders(w, r, http.StatusOK, filter, nil)
}

func (h *AdminHandler) renderOrders(w http.ResponseWriter, r *http.Request, status int, filter *domain.OrderStatus, errs forms.FieldErrors) {
	orders, err := h.orderService.ListAll(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err, "Failed to list orders")
		return
	}

	h.render(w, r, status, "admin_orders", Page{Title: "Orders", Form: r.URL.Query(), Errors: errs, Data: orders})
}

// BulkUpdateStatus applies one status to every selected order
func (h *AdminHandler) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid form")
		return
	}

	bulk, errs := forms.ValidateBulkStatus(r.PostForm)
	if !errs.Valid() {
		h.renderOrders(w, r, http.StatusBadRequest, nil, errs)
		return
	}

	if _, err := h.orderService.BulkUpdateStatus(r.Context(), bulk.OrderIDs, bulk.Status); err != nil {
		h.fail(w, r, err, "Failed to bulk update orders")
		return
	}

	redirect(w, r, adminOrdersPath)
}

func (h *AdminHandler) UpdateStatusForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "Failed to load order")
		return
	}

	h.render(w, r, http.StatusOK, "update_status", Page{
		Title: "Update order status",
		Form:  url.Values{"status": {string(order.Status)}},
		Data:  order,
	})
}

// UpdateStatus accepts any status regardless of the current one
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "Failed to load order")
		return
	}

	if err := r.ParseForm(); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid form")
		return
	}

	status, errs := forms.ValidateOrderStatus(r.PostForm)
	if !errs.Valid() {
		h.render(w, r, http.StatusBadRequest, "update_status", Page{
			Title:  "Update order status",
			Form:   r.PostForm,
			Errors: errs,
			Data:   order,
		})
		return
	}

	if _, err := h.orderService.UpdateStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid status")
			return
		}
		h.fail(w, r, err, "Failed to update order status")
		return
	}

	redirect(w, r, adminOrdersPath)
}
