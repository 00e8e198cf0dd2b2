package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AayushAcharya189/SportGear/internal/domain"
	"github.com/AayushAcharya189/SportGear/internal/service"
	"github.com/AayushAcharya189/SportGear/pkg/httputil"
	"github.com/AayushAcharya189/SportGear/pkg/middleware"
	"github.com/AayushAcharya189/SportGear/pkg/validator"
)

// OrderHandler serves checkout and order management endpoints.
type OrderHandler struct {
	checkout *service.CheckoutService
	orders   *service.OrderService
	logger   *slog.Logger
}

// NewOrderHandler creates an order handler.
func NewOrderHandler(checkout *service.CheckoutService, orders *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{checkout: checkout, orders: orders, logger: logger}
}

type checkoutRequest struct {
	Items []service.CheckoutItemInput `json:"items" validate:"omitempty,dive"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Checkout handles POST /api/v1/orders/checkout. The buyer is taken from the
// verified token, never from the body.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	limitBody(w, r)

	var req checkoutRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	order, err := h.checkout.Checkout(r.Context(), service.CheckoutInput{
		UserID: middleware.UserIDFromContext(r.Context()),
		Items:  req.Items,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}

// ListMine handles GET /api/v1/orders/mine.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)
	input := service.ListOrdersInput{
		CallerID:   middleware.UserIDFromContext(r.Context()),
		CallerRole: domain.RoleCustomer,
		Status:     r.URL.Query().Get("status"),
		Page:       page,
		PerPage:    perPage,
	}

	orders, total, err := h.orders.ListOrders(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK,
		httputil.NewPaginatedResponse(orders, total, page, perPage))
}

// ListAll handles GET /api/v1/orders. Admin only; results include customer
// name and email.
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)
	input := service.ListOrdersInput{
		CallerID:   middleware.UserIDFromContext(r.Context()),
		CallerRole: middleware.RoleFromContext(r.Context()),
		Status:     r.URL.Query().Get("status"),
		Page:       page,
		PerPage:    perPage,
	}

	orders, total, err := h.orders.ListOrders(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK,
		httputil.NewPaginatedResponse(orders, total, page, perPage))
}

// Get handles GET /api/v1/orders/{id}. Customers can only fetch their own
// orders; admins can fetch any.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id.String(),
		middleware.UserIDFromContext(r.Context()),
		middleware.RoleFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// UpdateStatus handles PUT /api/v1/orders/{id}. Admin only.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	limitBody(w, r)
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	order, err := h.orders.UpdateOrderStatus(r.Context(), id.String(), req.Status)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// Delete handles DELETE /api/v1/orders/{id}. Admin only. Stock is not
// restored.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.orders.DeleteOrder(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
