package transport

import (
	"net/http"

	"honey-shop/internal/domain"
	"honey-shop/internal/middleware"
	"honey-shop/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PlaceOrderRequest is the checkout payload. Any price sent by the client is
// ignored.
type PlaceOrderRequest struct {
	Customer domain.Customer    `json:"customer" validate:"required"`
	Items    []domain.OrderLine `json:"items" validate:"required,min=1,dive"`
}

// UpdateStatusRequest changes an order's status
type UpdateStatusRequest struct {
	Status domain.OrderStatus `json:"status" validate:"required"`
}

// StatusResponse is returned by the status lookup
type StatusResponse struct {
	Status domain.OrderStatus `json:"status"`
}

// OrderHandler handles order placement, lookup and administration
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", h.PlaceOrder)
		r.Get("/user/{email}", h.ListByEmail)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, requireAdmin)
			r.Get("/admin/all", h.ListAll)
			r.Patch("/admin/{id}/status", h.UpdateStatus)
		})

		r.Get("/{id}", h.Get)
		r.Get("/{id}/status", h.GetStatus)
	})
}

// PlaceOrder handles checkout
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	order, err := h.orderService.PlaceOrder(r.Context(), req.Customer, req.Items)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// Get returns one order
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "id"), "order")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// GetStatus returns only the status of an order
func (h *OrderHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "id"), "order")
	if !ok {
		return
	}

	status, err := h.orderService.GetStatus(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, StatusResponse{Status: status})
}

// ListByEmail returns the orders placed with an email address
func (h *OrderHandler) ListByEmail(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListByCustomerEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// ListAll returns every order for the admin dashboard
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListAll(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// UpdateStatus moves an order to a new status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "id"), "order")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	changedBy, _ := middleware.GetUserEmail(r.Context())
	h.logger.Info("Order status updated by admin",
		zap.String("order_id", id.String()),
		zap.String("status", string(order.Status)),
		zap.String("admin", changedBy),
	)
	middleware.RespondWithJSON(w, http.StatusOK, order)
}
