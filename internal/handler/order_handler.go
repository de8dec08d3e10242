package handler

import (
	"net/http"

	"chatmart/internal/middleware"
	"chatmart/internal/model"
	"chatmart/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateOrderRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	resp, err := h.service.CreateOrder(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to create order", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// UpdateDelivery handles PUT /orders/{orderId}/delivery requests.
func (h *OrderHandler) UpdateDelivery(w http.ResponseWriter, r *http.Request) {
	orderID, ok := int64Param(r, "orderId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id", h.logger)
		return
	}

	var req model.DeliveryUpdateRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	if err := h.service.UpdateDelivery(r.Context(), orderID, &req); err != nil {
		writeServiceError(w, err, "failed to update delivery", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "อัปเดตและส่งแจ้งเตือนสำเร็จแล้ว"})
}

// List handles GET /orders requests.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to list orders", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// ListMine handles GET /userorders for the bearer-authenticated caller.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}

	orders, err := h.service.ListUserOrders(r.Context(), profile.UserID)
	if err != nil {
		writeServiceError(w, err, "failed to list orders", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}
