package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles order HTTP requests.
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

// Create handles POST /api/orders. An empty item list places the order
// from the caller's cart.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrNotAuthorised, h.logger)
		return
	}

	var req model.CreateOrderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	order, err := h.service.Create(r.Context(), actor.ID, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusCreated, "Order placed successfully", order)
}

// List handles GET /api/orders: the caller's own orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrNotAuthorised, h.logger)
		return
	}

	filter := orderFilterFromQuery(r)

	orders, total, err := h.service.ListByUser(r.Context(), actor.ID, filter)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeList(w, len(orders), total, filter.Page, filter.Limit, orders)
}

// ListAll handles GET /api/orders/all (admin).
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	filter := orderFilterFromQuery(r)

	orders, total, err := h.service.ListAll(r.Context(), filter)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeList(w, len(orders), total, filter.Page, filter.Limit, orders)
}

// GetByID handles GET /api/orders/{id}.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrNotAuthorised, h.logger)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	order, err := h.service.GetByID(r.Context(), actor, id)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, "", order)
}

// statusRequest is the payload for PUT /api/orders/{id}/status.
type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /api/orders/{id}/status (admin).
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}
	if req.Status == "" {
		writeError(w, model.NewValidationError("Status is required"), h.logger)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), id, model.OrderStatus(req.Status))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, "Order status updated", order)
}

// cancelRequest is the payload for POST /api/orders/{id}/cancel.
type cancelRequest struct {
	Reason string `json:"reason"`
}

// Cancel handles POST /api/orders/{id}/cancel.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrNotAuthorised, h.logger)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	// The body is optional; a missing reason is acceptable.
	var req cancelRequest
	_ = decodeBody(r, &req)
	if req.Reason == "" {
		req.Reason = "Cancelled by customer"
	}

	order, err := h.service.Cancel(r.Context(), actor, id, req.Reason)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, "Order cancelled", order)
}

// orderFilterFromQuery builds an order listing filter from query
// parameters.
func orderFilterFromQuery(r *http.Request) model.OrderFilter {
	q := r.URL.Query()
	return model.OrderFilter{
		Status: q.Get("status"),
		Page:   intParam(q.Get("page"), 1),
		Limit:  intParam(q.Get("limit"), 10),
	}
}
