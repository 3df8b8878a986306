package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gourav6746-ai/Thulodeal/internal/orders"
)

type OrdersHandler struct {
	orders  orders.OrderRepository
	timeout time.Duration
}

func NewOrdersHandler(repo orders.OrderRepository, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		orders:  repo,
		timeout: timeout,
	}
}

// ListMine returns the caller's order history, newest first.
func (h *OrdersHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	list, err := h.orders.ListOrdersByUserID(ctx, session.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a UUID")
		return
	}

	order, err := h.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if order.UserID != session.UserID && !session.IsAdmin {
		// do not leak existence of other users' orders
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	respondJSON(w, http.StatusOK, order)
}
