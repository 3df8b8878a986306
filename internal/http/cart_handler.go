package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gourav6746-ai/Thulodeal/internal/cart"
	"github.com/gourav6746-ai/Thulodeal/internal/catalog"
	"github.com/gourav6746-ai/Thulodeal/internal/domain"
)

type CartHandler struct {
	carts   *cart.Service
	catalog *catalog.Service
	timeout time.Duration
}

func NewCartHandler(carts *cart.Service, catalog *catalog.Service, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalog,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID    string `json:"product_id"`
	SelectedSize string `json:"selected_size"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	*domain.Cart
	CartTotal int64 `json:"cart_total"`
	CartCount int   `json:"cart_count"`
}

func cartResponse(c *domain.Cart) CartResponseDTO {
	return CartResponseDTO{
		Cart:      c,
		CartTotal: cart.Subtotal(c.Items),
		CartCount: cart.Count(c.Items),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	c, err := h.carts.GetCart(ctx, session.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.SelectedSize == "" {
		respondError(w, http.StatusBadRequest, "invalid_size", "selected_size is required")
		return
	}

	product, err := h.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// Soft stock gate. The engine itself does not reconcile quantity
	// against stock, so the check lives here at the edge.
	current, err := h.carts.GetCart(ctx, session.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	held := 0
	for _, item := range current.Items {
		if item.ProductID == product.ID {
			held += item.Quantity
		}
	}
	if held >= product.Stock {
		respondError(w, http.StatusConflict, "out_of_stock", "no more stock available for this product")
		return
	}

	c, err := h.carts.AddItem(ctx, session.UserID, *product, req.SelectedSize)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	productID := chi.URLParam(r, "productID")
	size := chi.URLParam(r, "size")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must not exceed 99")
		return
	}

	c, err := h.carts.UpdateQuantity(ctx, session.UserID, productID, size, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	c, err := h.carts.RemoveItem(ctx, session.UserID, chi.URLParam(r, "productID"), chi.URLParam(r, "size"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	if err := h.carts.ClearCart(ctx, session.UserID); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
