package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gourav6746-ai/Thulodeal/internal/catalog"
	"github.com/gourav6746-ai/Thulodeal/internal/domain"
	"github.com/gourav6746-ai/Thulodeal/internal/orders"
	"github.com/gourav6746-ai/Thulodeal/internal/storage"
)

// AdminHandler serves the back-office surface: catalog management,
// order oversight and payment verification.
type AdminHandler struct {
	catalog  *catalog.Service
	orders   orders.OrderRepository
	receipts storage.BlobStorage
	timeout  time.Duration
}

func NewAdminHandler(catalog *catalog.Service, repo orders.OrderRepository, receipts storage.BlobStorage, timeout time.Duration) *AdminHandler {
	return &AdminHandler{
		catalog:  catalog,
		orders:   repo,
		receipts: receipts,
		timeout:  timeout,
	}
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.catalog.CreateProduct(ctx, &product); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	product.ID = chi.URLParam(r, "id")
	if err := h.catalog.UpdateProduct(ctx, &product); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.catalog.DeleteProduct(ctx, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) CreateBundle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var bundle domain.Bundle
	if err := json.NewDecoder(r.Body).Decode(&bundle); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.catalog.CreateBundle(ctx, &bundle); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, bundle)
}

func (h *AdminHandler) DeleteBundle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.catalog.DeleteBundle(ctx, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) ListPromos(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	promos, err := h.catalog.ListPromos(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, promos)
}

func (h *AdminHandler) CreatePromo(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var promo domain.PromoCode
	if err := json.NewDecoder(r.Body).Decode(&promo); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.catalog.CreatePromo(ctx, &promo); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, promo)
}

type SetPromoActiveRequestDTO struct {
	IsActive bool `json:"is_active"`
}

func (h *AdminHandler) SetPromoActive(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SetPromoActiveRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.catalog.SetPromoActive(ctx, chi.URLParam(r, "id"), req.IsActive); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *AdminHandler) DeletePromo(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.catalog.DeletePromo(ctx, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	list, err := h.orders.ListAllOrders(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a UUID")
		return
	}

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	next := domain.OrderStatus(req.Status)
	if !next.IsValid() {
		respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
		return
	}

	if err := h.orders.UpdateStatus(ctx, orderID, next); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (h *AdminHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a UUID")
		return
	}

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	next := domain.PaymentStatus(req.Status)
	if !next.IsValid() {
		respondError(w, http.StatusBadRequest, "invalid_status", "unknown payment status")
		return
	}

	if err := h.orders.UpdatePaymentStatus(ctx, orderID, next); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"payment_status": req.Status})
}

// GetReceipt streams a stored payment proof back to the reviewer.
func (h *AdminHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	receiptID := chi.URLParam(r, "id")
	if receiptID == "" {
		respondError(w, http.StatusBadRequest, "invalid_receipt_id", "receipt id is required")
		return
	}

	// Buffer the proof so a mid-stream failure can still produce a
	// proper error response. Proofs are capped at a few megabytes.
	var buf bytes.Buffer
	if err := h.receipts.Load(ctx, receiptID, &buf); err != nil {
		handleServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, &buf); err != nil {
		log.Printf("failed to stream receipt %s: %v", receiptID, err)
	}
}
