package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gourav6746-ai/Thulodeal/internal/checkout"
	"github.com/gourav6746-ai/Thulodeal/internal/domain"
	"github.com/gourav6746-ai/Thulodeal/internal/storage"
)

// multipart overhead on top of the proof size cap
const maxCheckoutBody = storage.MaxProofSize + 1<<20

type CheckoutHandler struct {
	checkout *checkout.Service
	timeout  time.Duration
}

func NewCheckoutHandler(checkout *checkout.Service, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		timeout:  timeout,
	}
}

func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	quote, err := h.checkout.Quote(ctx, session.UserID, r.URL.Query().Get("promo"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// Submit accepts the order form as multipart/form-data so the payment
// proof screenshot rides along with the shipping fields in one request.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCheckoutBody)
	if err := r.ParseMultipartForm(maxCheckoutBody); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "proof_too_large", "payment proof exceeds size limit")
			return
		}
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid multipart form")
		return
	}

	req := checkout.Request{
		ShippingAddress: domain.ShippingAddress{
			FullName: r.FormValue("full_name"),
			Address:  r.FormValue("address"),
			City:     r.FormValue("city"),
			ZipCode:  r.FormValue("zip_code"),
		},
		PaymentMethod: domain.PaymentMethod(r.FormValue("payment_method")),
		SenderID:      r.FormValue("sender_id"),
		TransactionID: r.FormValue("transaction_id"),
		Note:          r.FormValue("note"),
		PromoCode:     r.FormValue("promo_code"),
	}

	file, header, err := r.FormFile("screenshot")
	switch {
	case err == nil:
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, storage.MaxProofSize+1))
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "failed to read payment proof")
			return
		}
		req.Proof = &checkout.Proof{Filename: header.Filename, Data: data}
	case errors.Is(err, http.ErrMissingFile):
		// allowed for cash on delivery, validated downstream
	default:
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid payment proof upload")
		return
	}

	order, err := h.checkout.Submit(ctx, session, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}
