package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gourav6746-ai/Thulodeal/internal/cart"
	"github.com/gourav6746-ai/Thulodeal/internal/catalog"
	"github.com/gourav6746-ai/Thulodeal/internal/checkout"
	"github.com/gourav6746-ai/Thulodeal/internal/orders"
	"github.com/gourav6746-ai/Thulodeal/internal/storage"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError translates domain sentinel errors into HTTP status
// codes. Unrecognized errors become a 500 and the real cause stays in
// the server log only.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrNotAuthenticated):
		respondError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrBundleNotFound),
		errors.Is(err, catalog.ErrPromoNotFound),
		errors.Is(err, orders.ErrOrderNotFound),
		errors.Is(err, storage.ErrBlobNotFound),
		errors.Is(err, cart.ErrLineNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, checkout.ErrValidation),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, catalog.ErrInvalidProduct),
		errors.Is(err, catalog.ErrBundleTooSmall),
		errors.Is(err, catalog.ErrInvalidPromo),
		errors.Is(err, cart.ErrSizeNotOffered):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, checkout.ErrProofTooLarge):
		respondError(w, http.StatusRequestEntityTooLarge, "proof_too_large", err.Error())
	case errors.Is(err, orders.ErrInvalidTransition):
		respondError(w, http.StatusConflict, "invalid_transition", err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
