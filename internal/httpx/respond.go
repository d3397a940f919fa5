package httpx

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Yatin2505/E-Commerce1-backend/internal/cart"
	"github.com/Yatin2505/E-Commerce1-backend/internal/catalog"
	"github.com/Yatin2505/E-Commerce1-backend/internal/order"
	"github.com/Yatin2505/E-Commerce1-backend/internal/repository"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
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

// handleServiceError maps typed service errors to HTTP status codes.
// Anything unrecognized is an internal error; the original message stays
// out of the response.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrCartNotFound),
		errors.Is(err, repository.ErrItemNotFound),
		errors.Is(err, repository.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, repository.ErrInsufficientStock):
		respondError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, catalog.ErrInvalidProduct),
		errors.Is(err, catalog.ErrInvalidReview),
		errors.Is(err, order.ErrInvalidAddress),
		errors.Is(err, order.ErrInvalidPaymentMethod),
		errors.Is(err, order.ErrInvalidStatus):
		respondError(w, http.StatusBadRequest, "invalid_argument", err.Error())
	case errors.Is(err, catalog.ErrAlreadyReviewed):
		respondError(w, http.StatusBadRequest, "already_reviewed", err.Error())
	case errors.Is(err, order.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, order.ErrForbidden):
		respondError(w, http.StatusForbidden, "permission_denied", err.Error())
	case errors.Is(err, order.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "invalid_state", err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
