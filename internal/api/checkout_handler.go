package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	d "github.com/dejidee0/litwaypickss-eccomerce/internal/checkout/domain"
	checkoutservice "github.com/dejidee0/litwaypickss-eccomerce/internal/checkout/service"
	"github.com/dejidee0/litwaypickss-eccomerce/internal/session"
)

type CheckoutHandler struct {
	sessions     *session.Manager
	orchestrator *checkoutservice.Orchestrator
}

func NewCheckoutHandler(sessions *session.Manager, orchestrator *checkoutservice.Orchestrator) *CheckoutHandler {
	return &CheckoutHandler{
		sessions:     sessions,
		orchestrator: orchestrator,
	}
}

type CheckoutRequestDTO struct {
	ApplyDiscount   bool   `json:"applyDiscount"`
	IsFirstPurchase bool   `json:"isFirstPurchase"`
	PayerPhone      string `json:"payerPhone"`
	Note            string `json:"note,omitempty"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.PayerPhone == "" {
		respondError(w, http.StatusBadRequest, "missing_payer_phone", "payerPhone is required")
		return
	}

	sess, err := h.sessions.Session(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "session_load_failed", "could not load session")
		return
	}

	result, err := h.orchestrator.Checkout(r.Context(), sess, d.CheckoutRequest{
		ApplyDiscount:   req.ApplyDiscount,
		IsFirstPurchase: req.IsFirstPurchase,
		PayerPhone:      req.PayerPhone,
		Note:            req.Note,
	})
	if err != nil {
		log.Printf("checkout failed for user %s (request %s): %v", userID, getRequestID(r.Context()), err)
		handleCheckoutError(w, result, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

func handleCheckoutError(w http.ResponseWriter, result *d.CheckoutResult, err error) {
	switch {
	case errors.Is(err, checkoutservice.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, checkoutservice.ErrCheckoutPending):
		respondError(w, http.StatusConflict, "checkout_pending", err.Error())
	case result != nil && result.Status == d.CheckoutStatusFailed:
		// Payment was refused or unreachable; the ledgers were rolled
		// back, so the caller may safely retry.
		respondJSON(w, http.StatusBadGateway, struct {
			ErrorResponse
			Result *d.CheckoutResult `json:"result"`
		}{
			ErrorResponse: ErrorResponse{Error: err.Error(), Code: "payment_failed"},
			Result:        result,
		})
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
