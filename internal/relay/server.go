package relay

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
)

// payRequestDTO is the storefront-facing charge request.
type payRequestDTO struct {
	PayerPhone        string          `json:"payerPhone"`
	Amount            decimal.Decimal `json:"amount"`
	ExternalReference string          `json:"externalReference"`
	Note              string          `json:"note"`
}

type payResponseDTO struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// paymentUpstream is what the server needs from UpstreamClient.
type paymentUpstream interface {
	RequestToPay(ctx context.Context, phone string, amount decimal.Decimal, externalID, payerMessage string) error
}

// NewServer builds the relay's HTTP surface: a health route and the
// single pay route the storefront calls.
func NewServer(upstream paymentUpstream) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Post("/api/momo/pay", func(w http.ResponseWriter, req *http.Request) {
		var body payRequestDTO
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			respondPay(w, http.StatusBadRequest, false, "invalid JSON body")
			return
		}
		if body.PayerPhone == "" {
			respondPay(w, http.StatusBadRequest, false, "payerPhone is required")
			return
		}
		if body.Amount.IsNegative() || body.Amount.IsZero() {
			respondPay(w, http.StatusBadRequest, false, "amount must be positive")
			return
		}

		err := upstream.RequestToPay(req.Context(), body.PayerPhone, body.Amount, body.ExternalReference, body.Note)
		if err != nil {
			log.Printf("momo payment error for reference %v: %v", body.ExternalReference, err)
			respondPay(w, http.StatusInternalServerError, false, "MoMo payment failed")
			return
		}

		respondPay(w, http.StatusOK, true, "Payment initiated successfully")
	})

	return r
}

func respondPay(w http.ResponseWriter, status int, success bool, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payResponseDTO{Success: success, Message: message}); err != nil {
		log.Printf("failed to encode relay response: %v", err)
	}
}
