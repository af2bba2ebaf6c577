package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	loyaltydomain "github.com/dejidee0/litwaypickss-eccomerce/internal/loyalty/domain"
	loyaltyservice "github.com/dejidee0/litwaypickss-eccomerce/internal/loyalty/service"
	"github.com/dejidee0/litwaypickss-eccomerce/internal/session"
)

type LoyaltyHandler struct {
	sessions *session.Manager
	timeout  time.Duration
}

func NewLoyaltyHandler(sessions *session.Manager, timeout time.Duration) *LoyaltyHandler {
	return &LoyaltyHandler{
		sessions: sessions,
		timeout:  timeout,
	}
}

type TierProgressDTO struct {
	NextTier        loyaltydomain.Tier `json:"nextTier"`
	Progress        float64            `json:"progress"`
	PointsRemaining int                `json:"pointsRemaining"`
}

type LoyaltyResponseDTO struct {
	Account           loyaltydomain.Account `json:"account"`
	CanRedeemDiscount bool                  `json:"canRedeemDiscount"`
	PointsNeeded      int                   `json:"pointsNeededForDiscount"`
	DiscountProgress  float64               `json:"discountProgress"`
	TierProgress      *TierProgressDTO      `json:"tierProgress,omitempty"`
	TierBenefits      []string              `json:"tierBenefits"`
}

type AddBonusRequestDTO struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

func (h *LoyaltyHandler) loyalty(w http.ResponseWriter, r *http.Request) (*loyaltyservice.Ledger, bool) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return nil, false
	}
	sess, err := h.sessions.Session(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "session_load_failed", "could not load session")
		return nil, false
	}
	return sess.Loyalty, true
}

func loyaltyResponse(ledger *loyaltyservice.Ledger) LoyaltyResponseDTO {
	acct := ledger.Account()
	cfg := ledger.Config()

	resp := LoyaltyResponseDTO{
		Account:           acct,
		CanRedeemDiscount: acct.CanRedeemDiscount(cfg),
		PointsNeeded:      acct.PointsNeededForDiscount(cfg),
		DiscountProgress:  acct.DiscountProgress(cfg),
		TierBenefits:      loyaltydomain.TierBenefits(acct.Tier),
	}
	if progress, remaining, ok := acct.TierProgress(); ok {
		resp.TierProgress = &TierProgressDTO{
			NextTier:        loyaltydomain.NextTier(acct.Tier),
			Progress:        progress,
			PointsRemaining: remaining,
		}
	}
	return resp
}

func (h *LoyaltyHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	ledger, ok := h.loyalty(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, loyaltyResponse(ledger))
}

func (h *LoyaltyHandler) AddBonus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ledger, ok := h.loyalty(w, r)
	if !ok {
		return
	}

	var req AddBonusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	_, err := ledger.AddBonusPoints(ctx, loyaltydomain.BonusKind(req.Kind), req.Description)
	if err != nil {
		if errors.Is(err, loyaltydomain.ErrUnknownBonusKind) {
			respondError(w, http.StatusBadRequest, "unknown_bonus_kind", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, loyaltyResponse(ledger))
}
