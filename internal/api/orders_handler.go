package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	d "github.com/dejidee0/litwaypickss-eccomerce/internal/checkout/domain"
	"github.com/dejidee0/litwaypickss-eccomerce/internal/orders"
)

type OrdersHandler struct {
	recorder *orders.Recorder
}

func NewOrdersHandler(recorder *orders.Recorder) *OrdersHandler {
	return &OrdersHandler{recorder: recorder}
}

type OrderListResponseDTO struct {
	Orders []d.CompletedOrder `json:"orders"`
	Total  int                `json:"total"`
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	list := h.recorder.ListByUser(userID)
	respondJSON(w, http.StatusOK, OrderListResponseDTO{
		Orders: list,
		Total:  len(list),
	})
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orderID := chi.URLParam(r, "order_id")
	order, ok := h.recorder.Get(orderID)
	if !ok || order.UserID != userID {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}

	respondJSON(w, http.StatusOK, order)
}
