package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	cartdomain "github.com/dejidee0/litwaypickss-eccomerce/internal/cart/domain"
	cartservice "github.com/dejidee0/litwaypickss-eccomerce/internal/cart/service"
	"github.com/dejidee0/litwaypickss-eccomerce/internal/session"
)

type CartHandler struct {
	sessions *session.Manager
	timeout  time.Duration
}

func NewCartHandler(sessions *session.Manager, timeout time.Duration) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		timeout:  timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string           `json:"productId"`
	Name      string           `json:"name"`
	Price     decimal.Decimal  `json:"price"`
	SalePrice *decimal.Decimal `json:"salePrice,omitempty"`
	Stock     int              `json:"stock"`
	Images    []string         `json:"images,omitempty"`
	Quantity  int              `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Items     []cartdomain.LineItem `json:"items"`
	Subtotal  decimal.Decimal       `json:"subtotal"`
	ItemCount int                   `json:"itemCount"`
	Limited   bool                  `json:"limited,omitempty"`
}

func cartResponse(cart *cartservice.Ledger, limited bool) CartResponseDTO {
	snapshot := cart.Cart()
	items := snapshot.Items
	if items == nil {
		items = []cartdomain.LineItem{}
	}
	return CartResponseDTO{
		Items:     items,
		Subtotal:  cart.Subtotal(),
		ItemCount: cart.ItemCount(),
		Limited:   limited,
	}
}

func (h *CartHandler) cart(w http.ResponseWriter, r *http.Request) (*cartservice.Ledger, bool) {
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
	return sess.Cart, true
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.cart(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(cart, false))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cart, ok := h.cart(w, r)
	if !ok {
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	limited, err := cart.AddItem(ctx, cartdomain.ProductSnapshot{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		SalePrice: req.SalePrice,
		Stock:     req.Stock,
		Images:    req.Images,
	}, req.Quantity)
	if err != nil {
		handleCartError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, cartResponse(cart, limited))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cart, ok := h.cart(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// Zero and negative quantities remove the line.
	limited, err := cart.UpdateQuantity(ctx, productID, req.Quantity)
	if err != nil {
		handleCartError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(cart, limited))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cart, ok := h.cart(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	if err := cart.RemoveItem(ctx, productID); err != nil {
		handleCartError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(cart, false))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cart, ok := h.cart(w, r)
	if !ok {
		return
	}

	if err := cart.Clear(ctx); err != nil {
		handleCartError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(cart, false))
}

func handleCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cartdomain.ErrOutOfStock):
		respondError(w, http.StatusConflict, "out_of_stock", err.Error())
	case errors.Is(err, cartdomain.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "item_not_found", err.Error())
	case errors.Is(err, cartdomain.ErrInvalidQuantity), errors.Is(err, cartdomain.ErrInvalidProduct):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
