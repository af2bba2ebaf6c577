package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutRequest is one checkout attempt as handed to the orchestrator.
type CheckoutRequest struct {
	ApplyDiscount   bool
	IsFirstPurchase bool
	PayerPhone      string
	Note            string
}

// CheckoutResult reports what the attempt did. On failure FinalStatus is
// FAILED and both ledgers are exactly as they were before the attempt.
type CheckoutResult struct {
	OrderID         string          `json:"orderId"`
	Status          CheckoutStatus  `json:"status"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountApplied bool            `json:"discountApplied"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	FinalTotal      decimal.Decimal `json:"finalTotal"`
	PointsUsed      int             `json:"pointsUsed"`
	PointsEarned    int             `json:"pointsEarned"`
}

// OrderItem is one purchased line inside a completed order event.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CompletedOrder is published after a successful checkout.
type CompletedOrder struct {
	OrderID      string          `json:"order_id"`
	UserID       string          `json:"user_id"`
	Items        []OrderItem     `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Currency     string          `json:"currency"`
	PointsEarned int             `json:"points_earned"`
	CompletedAt  time.Time       `json:"completed_at"`
}
