package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	d "github.com/dejidee0/litwaypickss-eccomerce/internal/checkout/domain"
	loyaltydomain "github.com/dejidee0/litwaypickss-eccomerce/internal/loyalty/domain"
	"github.com/dejidee0/litwaypickss-eccomerce/internal/payment"
	"github.com/dejidee0/litwaypickss-eccomerce/internal/session"
)

// PaymentClient is the external payment collaborator. Any returned error
// means the charge did not happen as far as this service is concerned.
type PaymentClient interface {
	RequestToPay(ctx context.Context, req payment.Request) error
}

// OrderPublisher receives completed orders. Optional; publishing is
// best-effort and never fails a checkout.
type OrderPublisher interface {
	PublishCompleted(ctx context.Context, order d.CompletedOrder) error
}

// Orchestrator runs one checkout attempt end to end: read the cart
// subtotal, optionally redeem a loyalty discount, charge the payer, then
// credit points and clear the cart. A failed or timed-out charge rolls
// the redemption back so no points are lost without goods received.
type Orchestrator struct {
	payment        PaymentClient
	publisher      OrderPublisher
	paymentTimeout time.Duration

	mu      sync.Mutex
	pending map[string]struct{}
}

func NewOrchestrator(paymentClient PaymentClient, publisher OrderPublisher, paymentTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		payment:        paymentClient,
		publisher:      publisher,
		paymentTimeout: paymentTimeout,
		pending:        make(map[string]struct{}),
	}
}

func (s *Orchestrator) Checkout(ctx context.Context, sess *session.Session, req d.CheckoutRequest) (*d.CheckoutResult, error) {
	if err := s.begin(sess.UserID); err != nil {
		return nil, err
	}
	defer s.finish(sess.UserID)

	if sess.Cart.ItemCount() == 0 {
		return nil, ErrEmptyCart
	}

	orderID := uuid.New().String()
	subtotal := sess.Cart.Subtotal()
	status := d.CheckoutStatusInitiated

	result := &d.CheckoutResult{
		OrderID:        orderID,
		Status:         status,
		Subtotal:       subtotal,
		DiscountAmount: decimal.Zero,
		FinalTotal:     subtotal,
	}

	// Snapshot taken before the redemption; restoring it is the rollback.
	var preRedemption *loyaltydomain.Account
	if req.ApplyDiscount {
		snapshot, redemption, err := s.applyDiscount(ctx, sess, subtotal, &status)
		if err != nil {
			return nil, err
		}
		if redemption != nil {
			preRedemption = snapshot
			result.DiscountApplied = true
			result.DiscountAmount = redemption.DiscountAmount
			result.PointsUsed = redemption.PointsUsed
			result.FinalTotal = subtotal.Sub(redemption.DiscountAmount)
		}
	}

	if err := s.processPayment(ctx, orderID, req, result.FinalTotal, &status); err != nil {
		s.rollback(ctx, sess, preRedemption)
		result.Status = d.CheckoutStatusFailed
		return result, fmt.Errorf("payment failed: %w", err)
	}

	if err := s.complete(ctx, sess, req, orderID, result, &status); err != nil {
		// The charge went through; report how far the attempt got so
		// the caller does not mistake this for a pre-payment failure.
		result.Status = status
		return result, err
	}

	result.Status = status
	return result, nil
}

// begin registers a pending attempt for the user; a second concurrent
// submission is refused outright.
func (s *Orchestrator) begin(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.pending[userID]; exists {
		return ErrCheckoutPending
	}
	s.pending[userID] = struct{}{}
	return nil
}

func (s *Orchestrator) finish(userID string) {
	s.mu.Lock()
	delete(s.pending, userID)
	s.mu.Unlock()
}

func (s *Orchestrator) rollback(ctx context.Context, sess *session.Session, preRedemption *loyaltydomain.Account) {
	if preRedemption == nil {
		return
	}
	if err := sess.Loyalty.Restore(ctx, *preRedemption); err != nil {
		// The points stay deducted until the restore is retried; this
		// must never pass silently.
		log.Printf("CRITICAL: failed to refund redeemed points for user %v: %v", sess.UserID, err)
	}
}

func advance(status *d.CheckoutStatus, to d.CheckoutStatus) error {
	if !d.CanTransitionTo(*status, to) {
		return IllegalTransitionError
	}
	*status = to
	return nil
}
