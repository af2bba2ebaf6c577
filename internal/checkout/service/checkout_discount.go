package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	d "github.com/dejidee0/litwaypickss-eccomerce/internal/checkout/domain"
	loyaltydomain "github.com/dejidee0/litwaypickss-eccomerce/internal/loyalty/domain"
	"github.com/dejidee0/litwaypickss-eccomerce/internal/session"
)

// applyDiscount tries to redeem loyalty points against the subtotal.
// Insufficient points is a normal outcome: the checkout proceeds with no
// discount and a nil redemption.
func (s *Orchestrator) applyDiscount(
	ctx context.Context,
	sess *session.Session,
	subtotal decimal.Decimal,
	status *d.CheckoutStatus) (*loyaltydomain.Account, *loyaltydomain.Redemption, error) {

	snapshot := sess.Loyalty.Account()

	redemption, err := sess.Loyalty.RedeemDiscount(ctx, subtotal)
	if errors.Is(err, loyaltydomain.ErrInsufficientPoints) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	if err := advance(status, d.CheckoutStatusDiscountApplied); err != nil {
		return nil, nil, err
	}
	return &snapshot, &redemption, nil
}
