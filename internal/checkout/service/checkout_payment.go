package service

import (
	"context"

	"github.com/shopspring/decimal"

	d "github.com/dejidee0/litwaypickss-eccomerce/internal/checkout/domain"
	"github.com/dejidee0/litwaypickss-eccomerce/internal/payment"
)

// processPayment submits the charge and waits for the verdict. There is
// no cancellation path once submitted; a timeout is reported as an error
// and handled like any other failure.
func (s *Orchestrator) processPayment(
	ctx context.Context,
	orderID string,
	req d.CheckoutRequest,
	amount decimal.Decimal,
	status *d.CheckoutStatus) error {

	if err := advance(status, d.CheckoutStatusPaymentPending); err != nil {
		return err
	}

	paymentCtx, cancel := context.WithTimeout(ctx, s.paymentTimeout)
	defer cancel()

	note := req.Note
	if note == "" {
		note = "Litway Picks order " + orderID
	}

	err := s.payment.RequestToPay(paymentCtx, payment.Request{
		PayerPhone:        req.PayerPhone,
		Amount:            amount,
		ExternalReference: orderID,
		Note:              note,
	})
	if err != nil {
		return err
	}

	return advance(status, d.CheckoutStatusPaymentCompleted)
}
