package service

import (
	"context"
	"fmt"
	"log"
	"time"

	d "github.com/dejidee0/litwaypickss-eccomerce/internal/checkout/domain"
	"github.com/dejidee0/litwaypickss-eccomerce/internal/session"
)

// complete credits loyalty points for the charged amount, clears the
// cart, and publishes the order. Runs only after a successful payment.
func (s *Orchestrator) complete(
	ctx context.Context,
	sess *session.Session,
	req d.CheckoutRequest,
	orderID string,
	result *d.CheckoutResult,
	status *d.CheckoutStatus) error {

	items := sess.Cart.Cart().Items

	earned, err := sess.Loyalty.EarnPoints(ctx, result.FinalTotal, req.IsFirstPurchase)
	if err != nil {
		return fmt.Errorf("failed to credit points after payment: %w", err)
	}
	result.PointsEarned = earned.Points

	if err := sess.Cart.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear cart after payment: %w", err)
	}

	if err := advance(status, d.CheckoutStatusCompleted); err != nil {
		return err
	}

	if s.publisher != nil {
		order := d.CompletedOrder{
			OrderID:      orderID,
			UserID:       sess.UserID,
			Subtotal:     result.Subtotal,
			Discount:     result.DiscountAmount,
			TotalAmount:  result.FinalTotal,
			Currency:     "LRD",
			PointsEarned: earned.Points,
			CompletedAt:  time.Now(),
		}
		for _, item := range items {
			order.Items = append(order.Items, d.OrderItem{
				ProductID: item.ProductID,
				Name:      item.Name,
				Quantity:  item.Quantity,
				UnitPrice: item.EffectivePrice(),
			})
		}
		if err := s.publisher.PublishCompleted(ctx, order); err != nil {
			// Best effort: the customer paid and the ledgers are settled.
			log.Printf("failed to publish completed order %v: %v", orderID, err)
		}
	}

	return nil
}
