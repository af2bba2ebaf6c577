package service

import (
	"context"

	d "github.com/dejidee0/litwaypickss-eccomerce/internal/checkout/domain"
	"github.com/dejidee0/litwaypickss-eccomerce/internal/payment"
)

// MockPaymentClient implements PaymentClient for testing
type MockPaymentClient struct {
	Err      error
	Requests []payment.Request
	Entered  chan struct{} // when set, closed as RequestToPay starts
	Block    chan struct{} // when set, RequestToPay waits until it closes
}

func (m *MockPaymentClient) RequestToPay(_ context.Context, req payment.Request) error {
	if m.Entered != nil {
		close(m.Entered)
	}
	if m.Block != nil {
		<-m.Block
	}
	m.Requests = append(m.Requests, req)
	return m.Err
}

// MockPublisher implements OrderPublisher for testing
type MockPublisher struct {
	Err    error
	Orders []d.CompletedOrder
}

func (m *MockPublisher) PublishCompleted(_ context.Context, order d.CompletedOrder) error {
	if m.Err != nil {
		return m.Err
	}
	m.Orders = append(m.Orders, order)
	return nil
}
