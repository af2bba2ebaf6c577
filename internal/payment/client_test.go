package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestToPay_Success(t *testing.T) {
	var received Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/momo/pay", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer server.Close()

	client := NewClient(server.URL, DefaultCountryCode, 5*time.Second)
	err := client.RequestToPay(context.Background(), Request{
		PayerPhone:        "0770123456",
		Amount:            decimal.NewFromInt(100),
		ExternalReference: "order-1",
		Note:              "Litway Picks order",
	})
	require.NoError(t, err)

	assert.Equal(t, "231770123456", received.PayerPhone, "phone must be normalized before sending")
	assert.True(t, received.Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "order-1", received.ExternalReference)
}

func TestRequestToPay_Declined(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "MoMo Payment failed"})
	}))
	defer server.Close()

	client := NewClient(server.URL, DefaultCountryCode, 5*time.Second)
	err := client.RequestToPay(context.Background(), Request{
		PayerPhone: "0770123456",
		Amount:     decimal.NewFromInt(100),
	})
	require.ErrorIs(t, err, ErrPaymentDeclined)
	assert.ErrorContains(t, err, "MoMo Payment failed")
}

func TestRequestToPay_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewClient(server.URL, DefaultCountryCode, time.Second)
	err := client.RequestToPay(context.Background(), Request{
		PayerPhone: "0770123456",
		Amount:     decimal.NewFromInt(10),
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPaymentDeclined)
}

func TestRequestToPay_InvalidInput(t *testing.T) {
	client := NewClient("http://localhost:0", DefaultCountryCode, time.Second)

	err := client.RequestToPay(context.Background(), Request{Amount: decimal.NewFromInt(10)})
	assert.ErrorContains(t, err, "payer phone")

	err = client.RequestToPay(context.Background(), Request{
		PayerPhone: "0770123456",
		Amount:     decimal.NewFromInt(-1),
	})
	assert.ErrorContains(t, err, "must not be negative")
}

func TestRequestToPay_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, DefaultCountryCode, time.Second)
	req := Request{PayerPhone: "0770123456", Amount: decimal.NewFromInt(10)}

	for i := 0; i < 5; i++ {
		_ = client.RequestToPay(context.Background(), req)
	}

	err := client.RequestToPay(context.Background(), req)
	require.Error(t, err)
	assert.ErrorContains(t, err, "circuit breaker is open")
}
