package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	// ErrPaymentDeclined is returned when the relay answers but reports
	// failure. The orchestrator treats it the same as a transport error.
	ErrPaymentDeclined = errors.New("payment declined")
)

// Request is the charge sent to the payment relay. ExternalReference is
// a caller-generated idempotency key; it is forwarded verbatim, the
// relay does not deduplicate on it, so a retry after a timeout can
// double-charge (known gap, inherited from the provider integration).
type Request struct {
	PayerPhone        string          `json:"payerPhone"`
	Amount            decimal.Decimal `json:"amount"`
	ExternalReference string          `json:"externalReference"`
	Note              string          `json:"note"`
}

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Client calls the mobile-money relay. The circuit breaker opens after
// repeated failures so a dead relay fails checkouts fast instead of
// holding every request for the full timeout.
type Client struct {
	baseURL     string
	countryCode string
	httpClient  *http.Client
	breaker     *gobreaker.CircuitBreaker[struct{}]
}

func NewClient(baseURL, countryCode string, timeout time.Duration) *Client {
	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:    "momo-relay",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		baseURL:     baseURL,
		countryCode: countryCode,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: breaker,
	}
}

// RequestToPay submits the charge and waits for the relay's verdict.
// Any non-success answer, transport error, or timeout comes back as an
// error; the caller rolls back whatever it already committed.
func (c *Client) RequestToPay(ctx context.Context, req Request) error {
	req.PayerPhone = NormalizeMSISDN(req.PayerPhone, c.countryCode)
	if req.PayerPhone == "" {
		return errors.New("payer phone is required")
	}
	if req.Amount.IsNegative() {
		return errors.New("charge amount must not be negative")
	}

	_, err := c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, c.post(ctx, req)
	})
	return err
}

func (c *Client) post(ctx context.Context, req Request) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/momo/pay", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("payment call failed: %w", err)
	}
	defer resp.Body.Close()

	var result response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode payment response: %w", err)
	}
	if !result.Success {
		if result.Message != "" {
			return fmt.Errorf("%w: %s", ErrPaymentDeclined, result.Message)
		}
		return ErrPaymentDeclined
	}
	return nil
}
