package relay

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// UpstreamClient talks to the MTN MoMo collection API. The access token
// is cached in-process and refreshed once when the provider rejects it.
type UpstreamClient struct {
	baseURL           string
	apiUserID         string
	apiKey            string
	subscriptionKey   string
	targetEnvironment string
	currency          string
	httpClient        *http.Client

	mu    sync.Mutex
	token string
}

func NewUpstreamClient(cfg *Config, timeout time.Duration) *UpstreamClient {
	return &UpstreamClient{
		baseURL:           cfg.BaseURL,
		apiUserID:         cfg.APIUserID,
		apiKey:            cfg.APIKey,
		subscriptionKey:   cfg.SubscriptionKey,
		targetEnvironment: cfg.TargetEnvironment,
		currency:          cfg.Currency,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (c *UpstreamClient) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/collection/token/", nil)
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	credentials := base64.StdEncoding.EncodeToString([]byte(c.apiUserID + ":" + c.apiKey))
	req.Header.Set("Authorization", "Basic "+credentials)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token call failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token call returned status %d", resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token response had no access_token")
	}

	c.token = tok.AccessToken
	return c.token, nil
}

func (c *UpstreamClient) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

type requestToPayBody struct {
	Amount       string     `json:"amount"`
	Currency     string     `json:"currency"`
	ExternalID   string     `json:"externalId"`
	Payer        payerParty `json:"payer"`
	PayerMessage string     `json:"payerMessage"`
	PayeeNote    string     `json:"payeeNote"`
}

type payerParty struct {
	PartyIDType string `json:"partyIdType"`
	PartyID     string `json:"partyId"`
}

// RequestToPay initiates a collection for the given MSISDN. The provider
// answers 202 Accepted; the sandbox settles every request.
func (c *UpstreamClient) RequestToPay(ctx context.Context, phone string, amount decimal.Decimal, externalID, payerMessage string) error {
	status, err := c.requestToPay(ctx, phone, amount, externalID, payerMessage)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		// Cached token expired; fetch a fresh one and retry once.
		c.invalidateToken()
		status, err = c.requestToPay(ctx, phone, amount, externalID, payerMessage)
		if err != nil {
			return err
		}
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("requesttopay returned status %d", status)
	}
	return nil
}

func (c *UpstreamClient) requestToPay(ctx context.Context, phone string, amount decimal.Decimal, externalID, payerMessage string) (int, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return 0, err
	}

	body, err := json.Marshal(requestToPayBody{
		Amount:     amount.String(),
		Currency:   c.currency,
		ExternalID: externalID,
		Payer: payerParty{
			PartyIDType: "MSISDN",
			PartyID:     phone,
		},
		PayerMessage: payerMessage,
		PayeeNote:    "Litway Picks Payment",
	})
	if err != nil {
		return 0, fmt.Errorf("marshal requesttopay body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/collection/v1_0/requesttopay", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build requesttopay request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Reference-Id", uuid.New().String())
	req.Header.Set("X-Target-Environment", c.targetEnvironment)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("requesttopay call failed: %w", err)
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
