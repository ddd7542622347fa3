// Package storefront is the client SDK for the payment service. The
// storefront backend uses it to start charges and follow them to an outcome
// without talking HTTP directly.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client is a thin HTTP client over the payment service API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is the service-side error decoded from the response envelope.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("payment service error [%s]: %s", e.Code, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *APIError       `json:"error,omitempty"`
}

// InitiateResult is returned when a charge is accepted.
type InitiateResult struct {
	TransactionID string `json:"transaction_id"`
	Reference     string `json:"reference"`
	Message       string `json:"message"`
}

// StatusResult is one observation of a transaction's status.
type StatusResult struct {
	Reference         string `json:"reference"`
	NormalizedStatus  string `json:"normalized_status"`
	TransactionStatus string `json:"transaction_status"`
}

// Account is the display snapshot used by the storefront header.
type Account struct {
	ID                    string     `json:"id"`
	PhoneNumber           string     `json:"phone_number"`
	DisplayName           string     `json:"display_name"`
	BalanceCents          int64      `json:"balance_cents"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at"`
}

type topupRequest struct {
	AccountID   string `json:"account_id"`
	AmountCents int64  `json:"amount_cents"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Name        string `json:"name,omitempty"`
}

type subscribeRequest struct {
	AccountID   string `json:"account_id"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Name        string `json:"name,omitempty"`
}

// Topup starts a wallet top-up charge.
func (c *Client) Topup(ctx context.Context, accountID string, amountCents int64, phoneNumber, name string) (*InitiateResult, error) {
	return do[topupRequest, InitiateResult](ctx, c, http.MethodPost, "/topup", &topupRequest{
		AccountID:   accountID,
		AmountCents: amountCents,
		PhoneNumber: phoneNumber,
		Name:        name,
	})
}

// Subscribe starts a subscription purchase at the server-configured price.
func (c *Client) Subscribe(ctx context.Context, accountID, phoneNumber, name string) (*InitiateResult, error) {
	return do[subscribeRequest, InitiateResult](ctx, c, http.MethodPost, "/subscriptions", &subscribeRequest{
		AccountID:   accountID,
		PhoneNumber: phoneNumber,
		Name:        name,
	})
}

// GetStatus fetches the current status of a transaction.
func (c *Client) GetStatus(ctx context.Context, reference string) (*StatusResult, error) {
	return do[struct{}, StatusResult](ctx, c, http.MethodGet, "/transactions/"+reference+"/status", nil)
}

// Confirm pushes an observed terminal outcome to the service. Safe to call
// even if the server reconciler settled first.
func (c *Client) Confirm(ctx context.Context, reference string) (*StatusResult, error) {
	return do[struct{}, StatusResult](ctx, c, http.MethodPost, "/transactions/"+reference+"/confirm", nil)
}

// GetAccount fetches the account snapshot.
func (c *Client) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	return do[struct{}, Account](ctx, c, http.MethodGet, "/accounts/"+accountID, nil)
}

func do[Req any, Resp any](ctx context.Context, c *Client, method, path string, reqBody *Req) (*Resp, error) {
	var body io.Reader
	if reqBody != nil {
		payload, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if !env.Success {
		if env.Error != nil {
			env.Error.StatusCode = resp.StatusCode
			return nil, env.Error
		}
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	var result Resp
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &result); err != nil {
			return nil, fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return &result, nil
}
