package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sule1997/cinema-stream/internal/config"
	"github.com/sule1997/cinema-stream/internal/core/domain"
	"github.com/sule1997/cinema-stream/internal/core/ports"
)

type HTTPGatewayClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewGatewayClient(cfg config.GatewayConfig) ports.GatewayPort {
	return &HTTPGatewayClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
	}
}

type createTransactionRequest struct {
	Number string `json:"number"`
	Amount int64  `json:"amount"`
	Name   string `json:"name"`
}

// createTransactionResponse tolerates both reference field spellings the
// processor has used across API revisions.
type createTransactionResponse struct {
	TranID        string `json:"tranid"`
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	Message       string `json:"message"`
}

type statusTransactionResponse struct {
	Status            string `json:"status"`
	TransactionStatus string `json:"transaction_status"`
}

type balanceResponse struct {
	Balance  float64 `json:"balance"`
	Currency string  `json:"currency"`
}

func (c *HTTPGatewayClient) CreateCharge(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeResponse, error) {
	body := createTransactionRequest{
		Number: req.PhoneNumber,
		Amount: req.AmountCents,
		Name:   req.Name,
	}

	resp, err := postJSON[createTransactionRequest, createTransactionResponse](
		c, ctx, "/api/create-transaction", body,
	)
	if err != nil {
		return nil, err
	}

	reference := resp.TranID
	if reference == "" {
		reference = resp.TransactionID
	}
	if reference == "" {
		return nil, &GatewayError{
			Code:    "missing_reference",
			Message: "processor response carried no transaction reference",
		}
	}

	return &domain.ChargeResponse{
		Reference: reference,
		RawStatus: resp.Status,
		Message:   resp.Message,
	}, nil
}

func (c *HTTPGatewayClient) GetStatus(ctx context.Context, reference string) (*domain.StatusResponse, error) {
	path := "/api/status-transaction?tranid=" + url.QueryEscape(reference)
	resp, err := getJSON[statusTransactionResponse](c, ctx, path)
	if err != nil {
		return nil, err
	}

	raw := resp.Status
	if raw == "" {
		raw = resp.TransactionStatus
	}

	return &domain.StatusResponse{
		Reference: reference,
		RawStatus: raw,
	}, nil
}

func (c *HTTPGatewayClient) GetBalance(ctx context.Context) (*domain.GatewayBalance, error) {
	resp, err := getJSON[balanceResponse](c, ctx, "/api/balance")
	if err != nil {
		return nil, err
	}

	return &domain.GatewayBalance{
		Amount:   resp.Balance,
		Currency: resp.Currency,
	}, nil
}

// postJSON is a generic helper for making POST requests to the processor API
func postJSON[Req any, Resp any](c *HTTPGatewayClient, ctx context.Context, path string, req Req) (*Resp, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("error marshalling json: %w", err)
	}

	fullURL := c.baseURL + path
	httpReq, err := http.NewRequestWithContext(ctx, "POST", fullURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	return doJSON[Resp](c, httpReq)
}

// getJSON is a generic helper for making GET requests to the processor API
func getJSON[Resp any](c *HTTPGatewayClient, ctx context.Context, path string) (*Resp, error) {
	fullURL := c.baseURL + path
	httpReq, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	return doJSON[Resp](c, httpReq)
}

func doJSON[Resp any](c *HTTPGatewayClient, httpReq *http.Request) (*Resp, error) {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		var errResp GatewayErrorResponse
		if jsonErr := json.Unmarshal(body, &errResp); jsonErr == nil && errResp.Message != "" {
			return nil, &GatewayError{
				Code:       errResp.Err,
				Message:    errResp.Message,
				StatusCode: resp.StatusCode,
			}
		}

		return nil, &GatewayError{
			Code:       "unexpected_status",
			Message:    string(body),
			StatusCode: resp.StatusCode,
		}
	}

	var gwResp Resp
	if err := json.NewDecoder(resp.Body).Decode(&gwResp); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}

	return &gwResp, nil
}
