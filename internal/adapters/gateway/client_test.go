package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sule1997/cinema-stream/internal/config"
	"github.com/sule1997/cinema-stream/internal/core/domain"
)

func newTestClient(url string) *HTTPGatewayClient {
	return &HTTPGatewayClient{
		baseURL: url,
		apiKey:  "test-key",
		httpClient: &http.Client{
			Timeout: 2 * time.Second,
		},
	}
}

func TestCreateCharge_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/create-transaction", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req createTransactionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "255712345678", req.Number)
		assert.Equal(t, int64(1000), req.Amount)

		json.NewEncoder(w).Encode(createTransactionResponse{
			TranID:  "tran-abc",
			Status:  "initiated",
			Message: "dial *150*00# to approve",
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	resp, err := client.CreateCharge(context.Background(), domain.ChargeRequest{
		PhoneNumber: "255712345678",
		AmountCents: 1000,
		Name:        "Neema",
	})
	require.NoError(t, err)

	assert.Equal(t, "tran-abc", resp.Reference)
	assert.Equal(t, "initiated", resp.RawStatus)
}

func TestCreateCharge_AlternateReferenceField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"transaction_id": "tran-alt",
			"status":         "pending",
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	resp, err := client.CreateCharge(context.Background(), domain.ChargeRequest{
		PhoneNumber: "255712345678",
		AmountCents: 1000,
	})
	require.NoError(t, err)

	assert.Equal(t, "tran-alt", resp.Reference)
}

func TestCreateCharge_MissingReference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "initiated"})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	_, err := client.CreateCharge(context.Background(), domain.ChargeRequest{
		PhoneNumber: "255712345678",
		AmountCents: 1000,
	})
	require.Error(t, err)

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "missing_reference", gwErr.Code)
}

func TestCreateCharge_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(GatewayErrorResponse{
			Err:     "invalid_api_key",
			Message: "API key is invalid",
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	_, err := client.CreateCharge(context.Background(), domain.ChargeRequest{
		PhoneNumber: "255712345678",
		AmountCents: 1000,
	})
	require.Error(t, err)

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "invalid_api_key", gwErr.Code)
	assert.Equal(t, http.StatusUnauthorized, gwErr.StatusCode)
}

func TestGetStatus_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/status-transaction", r.URL.Path)
		assert.Equal(t, "tran-abc", r.URL.Query().Get("tranid"))

		json.NewEncoder(w).Encode(statusTransactionResponse{Status: "success"})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	resp, err := client.GetStatus(context.Background(), "tran-abc")
	require.NoError(t, err)

	assert.Equal(t, "tran-abc", resp.Reference)
	assert.Equal(t, "success", resp.RawStatus)
}

func TestGetStatus_AlternateStatusField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"transaction_status": "failed"})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	resp, err := client.GetStatus(context.Background(), "tran-abc")
	require.NoError(t, err)

	assert.Equal(t, "failed", resp.RawStatus)
}

func TestGetBalance_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/balance", r.URL.Path)
		json.NewEncoder(w).Encode(balanceResponse{Balance: 250000.50, Currency: "TZS"})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	balance, err := client.GetBalance(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 250000.50, balance.Amount)
	assert.Equal(t, "TZS", balance.Currency)
}

func TestNewGatewayClient_UsesConfig(t *testing.T) {
	port := NewGatewayClient(config.GatewayConfig{
		BaseURL:     "https://pay.example.com",
		APIKey:      "k",
		ConnTimeout: 5 * time.Second,
	})

	client, ok := port.(*HTTPGatewayClient)
	require.True(t, ok)
	assert.Equal(t, "https://pay.example.com", client.baseURL)
}
