package gateway

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sule1997/cinema-stream/internal/config"
	"github.com/sule1997/cinema-stream/internal/core/domain"
	"github.com/sule1997/cinema-stream/internal/core/ports"
)

// RetryGatewayClient wraps charge creation with exponential backoff. Only the
// initiation path goes through it: the reconciler's polling loop already has
// its own attempt budget and treats a failed check as one consumed slot, so
// stacking retries under a poll would multiply gateway traffic.
type RetryGatewayClient struct {
	inner      ports.GatewayPort
	baseDelay  time.Duration
	maxRetries int
}

func NewRetryGatewayClient(inner ports.GatewayPort, cfg config.RetryConfig) ports.GatewayPort {
	return &RetryGatewayClient{
		inner:      inner,
		baseDelay:  time.Duration(cfg.BaseDelay) * time.Second,
		maxRetries: int(cfg.MaxRetries),
	}
}

// CreateCharge with retry logic
func (r *RetryGatewayClient) CreateCharge(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeResponse, error) {
	return retry[domain.ChargeResponse](
		r,
		ctx,
		func(ctx context.Context) (*domain.ChargeResponse, error) {
			return r.inner.CreateCharge(ctx, req)
		},
	)
}

// GetStatus passes through; polling loops own their retry budget.
func (r *RetryGatewayClient) GetStatus(ctx context.Context, reference string) (*domain.StatusResponse, error) {
	return r.inner.GetStatus(ctx, reference)
}

// GetBalance with retry logic
func (r *RetryGatewayClient) GetBalance(ctx context.Context) (*domain.GatewayBalance, error) {
	return retry[domain.GatewayBalance](
		r,
		ctx,
		func(ctx context.Context) (*domain.GatewayBalance, error) {
			return r.inner.GetBalance(ctx)
		},
	)
}

// Generic retry helper
func retry[T any](r *RetryGatewayClient, ctx context.Context, operation func(ctx context.Context) (*T, error)) (*T, error) {
	var lastErr error

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		resp, err := operation(ctx)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}

		if attempt < r.maxRetries-1 {
			time.Sleep(r.backoff(attempt))
		}
	}

	return nil, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

// Helper: to check retryable errors
func isRetryable(err error) bool {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		if gwErr.StatusCode >= 500 {
			return true
		}

		if gwErr.Code == "internal_error" {
			return true
		}

		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	return true
}

// Backoff calculation with exponential delay and jitter
func (r *RetryGatewayClient) backoff(attempt int) time.Duration {
	base := r.baseDelay * time.Duration(1<<attempt)

	jitter := time.Duration(rand.Intn(1000)) * time.Millisecond

	return base + jitter
}
