package ports

import (
	"context"

	"github.com/sule1997/cinema-stream/internal/core/domain"
)

// GatewayPort defines the behavior of the external mobile-money processor.
type GatewayPort interface {
	CreateCharge(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeResponse, error)
	GetStatus(ctx context.Context, reference string) (*domain.StatusResponse, error)
	GetBalance(ctx context.Context) (*domain.GatewayBalance, error)
}
