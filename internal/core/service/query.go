package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sule1997/cinema-stream/internal/core/domain"
	"github.com/sule1997/cinema-stream/internal/core/ports"
)

// QueryService serves the read side: account snapshots for the storefront
// header, transaction history for the dashboard, and the processor float for
// the admin screen.
type QueryService struct {
	transactions ports.TransactionRepository
	accounts     ports.AccountRepository
	cache        ports.AccountCache
	gateway      ports.GatewayPort
}

func NewQueryService(
	transactions ports.TransactionRepository,
	accounts ports.AccountRepository,
	cache ports.AccountCache,
	gateway ports.GatewayPort,
) *QueryService {
	return &QueryService{
		transactions: transactions,
		accounts:     accounts,
		cache:        cache,
		gateway:      gateway,
	}
}

// GetAccount returns the display snapshot, cache-first. The cache is
// invalidated by settlement, so a hit is never staler than the last applied
// effect plus the TTL.
func (s *QueryService) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if account, ok := s.cache.Get(ctx, id); ok {
		return account, nil
	}

	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, account)
	return account, nil
}

// GetTransactionHistory returns an account's charge attempts, newest first.
func (s *QueryService) GetTransactionHistory(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*domain.Transaction, error) {
	return s.transactions.FindByAccountID(ctx, accountID, limit, offset)
}

// GetGatewayBalance reports the float held at the processor.
func (s *QueryService) GetGatewayBalance(ctx context.Context) (*domain.GatewayBalance, error) {
	return s.gateway.GetBalance(ctx)
}
