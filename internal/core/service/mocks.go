package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sule1997/cinema-stream/internal/core/domain"
	"github.com/sule1997/cinema-stream/internal/core/ports"
)

// MockTransactionRepository
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction // keyed by reference

	InsertFn           func(ctx context.Context, t *domain.Transaction) error
	FindByIDFn         func(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	FindByReferenceFn  func(ctx context.Context, reference string) (*domain.Transaction, error)
	FindStalePendingFn func(ctx context.Context, olderThan time.Duration, limit int) ([]*domain.Transaction, error)
	UpdateStatusFn     func(ctx context.Context, id uuid.UUID, status domain.TransactionStatus) error
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[string]*domain.Transaction),
	}
}

func (m *MockTransactionRepository) Insert(ctx context.Context, t *domain.Transaction) error {
	if m.InsertFn != nil {
		return m.InsertFn(ctx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.transactions[t.Reference] = &cp
	return nil
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.transactions {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.NewTransactionNotFoundError(id.String())
}

func (m *MockTransactionRepository) FindByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	if m.FindByReferenceFn != nil {
		return m.FindByReferenceFn(ctx, reference)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transactions[reference]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, domain.NewTransactionNotFoundError(reference)
}

func (m *MockTransactionRepository) FindByReferenceForUpdate(ctx context.Context, reference string) (*domain.Transaction, error) {
	return m.FindByReference(ctx, reference)
}

func (m *MockTransactionRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var results []*domain.Transaction
	for _, t := range m.transactions {
		if t.AccountID == accountID {
			cp := *t
			results = append(results, &cp)
		}
	}
	return results, nil
}

func (m *MockTransactionRepository) FindStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]*domain.Transaction, error) {
	if m.FindStalePendingFn != nil {
		return m.FindStalePendingFn(ctx, olderThan, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	cutoff := time.Now().Add(-olderThan)
	var results []*domain.Transaction
	for _, t := range m.transactions {
		if t.Status == domain.StatusPending && t.CreatedAt.Before(cutoff) {
			cp := *t
			results = append(results, &cp)
			if len(results) == limit {
				break
			}
		}
	}
	return results, nil
}

// UpdateStatus mirrors the conditional write of the real repository: only a
// pending row transitions, anything else reports ALREADY_FINALIZED.
func (m *MockTransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TransactionStatus) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.transactions {
		if t.ID == id {
			if t.Status != domain.StatusPending {
				return domain.NewAlreadyFinalizedError(t.Reference, t.Status)
			}
			t.Status = status
			t.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.NewTransactionNotFoundError(id.String())
}

// Count returns the number of stored transactions.
func (m *MockTransactionRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.transactions)
}

// MockAccountRepository
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*domain.Account

	CreditCalls int
	ExtendCalls int

	FindByIDFn           func(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	CreditBalanceFn      func(ctx context.Context, id uuid.UUID, amountCents int64) error
	ExtendSubscriptionFn func(ctx context.Context, id uuid.UUID, period time.Duration) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[uuid.UUID]*domain.Account),
	}
}

func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *account
	m.accounts[account.ID] = &cp
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.accounts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, domain.NewAccountNotFoundError(id.String())
}

func (m *MockAccountRepository) CreditBalance(ctx context.Context, id uuid.UUID, amountCents int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreditCalls++
	if m.CreditBalanceFn != nil {
		return m.CreditBalanceFn(ctx, id, amountCents)
	}
	a, ok := m.accounts[id]
	if !ok {
		return domain.NewAccountNotFoundError(id.String())
	}
	a.BalanceCents += amountCents
	return nil
}

// ExtendSubscription applies the same stacking rule as the real repository:
// one period from max(now, current expiry).
func (m *MockAccountRepository) ExtendSubscription(ctx context.Context, id uuid.UUID, period time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExtendCalls++
	if m.ExtendSubscriptionFn != nil {
		return m.ExtendSubscriptionFn(ctx, id, period)
	}
	a, ok := m.accounts[id]
	if !ok {
		return domain.NewAccountNotFoundError(id.String())
	}
	next := a.NextExpiry(time.Now(), period)
	a.SubscriptionExpiresAt = &next
	return nil
}

func (m *MockAccountRepository) Balance(id uuid.UUID) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.accounts[id]; ok {
		return a.BalanceCents
	}
	return 0
}

func (m *MockAccountRepository) Expiry(id uuid.UUID) *time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.accounts[id]; ok {
		return a.SubscriptionExpiresAt
	}
	return nil
}

// MockUnitOfWork hands the mock repositories straight to the function. A
// mutex serializes concurrent calls the way the row lock does in Postgres, so
// races between settlers resolve the same way they would against the real
// database.
type MockUnitOfWork struct {
	mu           sync.Mutex
	Transactions *MockTransactionRepository
	Accounts     *MockAccountRepository

	WithinTxFn func(ctx context.Context, fn func(ports.TransactionRepository, ports.AccountRepository) error) error
}

func NewMockUnitOfWork(transactions *MockTransactionRepository, accounts *MockAccountRepository) *MockUnitOfWork {
	return &MockUnitOfWork{
		Transactions: transactions,
		Accounts:     accounts,
	}
}

func (m *MockUnitOfWork) WithinTx(ctx context.Context, fn func(ports.TransactionRepository, ports.AccountRepository) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.Transactions, m.Accounts)
}

// MockGatewayPort
type MockGatewayPort struct {
	mu    sync.Mutex
	calls map[string]int

	CreateChargeFn func(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeResponse, error)
	GetStatusFn    func(ctx context.Context, reference string) (*domain.StatusResponse, error)
	GetBalanceFn   func(ctx context.Context) (*domain.GatewayBalance, error)
}

func (m *MockGatewayPort) inc(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

func (m *MockGatewayPort) GetCalls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MockGatewayPort) CreateCharge(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeResponse, error) {
	m.inc("CreateCharge")
	if m.CreateChargeFn != nil {
		return m.CreateChargeFn(ctx, req)
	}
	return &domain.ChargeResponse{
		Reference: "tran-123",
		RawStatus: "initiated",
	}, nil
}

func (m *MockGatewayPort) GetStatus(ctx context.Context, reference string) (*domain.StatusResponse, error) {
	m.inc("GetStatus")
	if m.GetStatusFn != nil {
		return m.GetStatusFn(ctx, reference)
	}
	return &domain.StatusResponse{
		Reference: reference,
		RawStatus: "pending",
	}, nil
}

func (m *MockGatewayPort) GetBalance(ctx context.Context) (*domain.GatewayBalance, error) {
	m.inc("GetBalance")
	if m.GetBalanceFn != nil {
		return m.GetBalanceFn(ctx)
	}
	return &domain.GatewayBalance{Amount: 100000, Currency: "TZS"}, nil
}

// MockAccountCache
type MockAccountCache struct {
	mu          sync.Mutex
	entries     map[uuid.UUID]*domain.Account
	Invalidated []uuid.UUID
}

func NewMockAccountCache() *MockAccountCache {
	return &MockAccountCache{
		entries: make(map[uuid.UUID]*domain.Account),
	}
}

func (m *MockAccountCache) Get(ctx context.Context, id uuid.UUID) (*domain.Account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.entries[id]
	return a, ok
}

func (m *MockAccountCache) Set(ctx context.Context, account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[account.ID] = account
}

func (m *MockAccountCache) Invalidate(ctx context.Context, id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	m.Invalidated = append(m.Invalidated, id)
}

// MockScheduler records the transactions handed to the reconciler.
type MockScheduler struct {
	mu      sync.Mutex
	Watched []*domain.Transaction
}

func (m *MockScheduler) Watch(t *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Watched = append(m.Watched, t)
}

func (m *MockScheduler) WatchedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Watched)
}
