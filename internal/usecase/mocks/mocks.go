package mocks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbase/goanchor/internal/domain"
	"github.com/finbase/goanchor/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc              func(ctx context.Context, account *domain.Account) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Account, error)
	ListFunc                func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	UpdateCachedBalanceFunc func(ctx context.Context, id string, balance decimal.Decimal, updatedAt time.Time) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

func (m *MockAccountRepository) UpdateCachedBalance(ctx context.Context, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateCachedBalanceFunc != nil {
		return m.UpdateCachedBalanceFunc(ctx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.CachedBalance = balance
		acc.UpdatedAt = updatedAt
	}
	return nil
}

// MockEntryRepository is a mock implementation of EntryRepository backed by
// an in-memory entry map.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.Entry

	FindAnchorFunc               func(ctx context.Context, accountID string, kind domain.ValuationKind) (*domain.Entry, error)
	FindReconciliationByDateFunc func(ctx context.Context, accountID string, date time.Time) (*domain.Entry, error)
	CountReconciliationsFunc     func(ctx context.Context, accountID string) (int64, error)
	MinTransactionDateFunc       func(ctx context.Context, accountID string) (*time.Time, error)
	MinReconciliationDateFunc    func(ctx context.Context, accountID string) (*time.Time, error)
	OldestEntryDateFunc          func(ctx context.Context, accountID, excludeEntryID string) (*time.Time, error)
	CreateValuationEntryFunc     func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	UpdateValuationEntryFunc     func(ctx context.Context, tx usecase.Transaction, entryID string, amount decimal.Decimal, date time.Time, updatedAt time.Time) error
	ListByAccountFunc            func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		entries: make(map[string]*domain.Entry),
	}
}

// Seed adds an entry directly to the backing store.
func (m *MockEntryRepository) Seed(entry *domain.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
}

// Get returns a stored entry by ID.
func (m *MockEntryRepository) Get(id string) *domain.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[id]
}

// Len returns the number of stored entries.
func (m *MockEntryRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MockEntryRepository) FindAnchor(ctx context.Context, accountID string, kind domain.ValuationKind) (*domain.Entry, error) {
	if m.FindAnchorFunc != nil {
		return m.FindAnchorFunc(ctx, accountID, kind)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.AccountID == accountID && e.Valuation != nil && e.Valuation.Kind == kind {
			return e, nil
		}
	}
	return nil, nil
}

func (m *MockEntryRepository) FindReconciliationByDate(ctx context.Context, accountID string, date time.Time) (*domain.Entry, error) {
	if m.FindReconciliationByDateFunc != nil {
		return m.FindReconciliationByDateFunc(ctx, accountID, date)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.AccountID == accountID && e.Valuation != nil && e.Valuation.Kind == domain.KindReconciliation && domain.SameDay(e.Date, date) {
			return e, nil
		}
	}
	return nil, nil
}

func (m *MockEntryRepository) CountReconciliations(ctx context.Context, accountID string) (int64, error) {
	if m.CountReconciliationsFunc != nil {
		return m.CountReconciliationsFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, e := range m.entries {
		if e.AccountID == accountID && e.Valuation != nil && e.Valuation.Kind == domain.KindReconciliation {
			count++
		}
	}
	return count, nil
}

func (m *MockEntryRepository) MinTransactionDate(ctx context.Context, accountID string) (*time.Time, error) {
	if m.MinTransactionDateFunc != nil {
		return m.MinTransactionDateFunc(ctx, accountID)
	}
	return m.minDate(func(e *domain.Entry) bool {
		return e.AccountID == accountID && e.Valuation == nil
	}), nil
}

func (m *MockEntryRepository) MinReconciliationDate(ctx context.Context, accountID string) (*time.Time, error) {
	if m.MinReconciliationDateFunc != nil {
		return m.MinReconciliationDateFunc(ctx, accountID)
	}
	return m.minDate(func(e *domain.Entry) bool {
		return e.AccountID == accountID && e.Valuation != nil && e.Valuation.Kind == domain.KindReconciliation
	}), nil
}

func (m *MockEntryRepository) OldestEntryDate(ctx context.Context, accountID, excludeEntryID string) (*time.Time, error) {
	if m.OldestEntryDateFunc != nil {
		return m.OldestEntryDateFunc(ctx, accountID, excludeEntryID)
	}
	return m.minDate(func(e *domain.Entry) bool {
		return e.AccountID == accountID && e.ID != excludeEntryID
	}), nil
}

func (m *MockEntryRepository) CreateValuationEntry(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.CreateValuationEntryFunc != nil {
		return m.CreateValuationEntryFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockEntryRepository) UpdateValuationEntry(ctx context.Context, tx usecase.Transaction, entryID string, amount decimal.Decimal, date time.Time, updatedAt time.Time) error {
	if m.UpdateValuationEntryFunc != nil {
		return m.UpdateValuationEntryFunc(ctx, tx, entryID, amount, date, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[entryID]
	if !ok {
		return domain.ErrEntryNotFound
	}
	e.Amount = amount
	e.Date = date
	e.UpdatedAt = updatedAt
	return nil
}

func (m *MockEntryRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.Entry
	for _, e := range m.entries {
		if e.AccountID == accountID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (m *MockEntryRepository) minDate(match func(*domain.Entry) bool) *time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var min *time.Time
	for _, e := range m.entries {
		if !match(e) {
			continue
		}
		d := domain.Day(e.Date)
		if min == nil || d.Before(*min) {
			min = &d
		}
	}
	return min
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "id-" + string(rune('0'+m.counter))
}

// MockCache is a mock implementation of Cache backed by an in-memory map.
// TTLs are recorded but never expire.
type MockCache struct {
	mu     sync.RWMutex
	values map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		values: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return nil, errCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Len reports the number of cached values.
func (m *MockCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

var errCacheMiss = errors.New("cache miss")
