package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbase/goanchor/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	// UpdateCachedBalance writes the denormalized balance field in its own
	// storage transaction.
	UpdateCachedBalance(ctx context.Context, id string, balance decimal.Decimal, updatedAt time.Time) error
}

// EntryRepository defines data access for entries and their valuations.
// Anchor lookups resolve through the owning entry; a valuation row without
// a live entry is reported as absent, never as an error.
type EntryRepository interface {
	// FindAnchor returns the account's anchor entry of the given kind, or
	// nil when none (or only an orphaned valuation) exists.
	FindAnchor(ctx context.Context, accountID string, kind domain.ValuationKind) (*domain.Entry, error)
	FindReconciliationByDate(ctx context.Context, accountID string, date time.Time) (*domain.Entry, error)
	CountReconciliations(ctx context.Context, accountID string) (int64, error)
	MinTransactionDate(ctx context.Context, accountID string) (*time.Time, error)
	MinReconciliationDate(ctx context.Context, accountID string) (*time.Time, error)
	// OldestEntryDate returns the earliest entry date for the account,
	// skipping the entry with excludeEntryID when non-empty.
	OldestEntryDate(ctx context.Context, accountID, excludeEntryID string) (*time.Time, error)
	// CreateValuationEntry persists the entry and its valuation together
	// inside the caller's transaction.
	CreateValuationEntry(ctx context.Context, tx Transaction, entry *domain.Entry) error
	// UpdateValuationEntry mutates an existing valuation entry's amount and
	// date in place, preserving its identity.
	UpdateValuationEntry(ctx context.Context, tx Transaction, entryID string, amount decimal.Decimal, date time.Time, updatedAt time.Time) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error)
}

// ReconcileOutcome is the collaborator's verdict on a reconciliation request.
type ReconcileOutcome struct {
	Success      bool
	ErrorMessage string
}

// Reconciler records manually confirmed balances as reconciliation entries.
// It owns create-vs-update of the reconciliation entry itself; the engine
// only hands it the entry already existing for the given date, if any.
type Reconciler interface {
	ReconcileBalance(ctx context.Context, account *domain.Account, balance decimal.Decimal, date time.Time, existing *domain.Entry) ReconcileOutcome
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
