// Package reconciliation provides the storage-backed implementation of the
// engine's Reconciler port. The balance engine consumes it; it never
// reaches back into the engine.
package reconciliation

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finbase/goanchor/internal/domain"
	"github.com/finbase/goanchor/internal/usecase"
)

// Writer records manually confirmed balances as reconciliation entries,
// creating one per distinct date and updating in place when an entry for
// the requested date already exists.
type Writer struct {
	txManager usecase.TransactionManager
	entryRepo usecase.EntryRepository
	idGen     usecase.IDGenerator
	logger    zerolog.Logger
}

// NewWriter creates a new Writer.
func NewWriter(
	txManager usecase.TransactionManager,
	entryRepo usecase.EntryRepository,
	idGen usecase.IDGenerator,
	logger zerolog.Logger,
) *Writer {
	return &Writer{
		txManager: txManager,
		entryRepo: entryRepo,
		idGen:     idGen,
		logger:    logger,
	}
}

// ReconcileBalance implements usecase.Reconciler.
func (w *Writer) ReconcileBalance(ctx context.Context, account *domain.Account, balance decimal.Decimal, date time.Time, existing *domain.Entry) usecase.ReconcileOutcome {
	tx, err := w.txManager.Begin(ctx)
	if err != nil {
		return w.fail(account.ID, err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	if existing != nil {
		if err := w.entryRepo.UpdateValuationEntry(ctx, tx, existing.ID, balance, domain.Day(date), now); err != nil {
			return w.fail(account.ID, err)
		}
	} else {
		entry := &domain.Entry{
			ID:        w.idGen.Generate(),
			AccountID: account.ID,
			Name:      usecase.ReconciliationName,
			Date:      domain.Day(date),
			Amount:    balance,
			Currency:  account.Currency,
			Valuation: &domain.Valuation{Kind: domain.KindReconciliation},
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := w.entryRepo.CreateValuationEntry(ctx, tx, entry); err != nil {
			return w.fail(account.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return w.fail(account.ID, err)
	}

	return usecase.ReconcileOutcome{Success: true}
}

func (w *Writer) fail(accountID string, err error) usecase.ReconcileOutcome {
	w.logger.Error().Err(err).Str("account_id", accountID).Msg("reconciliation write failed")

	return usecase.ReconcileOutcome{ErrorMessage: err.Error()}
}
