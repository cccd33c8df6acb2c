package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finbase/goanchor/internal/domain"
	"github.com/finbase/goanchor/internal/infrastructure/metrics"
)

// Strategy names as recorded in metrics.
const (
	strategyAnchorUpsert   = "anchor_upsert"
	strategyOpeningDelta   = "opening_delta"
	strategyReconciliation = "reconciliation"
)

// CurrentBalanceUseCase is the top-level entry point for balance updates.
// It classifies the account, dispatches exactly one of three strategies,
// then unconditionally writes the cached balance field and normalizes the
// outcome into a Result.
type CurrentBalanceUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	opening     *OpeningBalanceUseCase
	reconciler  Reconciler
	idGen       IDGenerator
	logger      zerolog.Logger
}

// NewCurrentBalanceUseCase creates a new CurrentBalanceUseCase.
func NewCurrentBalanceUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	opening *OpeningBalanceUseCase,
	reconciler Reconciler,
	idGen IDGenerator,
	logger zerolog.Logger,
) *CurrentBalanceUseCase {
	return &CurrentBalanceUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		opening:     opening,
		reconciler:  reconciler,
		idGen:       idGen,
		logger:      logger,
	}
}

// HasCurrentAnchor reports whether the account has a current anchor entry.
func (uc *CurrentBalanceUseCase) HasCurrentAnchor(ctx context.Context, account *domain.Account) (bool, error) {
	anchor, err := uc.entryRepo.FindAnchor(ctx, account.ID, domain.KindCurrentAnchor)
	if err != nil {
		return false, err
	}

	return anchor != nil, nil
}

// CurrentDate returns the current anchor's date, or today when none exists.
func (uc *CurrentBalanceUseCase) CurrentDate(ctx context.Context, account *domain.Account) (time.Time, error) {
	anchor, err := uc.entryRepo.FindAnchor(ctx, account.ID, domain.KindCurrentAnchor)
	if err != nil {
		return time.Time{}, err
	}
	if anchor == nil {
		return domain.Today(), nil
	}

	return domain.Day(anchor.Date), nil
}

// CurrentBalance returns the current anchor's amount. When no live anchor
// exists it falls back to the account's cached balance and emits a
// diagnostic warning; the fallback never fails the read.
func (uc *CurrentBalanceUseCase) CurrentBalance(ctx context.Context, account *domain.Account) (decimal.Decimal, error) {
	anchor, err := uc.entryRepo.FindAnchor(ctx, account.ID, domain.KindCurrentAnchor)
	if err != nil {
		return decimal.Zero, err
	}
	if anchor == nil {
		uc.logger.Warn().
			Str("account_id", account.ID).
			Str("cached_balance", account.CachedBalance.String()).
			Msg("no current anchor, serving cached balance")
		metrics.CachedBalanceFallbacks.Inc()

		return account.CachedBalance, nil
	}

	return anchor.Amount, nil
}

// SetCurrentBalance records a new target balance for the account. Linked
// accounts upsert their current anchor; manual cash accounts with no
// reconciliation history shift their opening anchor by the balance delta;
// everything else delegates to the reconciler. The cached balance field is
// written regardless of the strategy outcome so reads reflect the request
// immediately.
func (uc *CurrentBalanceUseCase) SetCurrentBalance(ctx context.Context, account *domain.Account, balance decimal.Decimal) domain.Result {
	strategyResult := uc.runStrategy(ctx, account, balance)

	now := time.Now().UTC()
	if err := uc.accountRepo.UpdateCachedBalance(ctx, account.ID, balance, now); err != nil {
		// A failed cache write overrides whatever the strategy produced.
		uc.logger.Error().Err(err).Str("account_id", account.ID).Msg("cached balance write failed")
		metrics.BalanceUpdateFailures.WithLabelValues("set_current_balance").Inc()

		return domain.Fail(err.Error())
	}
	account.CachedBalance = balance

	if !strategyResult.Success {
		// Failed strategies report changes_made=true regardless of what
		// actually happened; callers depend on this shape.
		return domain.Result{Success: false, ChangesMade: true, Error: strategyResult.Error}
	}

	return strategyResult
}

func (uc *CurrentBalanceUseCase) runStrategy(ctx context.Context, account *domain.Account, balance decimal.Decimal) domain.Result {
	if account.IsLinked() {
		metrics.BalanceStrategies.WithLabelValues(strategyAnchorUpsert).Inc()
		return uc.upsertCurrentAnchor(ctx, account, balance)
	}

	if account.IsCashType() {
		reconCount, err := uc.entryRepo.CountReconciliations(ctx, account.ID)
		if err != nil {
			return uc.fail(err)
		}
		if reconCount == 0 {
			metrics.BalanceStrategies.WithLabelValues(strategyOpeningDelta).Inc()
			return uc.adjustOpeningBalance(ctx, account, balance)
		}
	}

	metrics.BalanceStrategies.WithLabelValues(strategyReconciliation).Inc()

	return uc.reconcile(ctx, account, balance)
}

// upsertCurrentAnchor creates or moves the single current anchor. Updates
// always stamp the anchor with today's date; the entry identity survives.
func (uc *CurrentBalanceUseCase) upsertCurrentAnchor(ctx context.Context, account *domain.Account, balance decimal.Decimal) domain.Result {
	anchor, err := uc.entryRepo.FindAnchor(ctx, account.ID, domain.KindCurrentAnchor)
	if err != nil {
		return uc.fail(err)
	}

	today := domain.Today()
	now := time.Now().UTC()

	if anchor == nil {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return uc.fail(err)
		}
		defer tx.Rollback(ctx)

		entry := &domain.Entry{
			ID:        uc.idGen.Generate(),
			AccountID: account.ID,
			Name:      CurrentAnchorName,
			Date:      today,
			Amount:    balance,
			Currency:  account.Currency,
			Valuation: &domain.Valuation{Kind: domain.KindCurrentAnchor},
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := uc.entryRepo.CreateValuationEntry(ctx, tx, entry); err != nil {
			return uc.fail(err)
		}
		if err := tx.Commit(ctx); err != nil {
			return uc.fail(err)
		}

		metrics.AnchorsCreated.WithLabelValues(string(domain.KindCurrentAnchor)).Inc()

		return domain.Changed()
	}

	amountChanged := !anchor.Amount.Equal(balance)
	dateChanged := !domain.SameDay(anchor.Date, today)
	if !amountChanged && !dateChanged {
		return domain.Unchanged()
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return uc.fail(err)
	}
	defer tx.Rollback(ctx)

	if err := uc.entryRepo.UpdateValuationEntry(ctx, tx, anchor.ID, balance, today, now); err != nil {
		return uc.fail(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return uc.fail(err)
	}

	metrics.AnchorsUpdated.WithLabelValues(string(domain.KindCurrentAnchor)).Inc()

	return domain.Changed()
}

// adjustOpeningBalance shifts the opening anchor by the difference between
// the requested balance and the cached one, keeping the anchor's date.
// Simple manual accounts stay free of reconciliation clutter this way.
func (uc *CurrentBalanceUseCase) adjustOpeningBalance(ctx context.Context, account *domain.Account, balance decimal.Decimal) domain.Result {
	openingBalance, err := uc.opening.OpeningBalance(ctx, account)
	if err != nil {
		return uc.fail(err)
	}

	delta := balance.Sub(account.CachedBalance)

	return uc.opening.SetOpeningBalance(ctx, account, openingBalance.Add(delta), nil)
}

func (uc *CurrentBalanceUseCase) reconcile(ctx context.Context, account *domain.Account, balance decimal.Decimal) domain.Result {
	today := domain.Today()

	existing, err := uc.entryRepo.FindReconciliationByDate(ctx, account.ID, today)
	if err != nil {
		return uc.fail(err)
	}

	outcome := uc.reconciler.ReconcileBalance(ctx, account, balance, today, existing)
	if !outcome.Success {
		return domain.Fail(outcome.ErrorMessage)
	}

	return domain.Changed()
}

func (uc *CurrentBalanceUseCase) fail(err error) domain.Result {
	uc.logger.Error().Err(err).Msg("balance strategy failed")
	metrics.BalanceUpdateFailures.WithLabelValues("set_current_balance").Inc()

	return domain.Fail(err.Error())
}
