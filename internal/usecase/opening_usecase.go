package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finbase/goanchor/internal/domain"
	"github.com/finbase/goanchor/internal/infrastructure/metrics"
)

// OpeningBalanceUseCase resolves and maintains an account's opening anchor:
// the entry establishing the balance at the start of its tracked history.
type OpeningBalanceUseCase struct {
	txManager TransactionManager
	entryRepo EntryRepository
	idGen     IDGenerator
	logger    zerolog.Logger
}

// NewOpeningBalanceUseCase creates a new OpeningBalanceUseCase.
func NewOpeningBalanceUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	idGen IDGenerator,
	logger zerolog.Logger,
) *OpeningBalanceUseCase {
	return &OpeningBalanceUseCase{
		txManager: txManager,
		entryRepo: entryRepo,
		idGen:     idGen,
		logger:    logger,
	}
}

// HasOpeningAnchor reports whether the account has an opening anchor entry.
func (uc *OpeningBalanceUseCase) HasOpeningAnchor(ctx context.Context, account *domain.Account) (bool, error) {
	anchor, err := uc.entryRepo.FindAnchor(ctx, account.ID, domain.KindOpeningAnchor)
	if err != nil {
		return false, err
	}

	return anchor != nil, nil
}

// OpeningDate resolves the account's effective opening date. The anchor's
// date wins when one exists. Otherwise the earliest reconciliation date
// competes with the day before the earliest transaction, and an account
// with no entries at all opens today.
func (uc *OpeningBalanceUseCase) OpeningDate(ctx context.Context, account *domain.Account) (time.Time, error) {
	anchor, err := uc.entryRepo.FindAnchor(ctx, account.ID, domain.KindOpeningAnchor)
	if err != nil {
		return time.Time{}, err
	}
	if anchor != nil {
		return domain.Day(anchor.Date), nil
	}

	reconMin, err := uc.entryRepo.MinReconciliationDate(ctx, account.ID)
	if err != nil {
		return time.Time{}, err
	}

	txnMin, err := uc.entryRepo.MinTransactionDate(ctx, account.ID)
	if err != nil {
		return time.Time{}, err
	}

	switch {
	case reconMin != nil && txnMin != nil:
		return domain.MinDay(*reconMin, domain.DayBefore(*txnMin)), nil
	case reconMin != nil:
		return domain.Day(*reconMin), nil
	case txnMin != nil:
		return domain.DayBefore(*txnMin), nil
	default:
		return domain.Today(), nil
	}
}

// OpeningBalance returns the opening anchor's amount, or zero when no
// anchor exists or its valuation lost its entry.
func (uc *OpeningBalanceUseCase) OpeningBalance(ctx context.Context, account *domain.Account) (decimal.Decimal, error) {
	anchor, err := uc.entryRepo.FindAnchor(ctx, account.ID, domain.KindOpeningAnchor)
	if err != nil {
		return decimal.Zero, err
	}
	if anchor == nil {
		return decimal.Zero, nil
	}

	return anchor.Amount, nil
}

// SetOpeningBalance creates the opening anchor or updates it in place. The
// date defaults to the day before the oldest entry capped at the two-year
// lookback; an explicitly supplied date must precede the oldest entry
// (the anchor's own prior date never counts). The entry identity is stable
// across updates.
func (uc *OpeningBalanceUseCase) SetOpeningBalance(ctx context.Context, account *domain.Account, balance decimal.Decimal, date *time.Time) domain.Result {
	anchor, err := uc.entryRepo.FindAnchor(ctx, account.ID, domain.KindOpeningAnchor)
	if err != nil {
		return uc.fail("set_opening_balance", err)
	}

	excludeID := ""
	if anchor != nil {
		excludeID = anchor.ID
	}

	oldest, err := uc.entryRepo.OldestEntryDate(ctx, account.ID, excludeID)
	if err != nil {
		return uc.fail("set_opening_balance", err)
	}

	var resolvedDate time.Time
	if date != nil {
		resolvedDate = domain.Day(*date)
		// Only a caller-supplied date is validated; the computed default
		// is trusted as-is.
		if oldest != nil && !resolvedDate.Before(domain.Day(*oldest)) {
			return domain.Fail(domain.ErrOpeningDateTooLate.Error())
		}
	} else {
		resolvedDate = domain.DefaultOpeningDate(oldest, domain.Today())
	}

	if anchor == nil {
		return uc.createAnchor(ctx, account, balance, resolvedDate)
	}

	amountChanged := !anchor.Amount.Equal(balance)
	dateChanged := date != nil && !domain.SameDay(anchor.Date, resolvedDate)
	if !amountChanged && !dateChanged {
		return domain.Unchanged()
	}

	newDate := domain.Day(anchor.Date)
	if dateChanged {
		newDate = resolvedDate
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return uc.fail("set_opening_balance", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	if err := uc.entryRepo.UpdateValuationEntry(ctx, tx, anchor.ID, balance, newDate, now); err != nil {
		return uc.fail("set_opening_balance", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uc.fail("set_opening_balance", err)
	}

	metrics.AnchorsUpdated.WithLabelValues(string(domain.KindOpeningAnchor)).Inc()

	return domain.Changed()
}

func (uc *OpeningBalanceUseCase) createAnchor(ctx context.Context, account *domain.Account, balance decimal.Decimal, date time.Time) domain.Result {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return uc.fail("set_opening_balance", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	entry := &domain.Entry{
		ID:        uc.idGen.Generate(),
		AccountID: account.ID,
		Name:      OpeningAnchorName,
		Date:      date,
		Amount:    balance,
		Currency:  account.Currency,
		Valuation: &domain.Valuation{Kind: domain.KindOpeningAnchor},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.entryRepo.CreateValuationEntry(ctx, tx, entry); err != nil {
		return uc.fail("set_opening_balance", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uc.fail("set_opening_balance", err)
	}

	metrics.AnchorsCreated.WithLabelValues(string(domain.KindOpeningAnchor)).Inc()

	return domain.Changed()
}

func (uc *OpeningBalanceUseCase) fail(operation string, err error) domain.Result {
	uc.logger.Error().Err(err).Str("operation", operation).Msg("balance mutation failed")
	metrics.BalanceUpdateFailures.WithLabelValues(operation).Inc()

	return domain.Fail(err.Error())
}
