package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbase/goanchor/internal/domain"
	"github.com/finbase/goanchor/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository with raw SQL. Anchor
// lookups inner-join valuations to entries, so a valuation row whose entry
// is gone simply never surfaces.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

const valuationEntryQuery = `
	SELECT e.id, e.account_id, e.name, e.entry_date, e.amount, e.currency,
	       v.id, v.kind, e.created_at, e.updated_at
	FROM valuations v
	JOIN entries e ON e.id = v.entry_id
`

// FindAnchor returns the account's anchor entry of the given kind, or nil
// when none exists.
func (r *EntryRepository) FindAnchor(ctx context.Context, accountID string, kind domain.ValuationKind) (*domain.Entry, error) {
	query := valuationEntryQuery + `WHERE v.account_id = $1 AND v.kind = $2`

	entry, err := scanValuationEntry(r.pool.QueryRow(ctx, query, accountID, string(kind)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return entry, nil
}

// FindReconciliationByDate returns the reconciliation entry for the given
// calendar date, or nil.
func (r *EntryRepository) FindReconciliationByDate(ctx context.Context, accountID string, date time.Time) (*domain.Entry, error) {
	query := valuationEntryQuery + `WHERE v.account_id = $1 AND v.kind = $2 AND e.entry_date = $3`

	entry, err := scanValuationEntry(r.pool.QueryRow(ctx, query, accountID, string(domain.KindReconciliation), dateToPgDate(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return entry, nil
}

// CountReconciliations counts the account's reconciliation entries.
func (r *EntryRepository) CountReconciliations(ctx context.Context, accountID string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM valuations v
		JOIN entries e ON e.id = v.entry_id
		WHERE v.account_id = $1 AND v.kind = $2
	`

	var count int64
	err := r.pool.QueryRow(ctx, query, accountID, string(domain.KindReconciliation)).Scan(&count)

	return count, err
}

// MinTransactionDate returns the earliest transaction date, or nil when the
// account has no transactions.
func (r *EntryRepository) MinTransactionDate(ctx context.Context, accountID string) (*time.Time, error) {
	query := `
		SELECT MIN(e.entry_date)
		FROM entries e
		LEFT JOIN valuations v ON v.entry_id = e.id
		WHERE e.account_id = $1 AND v.entry_id IS NULL
	`

	return r.scanMinDate(ctx, query, accountID)
}

// MinReconciliationDate returns the earliest reconciliation date, or nil.
func (r *EntryRepository) MinReconciliationDate(ctx context.Context, accountID string) (*time.Time, error) {
	query := `
		SELECT MIN(e.entry_date)
		FROM entries e
		JOIN valuations v ON v.entry_id = e.id
		WHERE e.account_id = $1 AND v.kind = '` + string(domain.KindReconciliation) + `'
	`

	return r.scanMinDate(ctx, query, accountID)
}

// OldestEntryDate returns the earliest entry date, skipping excludeEntryID
// when non-empty.
func (r *EntryRepository) OldestEntryDate(ctx context.Context, accountID, excludeEntryID string) (*time.Time, error) {
	query := `
		SELECT MIN(entry_date)
		FROM entries
		WHERE account_id = $1 AND ($2 = '' OR id <> $2)
	`

	return r.scanMinDate(ctx, query, accountID, excludeEntryID)
}

// CreateValuationEntry persists the entry and its valuation inside the
// caller's transaction; either both rows land or neither does.
func (r *EntryRepository) CreateValuationEntry(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	pgxTx := tx.(*Tx).PgxTx()

	entryQuery := `
		INSERT INTO entries (id, account_id, name, entry_date, amount, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := pgxTx.Exec(ctx, entryQuery,
		entry.ID,
		entry.AccountID,
		entry.Name,
		dateToPgDate(entry.Date),
		decimalToNumeric(entry.Amount),
		entry.Currency,
		timeToPgTimestamptz(entry.CreatedAt),
		timeToPgTimestamptz(entry.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if entry.Valuation.ID == "" {
		entry.Valuation.ID = uuid.New().String()
	}

	valuationQuery := `
		INSERT INTO valuations (id, entry_id, account_id, kind)
		VALUES ($1, $2, $3, $4)
	`

	_, err = pgxTx.Exec(ctx, valuationQuery,
		entry.Valuation.ID,
		entry.ID,
		entry.AccountID,
		string(entry.Valuation.Kind),
	)

	return err
}

// UpdateValuationEntry mutates a valuation entry's amount and date in place.
func (r *EntryRepository) UpdateValuationEntry(ctx context.Context, tx usecase.Transaction, entryID string, amount decimal.Decimal, date time.Time, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `UPDATE entries SET amount = $2, entry_date = $3, updated_at = $4 WHERE id = $1`

	tag, err := pgxTx.Exec(ctx, query, entryID, decimalToNumeric(amount), dateToPgDate(date), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// ListByAccount lists an account's entries ordered by date.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	query := `
		SELECT e.id, e.account_id, e.name, e.entry_date, e.amount, e.currency,
		       v.id, v.kind, e.created_at, e.updated_at
		FROM entries e
		LEFT JOIN valuations v ON v.entry_id = e.id
		WHERE e.account_id = $1
		ORDER BY e.entry_date, e.created_at
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.Entry
	for rows.Next() {
		entry, err := scanEntryRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (r *EntryRepository) scanMinDate(ctx context.Context, query string, args ...any) (*time.Time, error) {
	var min pgtype.Date
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&min); err != nil {
		return nil, err
	}
	if !min.Valid {
		return nil, nil
	}

	d := domain.Day(min.Time)

	return &d, nil
}

func scanValuationEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		entry       domain.Entry
		entryDate   pgtype.Date
		amount      pgtype.Numeric
		valuationID string
		kind        string
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID,
		&entry.AccountID,
		&entry.Name,
		&entryDate,
		&amount,
		&entry.Currency,
		&valuationID,
		&kind,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Date = domain.Day(entryDate.Time)
	entry.Amount = numericToDecimal(amount)
	entry.Valuation = &domain.Valuation{ID: valuationID, Kind: domain.ValuationKind(kind)}
	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time

	return &entry, nil
}

func scanEntryRow(row pgx.Row) (*domain.Entry, error) {
	var (
		entry       domain.Entry
		entryDate   pgtype.Date
		amount      pgtype.Numeric
		valuationID *string
		kind        *string
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID,
		&entry.AccountID,
		&entry.Name,
		&entryDate,
		&amount,
		&entry.Currency,
		&valuationID,
		&kind,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Date = domain.Day(entryDate.Time)
	entry.Amount = numericToDecimal(amount)
	if valuationID != nil && kind != nil {
		entry.Valuation = &domain.Valuation{ID: *valuationID, Kind: domain.ValuationKind(*kind)}
	}
	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time

	return &entry, nil
}
