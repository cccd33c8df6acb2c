package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuationKind tags a valuation entry.
type ValuationKind string

const (
	KindOpeningAnchor  ValuationKind = "opening_anchor"
	KindCurrentAnchor  ValuationKind = "current_anchor"
	KindReconciliation ValuationKind = "reconciliation"
)

// Valuation marks its owning entry as a known balance point rather than a
// balance-changing activity. Amount and date are always read through the
// owning entry.
type Valuation struct {
	ID   string
	Kind ValuationKind
}

// Entry is a dated financial record belonging to exactly one account. An
// entry without a valuation is a transaction. At most one entry per account
// may carry an opening anchor, and at most one a current anchor.
type Entry struct {
	ID        string
	AccountID string
	Name      string
	Date      time.Time
	Amount    decimal.Decimal
	Currency  string
	Valuation *Valuation
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTransaction reports whether the entry records balance-changing activity.
func (e *Entry) IsTransaction() bool {
	return e.Valuation == nil
}

// IsAnchor reports whether the entry establishes an opening or current
// balance point.
func (e *Entry) IsAnchor() bool {
	if e.Valuation == nil {
		return false
	}
	return e.Valuation.Kind == KindOpeningAnchor || e.Valuation.Kind == KindCurrentAnchor
}
