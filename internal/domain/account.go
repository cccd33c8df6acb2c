package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account subtypes eligible for the opening-delta strategy. Everything
// else (property, vehicle, loan, ...) reconciles instead.
var cashSubtypes = map[string]bool{
	"checking":     true,
	"savings":      true,
	"cash":         true,
	"money_market": true,
}

// Account represents a tracked financial account. CachedBalance is a
// denormalized copy of the latest known balance kept for fast reads; the
// authoritative values live in the account's anchor entries.
type Account struct {
	ID            string
	Name          string
	Currency      string
	Subtype       string
	Linked        bool
	CachedBalance decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLinked reports whether the account balance is populated by an external
// synchronization source rather than direct user entry.
func (a *Account) IsLinked() bool {
	return a.Linked
}

// IsCashType reports whether the account subtype belongs to the cash family.
func (a *Account) IsCashType() bool {
	return cashSubtypes[a.Subtype]
}
