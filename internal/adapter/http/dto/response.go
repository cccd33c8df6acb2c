package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbase/goanchor/internal/domain"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Currency      string          `json:"currency"`
	Subtype       string          `json:"subtype"`
	Linked        bool            `json:"linked"`
	CachedBalance decimal.Decimal `json:"cached_balance"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:            a.ID,
		Name:          a.Name,
		Currency:      a.Currency,
		Subtype:       a.Subtype,
		Linked:        a.Linked,
		CachedBalance: a.CachedBalance,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps an account listing.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID            string          `json:"id"`
	AccountID     string          `json:"account_id"`
	Name          string          `json:"name"`
	Date          string          `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	ValuationKind string          `json:"valuation_kind,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	resp := &EntryResponse{
		ID:        e.ID,
		AccountID: e.AccountID,
		Name:      e.Name,
		Date:      e.Date.Format(DateFormat),
		Amount:    e.Amount,
		Currency:  e.Currency,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	if e.Valuation != nil {
		resp.ValuationKind = string(e.Valuation.Kind)
	}
	return resp
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// BalancesResponse is the combined opening/current balance view.
type BalancesResponse struct {
	AccountID      string          `json:"account_id"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	OpeningDate    string          `json:"opening_date"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	CurrentDate    string          `json:"current_date"`
	CachedBalance  decimal.Decimal `json:"cached_balance"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
