package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbase/goanchor/internal/usecase"
)

// DateFormat is the wire format for entry dates.
const DateFormat = "2006-01-02"

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Subtype  string `json:"subtype"`
	Linked   bool   `json:"linked"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name:     r.Name,
		Currency: r.Currency,
		Subtype:  r.Subtype,
		Linked:   r.Linked,
	}
}

// SetOpeningBalanceRequest represents a request to set the opening anchor.
// Date is optional; when omitted the engine resolves a default.
type SetOpeningBalanceRequest struct {
	Balance decimal.Decimal `json:"balance"`
	Date    *string         `json:"date,omitempty"`
}

// ParseDate returns the explicitly supplied date, or nil.
func (r *SetOpeningBalanceRequest) ParseDate() (*time.Time, error) {
	if r.Date == nil {
		return nil, nil
	}

	t, err := time.Parse(DateFormat, *r.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected %s", *r.Date, DateFormat)
	}

	return &t, nil
}

// SetCurrentBalanceRequest represents a request to set the current balance.
type SetCurrentBalanceRequest struct {
	Balance decimal.Decimal `json:"balance"`
}
