package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/finbase/goanchor/internal/adapter/http/dto"
	"github.com/finbase/goanchor/internal/domain"
)

// OpeningBalanceService resolves and mutates the opening anchor.
type OpeningBalanceService interface {
	OpeningBalance(ctx context.Context, account *domain.Account) (decimal.Decimal, error)
	OpeningDate(ctx context.Context, account *domain.Account) (time.Time, error)
	SetOpeningBalance(ctx context.Context, account *domain.Account, balance decimal.Decimal, date *time.Time) domain.Result
}

// CurrentBalanceService resolves and mutates the current balance.
type CurrentBalanceService interface {
	CurrentBalance(ctx context.Context, account *domain.Account) (decimal.Decimal, error)
	CurrentDate(ctx context.Context, account *domain.Account) (time.Time, error)
	SetCurrentBalance(ctx context.Context, account *domain.Account, balance decimal.Decimal) domain.Result
}

// AccountInvalidator fetches accounts and drops their cached representation
// after balance writes.
type AccountInvalidator interface {
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	InvalidateAccount(ctx context.Context, id string)
}

// BalanceHandler handles balance resolution and mutation requests.
type BalanceHandler struct {
	accounts AccountInvalidator
	opening  OpeningBalanceService
	current  CurrentBalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(accounts AccountInvalidator, opening OpeningBalanceService, current CurrentBalanceService) *BalanceHandler {
	return &BalanceHandler{
		accounts: accounts,
		opening:  opening,
		current:  current,
	}
}

// GetBalances returns the resolved opening and current balance view.
func (h *BalanceHandler) GetBalances(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	account, ok := h.loadAccount(w, r)
	if !ok {
		return
	}

	openingBalance, err := h.opening.OpeningBalance(ctx, account)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to resolve opening balance", err.Error())
		return
	}

	openingDate, err := h.opening.OpeningDate(ctx, account)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to resolve opening date", err.Error())
		return
	}

	currentBalance, err := h.current.CurrentBalance(ctx, account)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to resolve current balance", err.Error())
		return
	}

	currentDate, err := h.current.CurrentDate(ctx, account)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to resolve current date", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesResponse{
		AccountID:      account.ID,
		OpeningBalance: openingBalance,
		OpeningDate:    openingDate.Format(dto.DateFormat),
		CurrentBalance: currentBalance,
		CurrentDate:    currentDate.Format(dto.DateFormat),
		CachedBalance:  account.CachedBalance,
	})
}

// SetOpening sets or moves the opening anchor.
func (h *BalanceHandler) SetOpening(w http.ResponseWriter, r *http.Request) {
	var req dto.SetOpeningBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	date, err := req.ParseDate()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	account, ok := h.loadAccount(w, r)
	if !ok {
		return
	}

	result := h.opening.SetOpeningBalance(r.Context(), account, req.Balance, date)
	if result.ChangesMade {
		h.accounts.InvalidateAccount(r.Context(), account.ID)
	}

	writeResult(w, result)
}

// SetCurrent records a freshly observed balance through the strategy engine.
func (h *BalanceHandler) SetCurrent(w http.ResponseWriter, r *http.Request) {
	var req dto.SetCurrentBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, ok := h.loadAccount(w, r)
	if !ok {
		return
	}

	result := h.current.SetCurrentBalance(r.Context(), account, req.Balance)
	if result.ChangesMade {
		h.accounts.InvalidateAccount(r.Context(), account.ID)
	}

	writeResult(w, result)
}

func (h *BalanceHandler) loadAccount(w http.ResponseWriter, r *http.Request) (*domain.Account, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return nil, false
	}

	account, err := h.accounts.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return nil, false
	}

	return account, true
}
