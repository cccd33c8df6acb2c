package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbase/goanchor/internal/adapter/http/dto"
	"github.com/finbase/goanchor/internal/domain"
	"github.com/finbase/goanchor/internal/usecase"
)

type accountServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	getFn    func(ctx context.Context, id string) (*domain.Account, error)
	listFn   func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
	return s.listFn(ctx, input)
}

type entryServiceStub struct {
	listFn func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error)
}

func (s *entryServiceStub) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	return s.listFn(ctx, accountID, limit, offset)
}

func TestAccountHandler_Create_Success(t *testing.T) {
	account := &domain.Account{
		ID:       "acc-1",
		Name:     "Everyday Checking",
		Currency: "USD",
		Subtype:  "checking",
		Linked:   true,
	}

	var captured usecase.CreateAccountInput
	h := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			captured = input
			return account, nil
		},
	}, nil)

	body, _ := json.Marshal(dto.CreateAccountRequest{
		Name:     "Everyday Checking",
		Currency: "USD",
		Subtype:  "checking",
		Linked:   true,
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Name != "Everyday Checking" || captured.Subtype != "checking" || !captured.Linked {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "acc-1" {
		t.Fatalf("expected account ID acc-1, got %s", resp.ID)
	}
}

func TestAccountHandler_Create_InvalidJSON(t *testing.T) {
	h := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			t.Fatal("CreateAccount should not be called for invalid payload")
			return nil, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	h := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		},
	}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/accounts/missing", nil), "id", "missing")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_List_PassesPagination(t *testing.T) {
	var captured usecase.ListAccountsInput
	h := NewAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
			captured = input
			return []*domain.Account{{ID: "acc-1"}}, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/accounts?limit=5&offset=10", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Limit != 5 || captured.Offset != 10 {
		t.Fatalf("pagination not forwarded, got %+v", captured)
	}

	var resp dto.ListAccountsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("total = %d, want 1", resp.Total)
	}
}

func TestAccountHandler_ListEntries(t *testing.T) {
	entryDate := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	entries := []*domain.Entry{
		{
			ID:        "e1",
			AccountID: "acc-1",
			Name:      "Coffee",
			Date:      entryDate,
			Amount:    decimal.NewFromInt(-4),
			Currency:  "USD",
		},
		{
			ID:        "e2",
			AccountID: "acc-1",
			Name:      "Opening balance",
			Date:      entryDate,
			Amount:    decimal.NewFromInt(100),
			Currency:  "USD",
			Valuation: &domain.Valuation{ID: "v1", Kind: domain.KindOpeningAnchor},
		},
	}

	h := NewAccountHandler(&accountServiceStub{}, &entryServiceStub{
		listFn: func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
			return entries, nil
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/accounts/acc-1/entries", nil), "id", "acc-1")
	rec := httptest.NewRecorder()

	h.ListEntries(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []*dto.EntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(resp))
	}
	if resp[0].ValuationKind != "" {
		t.Errorf("transaction entry should have no valuation kind, got %q", resp[0].ValuationKind)
	}
	if resp[1].ValuationKind != "opening_anchor" {
		t.Errorf("valuation_kind = %q", resp[1].ValuationKind)
	}
	if resp[1].Date != "2025-02-01" {
		t.Errorf("date = %q", resp[1].Date)
	}
}
