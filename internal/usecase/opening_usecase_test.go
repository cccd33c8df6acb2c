package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finbase/goanchor/internal/domain"
	"github.com/finbase/goanchor/internal/usecase"
	"github.com/finbase/goanchor/internal/usecase/mocks"
)

const openingDateError = "Opening balance date must be before the oldest entry date"

func newOpeningUC(entryRepo *mocks.MockEntryRepository) *usecase.OpeningBalanceUseCase {
	return usecase.NewOpeningBalanceUseCase(
		mocks.NewMockTransactionManager(),
		entryRepo,
		mocks.NewMockIDGenerator(),
		zerolog.Nop(),
	)
}

func testAccount() *domain.Account {
	return &domain.Account{
		ID:       "acc-1",
		Name:     "Main checking",
		Currency: "USD",
		Subtype:  "checking",
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(t time.Time) *time.Time {
	return &t
}

func seedTransaction(repo *mocks.MockEntryRepository, id string, date time.Time, amount int64) {
	repo.Seed(&domain.Entry{
		ID:        id,
		AccountID: "acc-1",
		Name:      "Transaction",
		Date:      date,
		Amount:    decimal.NewFromInt(amount),
		Currency:  "USD",
	})
}

func seedValuation(repo *mocks.MockEntryRepository, id string, kind domain.ValuationKind, date time.Time, amount int64) {
	repo.Seed(&domain.Entry{
		ID:        id,
		AccountID: "acc-1",
		Name:      "Valuation",
		Date:      date,
		Amount:    decimal.NewFromInt(amount),
		Currency:  "USD",
		Valuation: &domain.Valuation{Kind: kind},
	})
}

func TestOpeningDate(t *testing.T) {
	anchorDate := day(2024, time.February, 1)

	tests := []struct {
		name  string
		setup func(*mocks.MockEntryRepository)
		want  time.Time
	}{
		{
			name: "anchor date wins regardless of other entries",
			setup: func(repo *mocks.MockEntryRepository) {
				seedValuation(repo, "anchor", domain.KindOpeningAnchor, anchorDate, 1000)
				seedTransaction(repo, "txn", day(2023, time.May, 10), -50)
				seedValuation(repo, "recon", domain.KindReconciliation, day(2023, time.June, 1), 900)
			},
			want: anchorDate,
		},
		{
			name: "reconciliation minimum beats a later transaction bound",
			setup: func(repo *mocks.MockEntryRepository) {
				seedValuation(repo, "recon", domain.KindReconciliation, day(2023, time.January, 5), 900)
				seedTransaction(repo, "txn", day(2023, time.August, 20), -50)
			},
			want: day(2023, time.January, 5),
		},
		{
			name: "day before oldest transaction beats a later reconciliation",
			setup: func(repo *mocks.MockEntryRepository) {
				seedValuation(repo, "recon", domain.KindReconciliation, day(2023, time.August, 20), 900)
				seedTransaction(repo, "txn", day(2023, time.January, 5), -50)
			},
			want: day(2023, time.January, 4),
		},
		{
			name: "only transactions use the day-before bound",
			setup: func(repo *mocks.MockEntryRepository) {
				seedTransaction(repo, "txn-1", day(2023, time.March, 1), -50)
				seedTransaction(repo, "txn-2", day(2023, time.April, 1), 25)
			},
			want: day(2023, time.February, 28),
		},
		{
			name: "only reconciliations use their minimum",
			setup: func(repo *mocks.MockEntryRepository) {
				seedValuation(repo, "recon-1", domain.KindReconciliation, day(2023, time.July, 1), 900)
				seedValuation(repo, "recon-2", domain.KindReconciliation, day(2023, time.September, 1), 950)
			},
			want: day(2023, time.July, 1),
		},
		{
			name:  "no entries at all opens today",
			setup: func(repo *mocks.MockEntryRepository) {},
			want:  domain.Today(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockEntryRepository()
			tt.setup(repo)
			uc := newOpeningUC(repo)

			got, err := uc.OpeningDate(context.Background(), testAccount())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestOpeningBalance(t *testing.T) {
	t.Run("anchor amount when present", func(t *testing.T) {
		repo := mocks.NewMockEntryRepository()
		seedValuation(repo, "anchor", domain.KindOpeningAnchor, day(2024, time.January, 1), 1234)
		uc := newOpeningUC(repo)

		got, err := uc.OpeningBalance(context.Background(), testAccount())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Equal(decimal.NewFromInt(1234)) {
			t.Errorf("expected 1234, got %s", got)
		}
	})

	t.Run("zero when no anchor exists", func(t *testing.T) {
		repo := mocks.NewMockEntryRepository()
		uc := newOpeningUC(repo)

		got, err := uc.OpeningBalance(context.Background(), testAccount())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.IsZero() {
			t.Errorf("expected zero, got %s", got)
		}
	})

	t.Run("zero when the valuation lost its entry", func(t *testing.T) {
		repo := mocks.NewMockEntryRepository()
		// Orphaned valuation rows surface as an absent anchor.
		repo.FindAnchorFunc = func(ctx context.Context, accountID string, kind domain.ValuationKind) (*domain.Entry, error) {
			return nil, nil
		}
		uc := newOpeningUC(repo)

		got, err := uc.OpeningBalance(context.Background(), testAccount())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.IsZero() {
			t.Errorf("expected zero, got %s", got)
		}
	})
}

func TestSetOpeningBalance_Create(t *testing.T) {
	t.Run("creates anchor with default lookback date when no entries exist", func(t *testing.T) {
		repo := mocks.NewMockEntryRepository()
		uc := newOpeningUC(repo)
		account := testAccount()

		result := uc.SetOpeningBalance(context.Background(), account, decimal.NewFromInt(500), nil)
		if !result.Success || !result.ChangesMade || result.Error != "" {
			t.Fatalf("unexpected result: %+v", result)
		}

		anchor, _ := repo.FindAnchor(context.Background(), account.ID, domain.KindOpeningAnchor)
		if anchor == nil {
			t.Fatal("expected anchor to be created")
		}
		wantDate := domain.Today().AddDate(-2, 0, 0)
		if !anchor.Date.Equal(wantDate) {
			t.Errorf("expected default date %v, got %v", wantDate, anchor.Date)
		}
		if anchor.Name != usecase.OpeningAnchorName {
			t.Errorf("expected display name %q, got %q", usecase.OpeningAnchorName, anchor.Name)
		}
		if anchor.Currency != account.Currency {
			t.Errorf("expected currency %q, got %q", account.Currency, anchor.Currency)
		}
	})

	t.Run("defaults to day before oldest entry when older than lookback", func(t *testing.T) {
		repo := mocks.NewMockEntryRepository()
		old := domain.Today().AddDate(-3, 0, 0)
		seedTransaction(repo, "txn", old, -50)
		uc := newOpeningUC(repo)

		result := uc.SetOpeningBalance(context.Background(), testAccount(), decimal.NewFromInt(500), nil)
		if !result.Success {
			t.Fatalf("unexpected result: %+v", result)
		}

		anchor, _ := repo.FindAnchor(context.Background(), "acc-1", domain.KindOpeningAnchor)
		if !anchor.Date.Equal(domain.DayBefore(old)) {
			t.Errorf("expected %v, got %v", domain.DayBefore(old), anchor.Date)
		}
	})

	t.Run("round-trips supplied values including zero and negative amounts", func(t *testing.T) {
		for _, amount := range []int64{-250, 0, 990} {
			repo := mocks.NewMockEntryRepository()
			seedTransaction(repo, "txn", day(2024, time.June, 1), -50)
			uc := newOpeningUC(repo)
			account := testAccount()

			supplied := day(2024, time.January, 15)
			result := uc.SetOpeningBalance(context.Background(), account, decimal.NewFromInt(amount), datePtr(supplied))
			if !result.Success {
				t.Fatalf("unexpected result for amount %d: %+v", amount, result)
			}

			gotBalance, _ := uc.OpeningBalance(context.Background(), account)
			if !gotBalance.Equal(decimal.NewFromInt(amount)) {
				t.Errorf("expected balance %d, got %s", amount, gotBalance)
			}
			gotDate, _ := uc.OpeningDate(context.Background(), account)
			if !gotDate.Equal(supplied) {
				t.Errorf("expected date %v, got %v", supplied, gotDate)
			}
		}
	})
}

func TestSetOpeningBalance_Validation(t *testing.T) {
	txnDate := day(2025, time.February, 10)

	tests := []struct {
		name     string
		date     time.Time
		wantFail bool
	}{
		{"date equal to oldest entry fails", txnDate, true},
		{"date after oldest entry fails", txnDate.AddDate(0, 0, 5), true},
		{"date before oldest entry succeeds", txnDate.AddDate(0, 0, -1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockEntryRepository()
			seedTransaction(repo, "txn", txnDate, -50)
			uc := newOpeningUC(repo)

			result := uc.SetOpeningBalance(context.Background(), testAccount(), decimal.NewFromInt(1000), datePtr(tt.date))

			if tt.wantFail {
				if result.Success {
					t.Fatalf("expected failure, got %+v", result)
				}
				if result.Error != openingDateError {
					t.Errorf("expected error %q, got %q", openingDateError, result.Error)
				}
				if result.ChangesMade {
					t.Error("failed validation must not report changes")
				}
				if repo.Len() != 1 {
					t.Errorf("expected no anchor to be created, have %d entries", repo.Len())
				}
			} else if !result.Success || !result.ChangesMade {
				t.Fatalf("expected success, got %+v", result)
			}
		})
	}
}

func TestSetOpeningBalance_Update(t *testing.T) {
	anchorDate := domain.Today().AddDate(-1, 0, 0)

	seedAnchor := func(repo *mocks.MockEntryRepository) {
		seedValuation(repo, "anchor", domain.KindOpeningAnchor, anchorDate, 1000)
	}

	t.Run("updates amount and keeps date when no date is supplied", func(t *testing.T) {
		repo := mocks.NewMockEntryRepository()
		seedAnchor(repo)
		uc := newOpeningUC(repo)

		result := uc.SetOpeningBalance(context.Background(), testAccount(), decimal.NewFromInt(1500), nil)
		if !result.Success || !result.ChangesMade {
			t.Fatalf("unexpected result: %+v", result)
		}

		anchor := repo.Get("anchor")
		if !anchor.Amount.Equal(decimal.NewFromInt(1500)) {
			t.Errorf("expected amount 1500, got %s", anchor.Amount)
		}
		if !anchor.Date.Equal(anchorDate) {
			t.Errorf("expected date to stay %v, got %v", anchorDate, anchor.Date)
		}
		if repo.Len() != 1 {
			t.Errorf("expected a single anchor entry, have %d", repo.Len())
		}
	})

	t.Run("is idempotent for identical balance and date", func(t *testing.T) {
		repo := mocks.NewMockEntryRepository()
		seedAnchor(repo)
		uc := newOpeningUC(repo)
		account := testAccount()

		first := uc.SetOpeningBalance(context.Background(), account, decimal.NewFromInt(2000), datePtr(anchorDate))
		if !first.Success || !first.ChangesMade {
			t.Fatalf("unexpected first result: %+v", first)
		}

		second := uc.SetOpeningBalance(context.Background(), account, decimal.NewFromInt(2000), datePtr(anchorDate))
		if !second.Success || second.ChangesMade {
			t.Fatalf("expected idempotent second call, got %+v", second)
		}
		if repo.Len() != 1 {
			t.Errorf("expected no duplicate anchor, have %d entries", repo.Len())
		}
	})

	t.Run("updates date only when explicitly supplied", func(t *testing.T) {
		repo := mocks.NewMockEntryRepository()
		seedAnchor(repo)
		uc := newOpeningUC(repo)

		newDate := anchorDate.AddDate(0, -1, 0)
		result := uc.SetOpeningBalance(context.Background(), testAccount(), decimal.NewFromInt(1000), datePtr(newDate))
		if !result.Success || !result.ChangesMade {
			t.Fatalf("unexpected result: %+v", result)
		}

		if anchor := repo.Get("anchor"); !anchor.Date.Equal(newDate) {
			t.Errorf("expected date %v, got %v", newDate, anchor.Date)
		}
	})

	t.Run("updating the anchor is never blocked by its own prior date", func(t *testing.T) {
		repo := mocks.NewMockEntryRepository()
		seedAnchor(repo)
		uc := newOpeningUC(repo)

		// The anchor itself is the oldest entry; supplying a date after it
		// must still succeed because the anchor is excluded from the bound.
		result := uc.SetOpeningBalance(context.Background(), testAccount(), decimal.NewFromInt(1000), datePtr(anchorDate.AddDate(0, 1, 0)))
		if !result.Success {
			t.Fatalf("unexpected result: %+v", result)
		}
	})
}

func TestSetOpeningBalance_InfrastructureFault(t *testing.T) {
	repo := mocks.NewMockEntryRepository()
	repo.CreateValuationEntryFunc = func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
		return errors.New("insert failed")
	}
	uc := newOpeningUC(repo)

	result := uc.SetOpeningBalance(context.Background(), testAccount(), decimal.NewFromInt(100), nil)
	if result.Success {
		t.Fatalf("expected failure, got %+v", result)
	}
	if result.Error != "insert failed" {
		t.Errorf("expected raw fault message, got %q", result.Error)
	}
	if result.ChangesMade {
		t.Error("infrastructure fault must not report changes")
	}
}
