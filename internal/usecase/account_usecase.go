package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finbase/goanchor/internal/domain"
)

// AccountUseCase handles account business logic. Reads go through the
// cache when one is configured; balance writers invalidate it.
type AccountUseCase struct {
	accountRepo AccountRepository
	cache       Cache
	idGen       IDGenerator
	logger      zerolog.Logger
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, cache Cache, idGen IDGenerator, logger zerolog.Logger) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		cache:       cache,
		idGen:       idGen,
		logger:      logger,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Name     string
	Currency string
	Subtype  string
	Linked   bool
}

// CreateAccount creates a new account.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	now := time.Now().UTC()

	account := &domain.Account{
		ID:            uc.idGen.Generate(),
		Name:          input.Name,
		Currency:      input.Currency,
		Subtype:       input.Subtype,
		Linked:        input.Linked,
		CachedBalance: decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID, preferring the cache.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, accountCacheKey(id)); err == nil {
			var account domain.Account
			if err := json.Unmarshal(data, &account); err == nil {
				return &account, nil
			}
		}
	}

	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(account); err == nil {
			if err := uc.cache.Set(ctx, accountCacheKey(id), data, AccountCacheTTL); err != nil {
				uc.logger.Warn().Err(err).Str("account_id", id).Msg("account cache write failed")
			}
		}
	}

	return account, nil
}

// InvalidateAccount drops the account's cached representation. Called by
// balance writers so reads never serve a pre-update balance for the full
// cache TTL.
func (uc *AccountUseCase) InvalidateAccount(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, accountCacheKey(id)); err != nil {
		uc.logger.Warn().Err(err).Str("account_id", id).Msg("account cache invalidation failed")
	}
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	return uc.accountRepo.List(ctx, input.Limit, input.Offset)
}

func accountCacheKey(id string) string {
	return "account:" + id
}
