package usecase

import "time"

const (
	// OpeningAnchorName is the display name of every opening anchor entry.
	OpeningAnchorName = "Opening balance"

	// CurrentAnchorName is the display name of every current anchor entry.
	CurrentAnchorName = "Current balance"

	// ReconciliationName is the display name of reconciliation entries.
	ReconciliationName = "Balance reconciliation"

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	// AccountCacheTTL bounds staleness of cached account reads.
	AccountCacheTTL = 5 * time.Minute
)
