package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BalanceStrategies counts SetCurrentBalance dispatches by strategy.
	BalanceStrategies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balance_update_strategies_total",
			Help: "Balance update strategy executions by strategy name",
		},
		[]string{"strategy"},
	)

	// AnchorsCreated counts newly established anchor entries by kind.
	AnchorsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balance_anchors_created_total",
			Help: "Anchor entries created by valuation kind",
		},
		[]string{"kind"},
	)

	// AnchorsUpdated counts in-place anchor updates by kind.
	AnchorsUpdated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balance_anchors_updated_total",
			Help: "Anchor entries updated in place by valuation kind",
		},
		[]string{"kind"},
	)

	// CachedBalanceFallbacks counts current-balance reads that fell back to
	// the denormalized cached field because no live anchor existed.
	CachedBalanceFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cached_balance_fallback_reads_total",
			Help: "Current balance reads served from the cached field instead of an anchor",
		},
	)

	// BalanceUpdateFailures counts failed balance mutations by operation.
	BalanceUpdateFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balance_update_failures_total",
			Help: "Failed balance mutations by operation",
		},
		[]string{"operation"},
	)
)
