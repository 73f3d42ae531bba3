// Package ledgerconfig centralizes every policy input the engine requires
// to be parameterised rather than baked into call sites: fee rates,
// split ratios, royalty decay constants, the treasury singleton id, the
// vault root and grace period, and reconciliation timing.
package ledgerconfig

import "time"

// Config is the full set of policy inputs for a Ledger instance.
type Config struct {
	// FeeRates maps an entry kind name to its fee rate (fraction).
	// Unlisted kinds are fee-free.
	FeeRates map[string]float64 `mapstructure:"fee_rates"`

	// Fee-split ratios, must sum to 1.0. Validate checks the sum; the
	// Ledger's fee split does not read them and uses the feesplit
	// package's ratio constants.
	ReservesRatio  float64 `mapstructure:"reserves_ratio"`
	OperatingRatio float64 `mapstructure:"operating_ratio"`
	PayrollRatio   float64 `mapstructure:"payroll_ratio"`

	// RoyaltyInitialRate is r0, the generation-0 royalty rate.
	RoyaltyInitialRate float64 `mapstructure:"royalty_initial_rate"`
	// RoyaltyRateFloor records the royalty rate floor. The Ledger does not
	// read it; the cascade floors rates at royalty.RateFloor.
	RoyaltyRateFloor float64 `mapstructure:"royalty_rate_floor"`
	// RoyaltyMaxDepth bounds the ancestor BFS walk.
	RoyaltyMaxDepth int `mapstructure:"royalty_max_depth"`

	// TreasurySingletonID records the singleton treasury row id. The
	// stores do not read it; postgres and sqlite use their own fixed id
	// with the same default value.
	TreasurySingletonID string `mapstructure:"treasury_singleton_id"`

	// VaultRootPath is the root that sharded vault entry paths are
	// computed under; the stores hold the bytes and write no files there.
	VaultRootPath string `mapstructure:"vault_root_path"`
	// VaultGracePeriod is how long a vault entry must sit at
	// reference_count <= 0 before the sweep deletes it.
	VaultGracePeriod time.Duration `mapstructure:"vault_grace_period"`

	// ReconcileInterval is how often the reconciler worker runs.
	ReconcileInterval time.Duration `mapstructure:"reconcile_interval"`
	// ReconcileDriftToleranceCents records an absolute drift tolerance in
	// cents. The Ledger does not read it; reconcile.Evaluate bands status
	// and raises alerts against reconcile.AlertThresholdCents.
	ReconcileDriftToleranceCents int64 `mapstructure:"reconcile_drift_tolerance_cents"`

	// WithdrawalMaxRetries records a retry bound for withdrawals. The
	// Ledger does not read it; Ledger.Withdraw makes a single attempt and
	// does not retry.
	WithdrawalMaxRetries int `mapstructure:"withdrawal_max_retries"`
	// WithdrawalStaleAfter records how long a Pending withdrawal may sit
	// unresolved before it counts as stale. Ledger.StalePendingWithdrawals
	// takes its own cutoff argument and does not read it.
	WithdrawalStaleAfter time.Duration `mapstructure:"withdrawal_stale_after"`

	// EmergentConsistencyInterval governs how often the emergent-account
	// consistency worker re-checks dual-wallet balances against their
	// ledger-derived totals.
	EmergentConsistencyInterval time.Duration `mapstructure:"emergent_consistency_interval"`
}

// DefaultConfig returns the policy values this deployment ships with.
func DefaultConfig() Config {
	return Config{
		FeeRates: map[string]float64{
			"transfer":              0.0146,
			"token_purchase":        0.0146,
			"withdrawal":            0.0146,
			"emergent_transfer":     0.0146,
			"marketplace_purchase":  0.0546,
		},
		ReservesRatio:  0.80,
		OperatingRatio: 0.10,
		PayrollRatio:   0.10,

		RoyaltyInitialRate: 0.21,
		RoyaltyRateFloor:   0.0005,
		RoyaltyMaxDepth:    50,

		TreasurySingletonID: "treasury_singleton",

		VaultRootPath:    "/var/lib/concord/vault",
		VaultGracePeriod: 72 * time.Hour,

		ReconcileInterval:            24 * time.Hour,
		ReconcileDriftToleranceCents: 1,

		WithdrawalMaxRetries: 3,
		WithdrawalStaleAfter: 30 * time.Minute,

		EmergentConsistencyInterval: 15 * time.Minute,
	}
}
