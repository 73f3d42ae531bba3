// Package observability provides a metrics extension for the ledger that
// records lifecycle event counts and amounts via a pluggable
// MetricFactory.
package observability

import (
	"context"

	"github.com/concordhq/ledger/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                     = (*MetricsExtension)(nil)
	_ plugin.OnInit                     = (*MetricsExtension)(nil)
	_ plugin.OnBatchRecorded            = (*MetricsExtension)(nil)
	_ plugin.OnMint                     = (*MetricsExtension)(nil)
	_ plugin.OnBurn                     = (*MetricsExtension)(nil)
	_ plugin.OnTreasuryInvariantViolated = (*MetricsExtension)(nil)
	_ plugin.OnFeeSplit                 = (*MetricsExtension)(nil)
	_ plugin.OnCitationDeclared         = (*MetricsExtension)(nil)
	_ plugin.OnCascadePaid              = (*MetricsExtension)(nil)
	_ plugin.OnPurchaseCreated          = (*MetricsExtension)(nil)
	_ plugin.OnPurchaseTransitioned     = (*MetricsExtension)(nil)
	_ plugin.OnPurchaseFailed           = (*MetricsExtension)(nil)
	_ plugin.OnEmergentTransfer         = (*MetricsExtension)(nil)
	_ plugin.OnEmergentWithdrawRejected = (*MetricsExtension)(nil)
	_ plugin.OnVaultStored              = (*MetricsExtension)(nil)
	_ plugin.OnReconciliationRun        = (*MetricsExtension)(nil)
	_ plugin.OnDriftAlert               = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics for the economic
// core. Register it as a Ledger plugin to automatically track ledger,
// treasury, purchase, royalty, emergent, vault, and reconciliation
// activity.
type MetricsExtension struct {
	factory MetricFactory

	// Ledger / treasury metrics
	BatchesRecorded  Counter
	MintTotal        Histogram
	BurnTotal        Histogram
	TreasuryInvariantViolations Counter

	// Fee-split metrics
	FeeSplitsRun Counter

	// Royalty / citation metrics
	CitationsDeclared Counter
	CascadePayouts    Counter
	CascadePayoutSize Histogram

	// Purchase metrics
	PurchasesCreated      Counter
	PurchaseTransitions   Counter
	PurchaseFailures      Counter

	// Emergent metrics
	EmergentTransfers         Counter
	EmergentWithdrawRejected  Counter

	// Vault metrics
	VaultStores        Counter
	VaultDeduplications Counter
	VaultBytesStored    Histogram

	// Reconciliation metrics
	ReconciliationRuns Counter
	DriftAlerts        Counter
	DriftMagnitude     Histogram

	// Error metrics
	StoreErrors  Counter
	PluginErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		BatchesRecorded:             factory.Counter("ledger.batch.recorded"),
		MintTotal:                   factory.Histogram("ledger.treasury.mint_cents"),
		BurnTotal:                   factory.Histogram("ledger.treasury.burn_cents"),
		TreasuryInvariantViolations: factory.Counter("ledger.treasury.invariant_violations"),

		FeeSplitsRun: factory.Counter("ledger.fee.splits_run"),

		CitationsDeclared: factory.Counter("ledger.royalty.citations_declared"),
		CascadePayouts:    factory.Counter("ledger.royalty.cascade_payouts"),
		CascadePayoutSize: factory.Histogram("ledger.royalty.cascade_payout_size"),

		PurchasesCreated:    factory.Counter("ledger.purchase.created"),
		PurchaseTransitions: factory.Counter("ledger.purchase.transitions"),
		PurchaseFailures:    factory.Counter("ledger.purchase.failures"),

		EmergentTransfers:        factory.Counter("ledger.emergent.transfers"),
		EmergentWithdrawRejected: factory.Counter("ledger.emergent.withdraw_rejected"),

		VaultStores:         factory.Counter("ledger.vault.stores"),
		VaultDeduplications: factory.Counter("ledger.vault.deduplications"),
		VaultBytesStored:    factory.Histogram("ledger.vault.bytes_stored"),

		ReconciliationRuns: factory.Counter("ledger.reconcile.runs"),
		DriftAlerts:        factory.Counter("ledger.reconcile.drift_alerts"),
		DriftMagnitude:     factory.Histogram("ledger.reconcile.drift_cents"),

		StoreErrors:  factory.Counter("ledger.store.errors"),
		PluginErrors: factory.Counter("ledger.plugin.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	return nil
}

// ──────────────────────────────────────────────────
// Ledger / treasury hooks
// ──────────────────────────────────────────────────

// OnBatchRecorded implements plugin.OnBatchRecorded.
func (m *MetricsExtension) OnBatchRecorded(_ context.Context, _ interface{}) error {
	m.BatchesRecorded.Inc()
	return nil
}

// OnMint implements plugin.OnMint.
func (m *MetricsExtension) OnMint(_ context.Context, amountCents int64, _ interface{}) error {
	m.MintTotal.Observe(float64(amountCents))
	return nil
}

// OnBurn implements plugin.OnBurn.
func (m *MetricsExtension) OnBurn(_ context.Context, amountCents int64, _ interface{}) error {
	m.BurnTotal.Observe(float64(amountCents))
	return nil
}

// OnTreasuryInvariantViolated implements plugin.OnTreasuryInvariantViolated.
func (m *MetricsExtension) OnTreasuryInvariantViolated(_ context.Context, _ string) error {
	m.TreasuryInvariantViolations.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Fee-split hooks
// ──────────────────────────────────────────────────

// OnFeeSplit implements plugin.OnFeeSplit.
func (m *MetricsExtension) OnFeeSplit(_ context.Context, _ interface{}) error {
	m.FeeSplitsRun.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Royalty / citation hooks
// ──────────────────────────────────────────────────

// OnCitationDeclared implements plugin.OnCitationDeclared.
func (m *MetricsExtension) OnCitationDeclared(_ context.Context, _ interface{}) error {
	m.CitationsDeclared.Inc()
	return nil
}

// OnCascadePaid implements plugin.OnCascadePaid.
func (m *MetricsExtension) OnCascadePaid(_ context.Context, payouts []interface{}) error {
	m.CascadePayouts.Inc()
	m.CascadePayoutSize.Observe(float64(len(payouts)))
	return nil
}

// ──────────────────────────────────────────────────
// Purchase lifecycle hooks
// ──────────────────────────────────────────────────

// OnPurchaseCreated implements plugin.OnPurchaseCreated.
func (m *MetricsExtension) OnPurchaseCreated(_ context.Context, _ interface{}) error {
	m.PurchasesCreated.Inc()
	return nil
}

// OnPurchaseTransitioned implements plugin.OnPurchaseTransitioned.
func (m *MetricsExtension) OnPurchaseTransitioned(_ context.Context, _ interface{}, _, _ string) error {
	m.PurchaseTransitions.Inc()
	return nil
}

// OnPurchaseFailed implements plugin.OnPurchaseFailed.
func (m *MetricsExtension) OnPurchaseFailed(_ context.Context, _ interface{}, _ string) error {
	m.PurchaseFailures.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Emergent sub-ledger hooks
// ──────────────────────────────────────────────────

// OnEmergentTransfer implements plugin.OnEmergentTransfer.
func (m *MetricsExtension) OnEmergentTransfer(_ context.Context, _ string, _ int64) error {
	m.EmergentTransfers.Inc()
	return nil
}

// OnEmergentWithdrawRejected implements plugin.OnEmergentWithdrawRejected.
func (m *MetricsExtension) OnEmergentWithdrawRejected(_ context.Context, _ string) error {
	m.EmergentWithdrawRejected.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Vault hooks
// ──────────────────────────────────────────────────

// OnVaultStored implements plugin.OnVaultStored.
func (m *MetricsExtension) OnVaultStored(_ context.Context, _ string, deduplicated bool, additionalBytes int64) error {
	m.VaultStores.Inc()
	if deduplicated {
		m.VaultDeduplications.Inc()
	}
	m.VaultBytesStored.Observe(float64(additionalBytes))
	return nil
}

// ──────────────────────────────────────────────────
// Reconciliation hooks
// ──────────────────────────────────────────────────

// OnReconciliationRun implements plugin.OnReconciliationRun.
func (m *MetricsExtension) OnReconciliationRun(_ context.Context, _ interface{}) error {
	m.ReconciliationRuns.Inc()
	return nil
}

// OnDriftAlert implements plugin.OnDriftAlert.
func (m *MetricsExtension) OnDriftAlert(_ context.Context, driftCents int64, _ string) error {
	m.DriftAlerts.Inc()
	m.DriftMagnitude.Observe(float64(driftCents))
	return nil
}
