// Package plugin provides an extensible plugin system for the ledger.
// Plugins can hook into the economic core's lifecycle events — mints,
// burns, purchase transitions, citation declarations, cascade payouts,
// emergent transfers, vault writes, and reconciliation runs — without the
// core taking a direct dependency on audit or metrics backends.
package plugin

import (
	"context"
	"time"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, l interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Ledger / treasury hooks
// ──────────────────────────────────────────────────

// OnBatchRecorded is called after a ledger batch is committed.
type OnBatchRecorded interface {
	Plugin
	OnBatchRecorded(ctx context.Context, batch interface{}) error
}

// OnMint is called after the treasury mints coins.
type OnMint interface {
	Plugin
	OnMint(ctx context.Context, amountCents int64, event interface{}) error
}

// OnBurn is called after the treasury burns coins.
type OnBurn interface {
	Plugin
	OnBurn(ctx context.Context, amountCents int64, event interface{}) error
}

// OnTreasuryInvariantViolated is called when the solvency invariant fails.
type OnTreasuryInvariantViolated interface {
	Plugin
	OnTreasuryInvariantViolated(ctx context.Context, detail string) error
}

// ──────────────────────────────────────────────────
// Fee / fee-split hooks
// ──────────────────────────────────────────────────

// OnFeeSplit is called after a collected fee is distributed 80/10/10.
type OnFeeSplit interface {
	Plugin
	OnFeeSplit(ctx context.Context, dist interface{}) error
}

// ──────────────────────────────────────────────────
// Royalty / citation hooks
// ──────────────────────────────────────────────────

// OnCitationDeclared is called when a new citation edge is inserted.
type OnCitationDeclared interface {
	Plugin
	OnCitationDeclared(ctx context.Context, edge interface{}) error
}

// OnCascadePaid is called after a royalty cascade pays out for a
// transaction.
type OnCascadePaid interface {
	Plugin
	OnCascadePaid(ctx context.Context, payouts []interface{}) error
}

// ──────────────────────────────────────────────────
// Purchase lifecycle hooks
// ──────────────────────────────────────────────────

// OnPurchaseCreated is called when a new purchase record is opened.
type OnPurchaseCreated interface {
	Plugin
	OnPurchaseCreated(ctx context.Context, purchase interface{}) error
}

// OnPurchaseTransitioned is called on every purchase status transition.
type OnPurchaseTransitioned interface {
	Plugin
	OnPurchaseTransitioned(ctx context.Context, purchase interface{}, from, to string) error
}

// OnPurchaseFailed is called when a purchase transitions to Failed.
type OnPurchaseFailed interface {
	Plugin
	OnPurchaseFailed(ctx context.Context, purchase interface{}, reason string) error
}

// ──────────────────────────────────────────────────
// Emergent sub-ledger hooks
// ──────────────────────────────────────────────────

// OnEmergentTransfer is called after an operating<->reserve transfer.
type OnEmergentTransfer interface {
	Plugin
	OnEmergentTransfer(ctx context.Context, emergentID string, amountCents int64) error
}

// OnEmergentWithdrawRejected is called when a withdrawal from an emergent
// account is rejected by the non-exit rule.
type OnEmergentWithdrawRejected interface {
	Plugin
	OnEmergentWithdrawRejected(ctx context.Context, emergentID string) error
}

// ──────────────────────────────────────────────────
// Withdrawal hooks
// ──────────────────────────────────────────────────

// OnWithdrawalPending is called when a withdrawal's ledger entries are
// staged as Pending, just before the gateway call.
type OnWithdrawalPending interface {
	Plugin
	OnWithdrawalPending(ctx context.Context, batchID string, amountCents int64) error
}

// OnWithdrawalSettled is called after a withdrawal's gateway call succeeds
// and its entries flip to Complete.
type OnWithdrawalSettled interface {
	Plugin
	OnWithdrawalSettled(ctx context.Context, batchID string, amountCents int64) error
}

// OnWithdrawalReversed is called after a withdrawal's gateway call fails
// and its entries are reversed.
type OnWithdrawalReversed interface {
	Plugin
	OnWithdrawalReversed(ctx context.Context, batchID string, reason string) error
}

// ──────────────────────────────────────────────────
// Vault hooks
// ──────────────────────────────────────────────────

// OnVaultStored is called after bytes are stored or deduplicated.
type OnVaultStored interface {
	Plugin
	OnVaultStored(ctx context.Context, hash string, deduplicated bool, additionalBytes int64) error
}

// OnVaultSwept is called after a GC sweep removes expired zero-ref entries.
type OnVaultSwept interface {
	Plugin
	OnVaultSwept(ctx context.Context, removed int) error
}

// ──────────────────────────────────────────────────
// Reconciliation hooks
// ──────────────────────────────────────────────────

// OnReconciliationRun is called after every reconciliation pass.
type OnReconciliationRun interface {
	Plugin
	OnReconciliationRun(ctx context.Context, run interface{}) error
}

// OnDriftAlert is called when a reconciliation run raises a drift alert.
type OnDriftAlert interface {
	Plugin
	OnDriftAlert(ctx context.Context, driftCents int64, detail string) error
}

// ──────────────────────────────────────────────────
// Extension points for product-defined policy
// ──────────────────────────────────────────────────

// WashTradeDetector lets a host application plug in wash-trade heuristics.
// The core ships only a stub that always reports flagged=false.
type WashTradeDetector interface {
	Plugin
	CheckWashTrade(ctx context.Context, buyerID, sellerID string) (flagged bool, reason string, err error)
}
