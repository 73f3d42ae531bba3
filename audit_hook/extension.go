// Package audithook bridges the economic core's lifecycle events to an
// audit trail backend.
//
// It defines a local Recorder interface so the package does not import a
// concrete audit-log backend. Callers inject a RecorderFunc adapter that
// bridges to whatever backend the host application uses — the legal-
// framework bookkeeping collaborator named in the purpose statement
// consumes exactly this interface.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/concordhq/ledger/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                     = (*Extension)(nil)
	_ plugin.OnBatchRecorded            = (*Extension)(nil)
	_ plugin.OnMint                     = (*Extension)(nil)
	_ plugin.OnBurn                     = (*Extension)(nil)
	_ plugin.OnTreasuryInvariantViolated = (*Extension)(nil)
	_ plugin.OnFeeSplit                 = (*Extension)(nil)
	_ plugin.OnCitationDeclared         = (*Extension)(nil)
	_ plugin.OnCascadePaid              = (*Extension)(nil)
	_ plugin.OnPurchaseCreated          = (*Extension)(nil)
	_ plugin.OnPurchaseTransitioned     = (*Extension)(nil)
	_ plugin.OnPurchaseFailed           = (*Extension)(nil)
	_ plugin.OnEmergentTransfer         = (*Extension)(nil)
	_ plugin.OnEmergentWithdrawRejected = (*Extension)(nil)
	_ plugin.OnWithdrawalPending        = (*Extension)(nil)
	_ plugin.OnWithdrawalSettled        = (*Extension)(nil)
	_ plugin.OnWithdrawalReversed       = (*Extension)(nil)
	_ plugin.OnVaultStored              = (*Extension)(nil)
	_ plugin.OnVaultSwept               = (*Extension)(nil)
	_ plugin.OnReconciliationRun        = (*Extension)(nil)
	_ plugin.OnDriftAlert               = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement. It is
// defined locally so the audit_hook package takes no dependency on a
// concrete backend — callers inject the concrete client at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges economic-core lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Ledger / treasury hooks
// ──────────────────────────────────────────────────

// OnBatchRecorded implements plugin.OnBatchRecorded.
func (e *Extension) OnBatchRecorded(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionBatchRecorded, SeverityInfo, OutcomeSuccess,
		ResourceLedgerEntry, "", CategoryLedger, nil,
		"event", "batch_recorded",
	)
}

// OnMint implements plugin.OnMint.
func (e *Extension) OnMint(ctx context.Context, amountCents int64, _ interface{}) error {
	return e.record(ctx, ActionMint, SeverityInfo, OutcomeSuccess,
		ResourceTreasury, "", CategoryTreasury, nil,
		"amount_cents", amountCents,
	)
}

// OnBurn implements plugin.OnBurn.
func (e *Extension) OnBurn(ctx context.Context, amountCents int64, _ interface{}) error {
	return e.record(ctx, ActionBurn, SeverityInfo, OutcomeSuccess,
		ResourceTreasury, "", CategoryTreasury, nil,
		"amount_cents", amountCents,
	)
}

// OnTreasuryInvariantViolated implements plugin.OnTreasuryInvariantViolated.
func (e *Extension) OnTreasuryInvariantViolated(ctx context.Context, detail string) error {
	return e.record(ctx, ActionTreasuryDrift, SeverityCritical, OutcomeFailure,
		ResourceTreasury, "", CategoryTreasury, nil,
		"detail", detail,
	)
}

// ──────────────────────────────────────────────────
// Fee-split hooks
// ──────────────────────────────────────────────────

// OnFeeSplit implements plugin.OnFeeSplit.
func (e *Extension) OnFeeSplit(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionFeeSplit, SeverityInfo, OutcomeSuccess,
		ResourceFeeSplit, "", CategoryLedger, nil,
		"event", "fee_split",
	)
}

// ──────────────────────────────────────────────────
// Royalty / citation hooks
// ──────────────────────────────────────────────────

// OnCitationDeclared implements plugin.OnCitationDeclared.
func (e *Extension) OnCitationDeclared(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionCitationDeclared, SeverityInfo, OutcomeSuccess,
		ResourceCitation, "", CategoryRoyalty, nil,
		"event", "citation_declared",
	)
}

// OnCascadePaid implements plugin.OnCascadePaid.
func (e *Extension) OnCascadePaid(ctx context.Context, payouts []interface{}) error {
	return e.record(ctx, ActionCascadePaid, SeverityInfo, OutcomeSuccess,
		ResourceRoyalty, "", CategoryRoyalty, nil,
		"payout_count", len(payouts),
	)
}

// ──────────────────────────────────────────────────
// Purchase lifecycle hooks
// ──────────────────────────────────────────────────

// OnPurchaseCreated implements plugin.OnPurchaseCreated.
func (e *Extension) OnPurchaseCreated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionPurchaseCreated, SeverityInfo, OutcomeSuccess,
		ResourcePurchase, "", CategoryMarketplace, nil,
		"event", "purchase_created",
	)
}

// OnPurchaseTransitioned implements plugin.OnPurchaseTransitioned.
func (e *Extension) OnPurchaseTransitioned(ctx context.Context, _ interface{}, from, to string) error {
	return e.record(ctx, ActionPurchaseTransitioned, SeverityInfo, OutcomeSuccess,
		ResourcePurchase, "", CategoryMarketplace, nil,
		"from", from,
		"to", to,
	)
}

// OnPurchaseFailed implements plugin.OnPurchaseFailed.
func (e *Extension) OnPurchaseFailed(ctx context.Context, _ interface{}, reason string) error {
	return e.record(ctx, ActionPurchaseFailed, SeverityWarning, OutcomeFailure,
		ResourcePurchase, "", CategoryMarketplace, nil,
		"reason", reason,
	)
}

// ──────────────────────────────────────────────────
// Emergent sub-ledger hooks
// ──────────────────────────────────────────────────

// OnEmergentTransfer implements plugin.OnEmergentTransfer.
func (e *Extension) OnEmergentTransfer(ctx context.Context, emergentID string, amountCents int64) error {
	return e.record(ctx, ActionEmergentTransfer, SeverityInfo, OutcomeSuccess,
		ResourceEmergent, emergentID, CategoryEmergent, nil,
		"amount_cents", amountCents,
	)
}

// OnEmergentWithdrawRejected implements plugin.OnEmergentWithdrawRejected.
func (e *Extension) OnEmergentWithdrawRejected(ctx context.Context, emergentID string) error {
	return e.record(ctx, ActionEmergentWithdrawRejected, SeverityWarning, OutcomeFailure,
		ResourceEmergent, emergentID, CategoryEmergent, nil,
		"reason", "non_exit_rule",
	)
}

// ──────────────────────────────────────────────────
// Withdrawal hooks
// ──────────────────────────────────────────────────

// OnWithdrawalPending implements plugin.OnWithdrawalPending.
func (e *Extension) OnWithdrawalPending(ctx context.Context, batchID string, amountCents int64) error {
	return e.record(ctx, ActionWithdrawalPending, SeverityInfo, OutcomeSuccess,
		ResourceWithdrawal, batchID, CategoryTreasury, nil,
		"amount_cents", amountCents,
	)
}

// OnWithdrawalSettled implements plugin.OnWithdrawalSettled.
func (e *Extension) OnWithdrawalSettled(ctx context.Context, batchID string, amountCents int64) error {
	return e.record(ctx, ActionWithdrawalSettled, SeverityInfo, OutcomeSuccess,
		ResourceWithdrawal, batchID, CategoryTreasury, nil,
		"amount_cents", amountCents,
	)
}

// OnWithdrawalReversed implements plugin.OnWithdrawalReversed.
func (e *Extension) OnWithdrawalReversed(ctx context.Context, batchID string, reason string) error {
	return e.record(ctx, ActionWithdrawalReversed, SeverityWarning, OutcomePartial,
		ResourceWithdrawal, batchID, CategoryTreasury, nil,
		"reason", reason,
	)
}

// ──────────────────────────────────────────────────
// Vault hooks
// ──────────────────────────────────────────────────

// OnVaultStored implements plugin.OnVaultStored.
func (e *Extension) OnVaultStored(ctx context.Context, hash string, deduplicated bool, additionalBytes int64) error {
	return e.record(ctx, ActionVaultStored, SeverityInfo, OutcomeSuccess,
		ResourceVault, hash, CategoryVault, nil,
		"deduplicated", deduplicated,
		"additional_bytes", additionalBytes,
	)
}

// OnVaultSwept implements plugin.OnVaultSwept.
func (e *Extension) OnVaultSwept(ctx context.Context, removed int) error {
	return e.record(ctx, ActionVaultSwept, SeverityInfo, OutcomeSuccess,
		ResourceVault, "", CategoryVault, nil,
		"removed", removed,
	)
}

// ──────────────────────────────────────────────────
// Reconciliation hooks
// ──────────────────────────────────────────────────

// OnReconciliationRun implements plugin.OnReconciliationRun.
func (e *Extension) OnReconciliationRun(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionReconciliationRun, SeverityInfo, OutcomeSuccess,
		ResourceReconcile, "", CategoryReconciliation, nil,
		"event", "reconciliation_run",
	)
}

// OnDriftAlert implements plugin.OnDriftAlert.
func (e *Extension) OnDriftAlert(ctx context.Context, driftCents int64, detail string) error {
	return e.record(ctx, ActionDriftAlert, SeverityCritical, OutcomeFailure,
		ResourceReconcile, "", CategoryReconciliation, nil,
		"drift_cents", driftCents,
		"detail", detail,
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
