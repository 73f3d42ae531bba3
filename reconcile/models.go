// Package reconcile runs the treasury's periodic drift check: recompute
// expected treasury totals from the completed ledger and compare against
// the singleton TreasuryState and, if configured, an external
// payments-gateway balance.
package reconcile

import (
	"github.com/concordhq/ledger/id"
	"github.com/concordhq/ledger/types"
)

// Status summarizes a reconciliation run's outcome.
type Status string

const (
	StatusBalanced Status = "balanced"
	StatusSurplus  Status = "surplus"
	StatusDeficit  Status = "deficit"
)

// Run is one reconciliation pass: expected vs recorded treasury totals,
// the drift between them, and whether that drift crossed the alert
// threshold.
type Run struct {
	ID               id.ReconcileRunID `json:"id"`
	LedgerExpected   types.Cents       `json:"ledger_expected_cents"`
	RecordedUSDCents types.Cents       `json:"recorded_usd_cents"`
	ExternalBalance  *types.Cents      `json:"external_balance_cents,omitempty"`
	DriftCents       types.Cents       `json:"drift_cents"`
	Status           Status            `json:"status"`
	AlertTriggered   bool              `json:"alert_triggered"`
	SolvencyOK       bool              `json:"solvency_ok"`
	Details          map[string]string `json:"details,omitempty"`
	Timestamp        int64             `json:"timestamp"`
}
