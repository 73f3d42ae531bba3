// Package treasury holds the singleton ledger-backing state: total USD
// cents held versus total coins in circulation, and the append-only event
// log of mints, burns, and drift alerts that brought it there.
package treasury

import (
	"github.com/concordhq/ledger/id"
	"github.com/concordhq/ledger/types"
)

// EventKind identifies the kind of treasury event recorded.
type EventKind string

const (
	EventMint       EventKind = "mint"
	EventBurn       EventKind = "burn"
	EventDriftAlert EventKind = "drift_alert"
)

// State is the singleton treasury record. It is updated only by Mint,
// Burn, and Reconcile.
type State struct {
	types.Entity
	TotalUSDCents   types.Cents `json:"total_usd_cents"`
	TotalCoinsCents types.Cents `json:"total_coins_cents"`
	LastReconciled  int64       `json:"last_reconciled"`
	DriftCents      types.Cents `json:"drift_cents"`
	DriftAlert      bool        `json:"drift_alert"`
	Frozen          bool        `json:"frozen"`
}

// Solvent reports whether the solvency invariant holds:
//  1. total coins <= total USD
//  2. total USD >= circulating coins (passed in from the balance projector)
func (s State) Solvent(circulatingCoins types.Cents) bool {
	if s.TotalCoinsCents > s.TotalUSDCents {
		return false
	}
	if s.TotalUSDCents < circulatingCoins {
		return false
	}
	return true
}

// Event is an append-only log row for a mint, burn, or drift alert,
// carrying the before/after snapshot of the singleton state.
type Event struct {
	types.Entity
	ID       id.TreasuryEventID `json:"id"`
	Kind     EventKind          `json:"kind"`
	Amount   types.Cents        `json:"amount"`
	Before   State              `json:"before"`
	After    State              `json:"after"`
	EntryRef string             `json:"entry_ref,omitempty"`
	Detail   string             `json:"detail,omitempty"`
}
