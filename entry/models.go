// Package entry implements the append-only ledger: batch writes, idempotent
// replay of duplicate refs, and account-scoped reads. Balances are never
// stored here — see package balance for the projection.
package entry

import (
	"github.com/concordhq/ledger/account"
	"github.com/concordhq/ledger/id"
	"github.com/concordhq/ledger/types"
)

// Kind identifies the economic event a ledger entry represents.
type Kind string

const (
	KindTokenPurchase     Kind = "token_purchase"
	KindTransfer          Kind = "transfer"
	KindMarketplacePurchase Kind = "marketplace_purchase"
	KindWithdrawal        Kind = "withdrawal"
	KindFee               Kind = "fee"
	KindRoyalty           Kind = "royalty"
	KindEmergentTransfer  Kind = "emergent_transfer"
	KindReversal          Kind = "reversal"
)

// Status is the lifecycle state of a ledger entry.
type Status string

const (
	StatusPending  Status = "pending"
	StatusComplete Status = "complete"
	StatusReversed Status = "reversed"
)

// Entry is a single row in the append-only ledger. Once Complete, every
// value field is immutable; a later correction writes new entries and
// flips Status to Reversed, it never mutates AmountCents/FeeCents/NetCents.
type Entry struct {
	types.Entity
	ID          id.EntryID        `json:"id"`
	BatchID     id.BatchID        `json:"batch_id"`
	Kind        Kind              `json:"kind"`
	FromAccount account.Account   `json:"from_account,omitempty"`
	ToAccount   account.Account   `json:"to_account,omitempty"`
	AmountCents types.Cents       `json:"amount_cents"`
	FeeCents    types.Cents       `json:"fee_cents"`
	NetCents    types.Cents       `json:"net_cents"`
	Status      Status            `json:"status"`
	RefID       string            `json:"ref_id,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	RequestID   string            `json:"request_id,omitempty"`
	IP          string            `json:"ip,omitempty"`
}

// HasEndpoint reports whether at least one of from/to is set, the
// invariant every entry must satisfy.
func (e *Entry) HasEndpoint() bool {
	return !e.FromAccount.IsZero() || !e.ToAccount.IsZero()
}

// Batch is a list of entries sharing a generated batch id, applied
// atomically: either every entry commits or none does.
type Batch struct {
	ID      id.BatchID
	Entries []*Entry
}
