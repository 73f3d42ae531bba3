// Package purchase implements the marketplace purchase state machine: the
// Created -> Paid -> Settled -> Fulfilled happy path, Failed on any
// step error, and Refunded as an admin-initiated reversal.
package purchase

import (
	"github.com/concordhq/ledger/id"
	"github.com/concordhq/ledger/types"
)

// Status is a purchase's position in its state machine.
type Status string

const (
	StatusCreated   Status = "created"
	StatusPaid      Status = "paid"
	StatusSettled   Status = "settled"
	StatusFulfilled Status = "fulfilled"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

// transitions is the fixed adjacency table every status change is
// validated against.
var transitions = map[Status][]Status{
	StatusCreated:   {StatusPaid, StatusFailed},
	StatusPaid:      {StatusSettled, StatusFailed},
	StatusSettled:   {StatusFulfilled, StatusFailed},
	StatusFulfilled: {StatusRefunded},
	StatusFailed:    {},
	StatusRefunded:  {},
}

// CanTransition reports whether moving from -> to is a legal state
// machine edge.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Purchase is a single marketplace purchase in flight or settled.
type Purchase struct {
	types.Entity
	ID               id.PurchaseID `json:"id"`
	Buyer            string        `json:"buyer"`
	Seller           string        `json:"seller"`
	ListingID        id.ListingID  `json:"listing_id"`
	AmountCents      types.Cents   `json:"amount_cents"`
	Status           Status        `json:"status"`
	SettlementBatch  id.BatchID    `json:"settlement_batch_id,omitempty"`
	LicenseID        id.LicenseID  `json:"license_id,omitempty"`
	FeeCents         types.Cents   `json:"fee_cents"`
	SellerNetCents   types.Cents   `json:"seller_net_cents"`
	TotalRoyalties   types.Cents   `json:"total_royalties_cents"`
	RoyaltyDetails   []RoyaltyLine `json:"royalty_details,omitempty"`
	FailureReason    string        `json:"failure_reason,omitempty"`
	RetryCount       int           `json:"retry_count"`
}

// RoyaltyLine is a snapshot of one cascade recipient attached to the
// purchase record for quick display, mirroring the authoritative
// royalty.Payout rows.
type RoyaltyLine struct {
	CreatorID   string      `json:"creator_id"`
	Generation  int         `json:"generation"`
	Rate        float64     `json:"rate"`
	AmountCents types.Cents `json:"amount_cents"`
}

// StatusHistoryEntry captures one transition of a purchase's lifecycle.
type StatusHistoryEntry struct {
	PurchaseID id.PurchaseID `json:"purchase_id"`
	From       Status        `json:"from"`
	To         Status        `json:"to"`
	Reason     string        `json:"reason,omitempty"`
	Actor      string        `json:"actor,omitempty"`
	Timestamp  int64         `json:"timestamp"`
}
