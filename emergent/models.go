// Package emergent implements the dual-wallet sub-ledger for autonomous
// agent entities: an operating wallet and a reserve wallet, with a
// constitutional prohibition on exiting funds to fiat.
package emergent

import (
	"github.com/concordhq/ledger/account"
	"github.com/concordhq/ledger/id"
	"github.com/concordhq/ledger/types"
)

// Status is an emergent entity's account state.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// Account is an emergent entity's cached dual-wallet record. Balances are
// duplicated here for read speed but must always be reconcilable from
// ledger entries against OperatingAccount/ReserveAccount.
type Account struct {
	types.Entity
	ID               id.EmergentID `json:"id"`
	DisplayName      string        `json:"display_name"`
	OperatingCents   types.Cents   `json:"operating_balance_cents"`
	ReserveCents     types.Cents   `json:"reserve_balance_cents"`
	SeedAmountCents  types.Cents   `json:"seed_amount_cents"`
	TotalEarnedCents types.Cents   `json:"total_earned_cents"`
	TotalSpentCents  types.Cents   `json:"total_spent_cents"`
	Status           Status        `json:"status"`
}

// OperatingAccount returns the ledger account backing this entity's
// operating wallet.
func (a *Account) OperatingAccount() account.Account {
	return account.EmergentOperating(a.ID.String())
}

// ReserveAccount returns the ledger account backing this entity's reserve
// wallet.
func (a *Account) ReserveAccount() account.Account {
	return account.EmergentReserve(a.ID.String())
}

// CanWithdrawToFiat is constitutionally false: emergent funds never exit
// to fiat, regardless of status or balance.
func (a *Account) CanWithdrawToFiat() bool {
	return false
}
