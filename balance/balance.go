// Package balance derives account balances purely by summing completed
// ledger entries. No balance is ever stored here — every call recomputes
// from the entries passed in.
package balance

import (
	"github.com/concordhq/ledger/account"
	"github.com/concordhq/ledger/entry"
	"github.com/concordhq/ledger/types"
)

// Balance decomposes a projected balance into its credit and debit sides
// so callers (and tests) can assert the decomposition rather than just the
// net figure.
type Balance struct {
	Account account.Account `json:"account"`
	Credits types.Cents     `json:"credits"`
	Debits  types.Cents     `json:"debits"`
}

// Net returns credits minus debits.
func (b Balance) Net() types.Cents {
	return b.Credits - b.Debits
}

// Project computes the balance of acct from a set of ledger entries.
// Only Complete entries contribute. The sender is debited AmountCents
// (not NetCents) so that it bears the fee; the recipient is credited
// NetCents.
func Project(acct account.Account, entries []*entry.Entry) Balance {
	bal := Balance{Account: acct}
	for _, e := range entries {
		if e.Status != entry.StatusComplete {
			continue
		}
		if e.ToAccount == acct {
			bal.Credits += e.NetCents
		}
		if e.FromAccount == acct {
			bal.Debits += e.AmountCents
		}
	}
	return bal
}

// Summary partitions a set of accounts into the user/emergent/platform
// buckets and totals their net balances, the system-wide view required
// alongside per-account projection.
type Summary struct {
	UserNet     types.Cents
	EmergentNet types.Cents
	PlatformNet types.Cents
}

// ProjectSummary computes a Summary over every account referenced by the
// given entries.
func ProjectSummary(entries []*entry.Entry) Summary {
	touched := map[account.Account]struct{}{}
	for _, e := range entries {
		if e.Status != entry.StatusComplete {
			continue
		}
		if !e.FromAccount.IsZero() {
			touched[e.FromAccount] = struct{}{}
		}
		if !e.ToAccount.IsZero() {
			touched[e.ToAccount] = struct{}{}
		}
	}

	var s Summary
	for acct := range touched {
		net := Project(acct, entries).Net()
		switch account.ClassifyBucket(acct) {
		case account.BucketUser:
			s.UserNet += net
		case account.BucketEmergent:
			s.EmergentNet += net
		case account.BucketPlatform:
			s.PlatformNet += net
		}
	}
	return s
}

// CirculatingCoins is Σ credits − Σ debits over the ledger excluding the
// treasury account itself — the figure the treasury's solvency invariant
// compares against total-usd-cents. Only the treasury-side leg of an
// entry is excluded; the other side still moves real circulating coins
// (e.g. a withdrawal's user-side debit still reduces circulation even
// though its treasury-side credit does not count).
func CirculatingCoins(entries []*entry.Entry) types.Cents {
	var total types.Cents
	for _, e := range entries {
		if e.Status != entry.StatusComplete {
			continue
		}
		if !e.ToAccount.IsZero() && e.ToAccount != account.Treasury {
			total += e.NetCents
		}
		if !e.FromAccount.IsZero() && e.FromAccount != account.Treasury {
			total -= e.AmountCents
		}
	}
	return total
}
