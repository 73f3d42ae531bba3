package treasury

import "github.com/concordhq/ledger/types"

// Mint returns the treasury state after minting amount: both totals
// increase together, preserving the peg. amount must be positive; callers
// validate that upstream.
func Mint(current State, amount types.Cents) State {
	next := current
	next.TotalUSDCents += amount
	next.TotalCoinsCents += amount
	return next
}

// Burn returns the treasury state after burning amount, and ok=false if
// there are insufficient coins in circulation to burn (total coins would
// go negative).
func Burn(current State, amount types.Cents) (next State, ok bool) {
	if current.TotalCoinsCents < amount {
		return current, false
	}
	next = current
	next.TotalUSDCents -= amount
	next.TotalCoinsCents -= amount
	return next, true
}

// Drift returns the difference between the treasury's recorded USD total
// and the expected total computed externally (e.g. by the reconciler from
// Σ Mint − Σ Burn, or from a payments-gateway balance).
func Drift(s State, expectedUSDCents types.Cents) types.Cents {
	return s.TotalUSDCents - expectedUSDCents
}
