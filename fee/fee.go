// Package fee computes the fee owed on a ledger entry from a constant
// schedule of rates by kind. Rates are the only policy input; all other
// arithmetic is fixed.
package fee

import (
	"github.com/concordhq/ledger/entry"
	"github.com/concordhq/ledger/types"
)

// Schedule maps an entry kind to the fee rate applied to it, expressed as
// a fraction (0.0146 == 1.46%).
type Schedule map[entry.Kind]float64

// DefaultSchedule is the fee schedule for this deployment: a universal
// 1.46% rate on value-moving entries, with MarketplacePurchase carrying an
// additional 4% marketplace fee for a combined 5.46%. Royalty payouts are
// fee-free.
func DefaultSchedule() Schedule {
	const (
		universal   = 0.0146
		marketplace = 0.04
	)
	return Schedule{
		entry.KindTransfer:            universal,
		entry.KindTokenPurchase:       universal,
		entry.KindWithdrawal:          universal,
		entry.KindEmergentTransfer:    universal,
		entry.KindMarketplacePurchase: universal + marketplace,
	}
}

// Rate returns the configured rate for kind, or 0 if the schedule has no
// entry for it (e.g. Royalty, Fee, Reversal — all fee-free).
func (s Schedule) Rate(k entry.Kind) float64 {
	return s[k]
}

// Calculate returns the fee and net for amount under kind, per
// fee = round_half_up(amount * rate), net = amount - fee.
func (s Schedule) Calculate(k entry.Kind, amount types.Cents) (feeCents, netCents types.Cents) {
	rate := s.Rate(k)
	if rate == 0 {
		return 0, amount
	}
	fee := types.RoundHalfUp(float64(amount) * rate)
	return fee, amount - fee
}
