// Package feesplit synthesizes the 80/10/10 transfers that move a
// collected fee from the platform account into reserves, operating, and
// payroll.
package feesplit

import (
	"github.com/concordhq/ledger/id"
	"github.com/concordhq/ledger/types"
)

// Ratios are the fixed split ratios. They sum to 1.0; remainder cents from
// rounding are allocated to payroll so the three outputs sum exactly to
// the input fee.
const (
	ReservesRatio  = 0.80
	OperatingRatio = 0.10
	PayrollRatio   = 0.10
)

// Split is the computed 80/10/10 breakdown of a single fee.
type Split struct {
	ReservesCents  types.Cents
	OperatingCents types.Cents
	PayrollCents   types.Cents
}

// Total returns the sum of the three legs, which is always exactly the
// input fee.
func (s Split) Total() types.Cents {
	return s.ReservesCents + s.OperatingCents + s.PayrollCents
}

// Compute splits feeCents 80/10/10, crediting any rounding remainder to
// payroll.
func Compute(feeCents types.Cents) Split {
	reserves := types.RoundHalfUp(float64(feeCents) * ReservesRatio)
	operating := types.RoundHalfUp(float64(feeCents) * OperatingRatio)
	payroll := feeCents - reserves - operating
	return Split{ReservesCents: reserves, OperatingCents: operating, PayrollCents: payroll}
}

// Distribution is the companion row appended alongside the three ledger
// transfers a Split produces, linking them back to the source transaction.
type Distribution struct {
	ID                  id.FeeDistID `json:"id"`
	SourceTransactionID string       `json:"source_transaction_id"`
	TotalFeeCents       types.Cents  `json:"total_fee_cents"`
	ReservesCents       types.Cents  `json:"reserves_cents"`
	OperatingCents      types.Cents  `json:"operating_cents"`
	PayrollCents        types.Cents  `json:"payroll_cents"`
	CreatedAt           int64        `json:"created_at"`
}
