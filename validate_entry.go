package ledger

import (
	"fmt"

	"github.com/concordhq/ledger/entry"
)

// validateEntry checks the static invariants a ledger entry must satisfy
// before it is handed to a Store: positive amount, non-negative fee, a net
// that reconciles with amount and fee, a recognised kind, and at least one
// endpoint account.
func validateEntry(e *entry.Entry) error {
	if !e.HasEndpoint() {
		return ErrMissingEndpoints
	}
	if e.AmountCents <= 0 {
		return ErrNegativeAmount
	}
	if e.FeeCents < 0 {
		return &ValidationError{Field: "fee_cents", Message: "must be >= 0"}
	}
	if e.NetCents != e.AmountCents-e.FeeCents {
		return &ValidationError{
			Field:   "net_cents",
			Message: fmt.Sprintf("net (%d) must equal amount (%d) minus fee (%d)", e.NetCents, e.AmountCents, e.FeeCents),
		}
	}
	if !isKnownEntryKind(e.Kind) {
		return ErrInvalidEntryKind
	}
	return nil
}

// validateBatch validates every entry in the batch and returns the first
// error encountered, wrapped with its position for diagnosability.
func validateBatch(batch *entry.Batch) error {
	for i, e := range batch.Entries {
		if err := validateEntry(e); err != nil {
			return fmt.Errorf("entry[%d]: %w", i, err)
		}
	}
	return nil
}

func isKnownEntryKind(k entry.Kind) bool {
	switch k {
	case entry.KindTokenPurchase, entry.KindTransfer, entry.KindMarketplacePurchase, entry.KindWithdrawal,
		entry.KindFee, entry.KindRoyalty, entry.KindEmergentTransfer, entry.KindReversal:
		return true
	default:
		return false
	}
}
