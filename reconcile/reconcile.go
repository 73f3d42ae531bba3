package reconcile

import "github.com/concordhq/ledger/types"

// AlertThresholdCents is the minimum absolute drift that raises an alert.
const AlertThresholdCents types.Cents = 1

// Evaluate computes a Run from the inputs the reconciler gathers:
// expected treasury USD cents derived from Σ Mint − Σ Burn over completed
// ledger entries, the treasury's own recorded total, whether the
// solvency invariant currently holds, and optionally an external
// payments-gateway balance to cross-check against.
func Evaluate(ledgerExpected, recordedUSDCents types.Cents, solvencyOK bool, externalBalance *types.Cents, nowUnix int64) Run {
	drift := recordedUSDCents - ledgerExpected

	run := Run{
		LedgerExpected:   ledgerExpected,
		RecordedUSDCents: recordedUSDCents,
		ExternalBalance:  externalBalance,
		DriftCents:       drift,
		SolvencyOK:       solvencyOK,
		Timestamp:        nowUnix,
	}

	switch {
	case drift < -AlertThresholdCents:
		run.Status = StatusDeficit
	case drift > AlertThresholdCents:
		run.Status = StatusSurplus
	default:
		run.Status = StatusBalanced
	}

	run.AlertTriggered = !solvencyOK || absCents(drift) >= AlertThresholdCents
	return run
}

func absCents(c types.Cents) types.Cents {
	if c < 0 {
		return -c
	}
	return c
}
