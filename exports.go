package ledger

import "github.com/concordhq/ledger/types"

// Re-export common types for convenience so users don't have to import the
// types package directly.

// Money is re-exported from the types package (generic, multi-currency;
// used by the reconciler's human-readable drift reports).
type Money = types.Money

// Cents is re-exported from the types package. It is the monetary unit for
// every ledger quantity — single-currency, USD-pegged, integer cents.
type Cents = types.Cents

// Entity is re-exported from the types package.
type Entity = types.Entity

// Re-export Money constructors.
var (
	USD  = types.USD
	Zero = types.Zero
	Sum  = types.Sum
)

// RoundHalfUp is re-exported from the types package: fee and royalty
// arithmetic round half-away-from-zero at cent granularity.
var RoundHalfUp = types.RoundHalfUp

// NewEntity is re-exported from the types package.
var NewEntity = types.NewEntity
