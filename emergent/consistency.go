package emergent

import (
	"fmt"

	"github.com/concordhq/ledger/balance"
	"github.com/concordhq/ledger/entry"
)

// Drift describes a divergence found by CheckConsistency between an
// emergent entity's cached balances and the ledger projection over its
// two prefixed accounts.
type Drift struct {
	EmergentID         string
	OperatingCached    int64
	OperatingProjected int64
	ReserveCached      int64
	ReserveProjected   int64
}

func (d Drift) String() string {
	return fmt.Sprintf("emergent %s: operating cached=%d projected=%d, reserve cached=%d projected=%d",
		d.EmergentID, d.OperatingCached, d.OperatingProjected, d.ReserveCached, d.ReserveProjected)
}

// Clean reports whether no divergence was found.
func (d Drift) Clean() bool {
	return d.OperatingCached == d.OperatingProjected && d.ReserveCached == d.ReserveProjected
}

// CheckConsistency compares a's cached balances against the ledger
// projection computed from entries. Callers are expected to run this
// periodically over every emergent account, per the engine's required
// consistency check.
func CheckConsistency(a *Account, entries []*entry.Entry) Drift {
	opBal := balance.Project(a.OperatingAccount(), entries)
	resBal := balance.Project(a.ReserveAccount(), entries)
	return Drift{
		EmergentID:         a.ID.String(),
		OperatingCached:    int64(a.OperatingCents),
		OperatingProjected: int64(opBal.Net()),
		ReserveCached:      int64(a.ReserveCents),
		ReserveProjected:   int64(resBal.Net()),
	}
}
