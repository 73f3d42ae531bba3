package emergent

import (
	"testing"

	"github.com/concordhq/ledger/entry"
	"github.com/concordhq/ledger/id"
)

func TestCanWithdrawToFiatAlwaysFalse(t *testing.T) {
	a := &Account{Status: StatusActive, OperatingCents: 100000}
	if a.CanWithdrawToFiat() {
		t.Fatal("emergent accounts must never be able to withdraw to fiat")
	}
}

func TestCheckConsistencyCleanWhenMatching(t *testing.T) {
	eid := id.NewEmergentID()
	a := &Account{ID: eid, OperatingCents: 300, ReserveCents: 200}

	entries := []*entry.Entry{
		{FromAccount: "platform", ToAccount: a.OperatingAccount(), AmountCents: 500, NetCents: 500, Status: entry.StatusComplete},
		{FromAccount: a.OperatingAccount(), ToAccount: a.ReserveAccount(), AmountCents: 200, NetCents: 200, Status: entry.StatusComplete},
	}

	d := CheckConsistency(a, entries)
	if !d.Clean() {
		t.Fatalf("expected clean drift, got %+v", d)
	}
}

func TestCheckConsistencyDetectsDrift(t *testing.T) {
	eid := id.NewEmergentID()
	a := &Account{ID: eid, OperatingCents: 999, ReserveCents: 0}
	entries := []*entry.Entry{}

	d := CheckConsistency(a, entries)
	if d.Clean() {
		t.Fatal("expected drift to be detected")
	}
}
