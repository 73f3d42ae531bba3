package feesplit

import (
	"testing"

	"github.com/concordhq/ledger/types"
)

func TestComputeSumsExactly(t *testing.T) {
	for _, fee := range []types.Cents{0, 1, 2, 3, 7, 100, 101, 546, 999999} {
		s := Compute(fee)
		if s.Total() != fee {
			t.Errorf("fee=%d: split totals %d, want %d (%+v)", fee, s.Total(), fee, s)
		}
	}
}

func TestComputeKnownSplit(t *testing.T) {
	s := Compute(1000)
	if s.ReservesCents != 800 {
		t.Errorf("reserves: got %d, want 800", s.ReservesCents)
	}
	if s.OperatingCents != 100 {
		t.Errorf("operating: got %d, want 100", s.OperatingCents)
	}
	if s.PayrollCents != 100 {
		t.Errorf("payroll: got %d, want 100", s.PayrollCents)
	}
}

func TestComputeOddRemainderGoesToPayroll(t *testing.T) {
	s := Compute(7)
	// reserves = round(5.6) = 6, operating = round(0.7) = 1, payroll = 7-6-1 = 0
	if s.Total() != 7 {
		t.Fatalf("total: got %d, want 7", s.Total())
	}
	if s.PayrollCents < 0 {
		t.Errorf("payroll went negative: %+v", s)
	}
}
