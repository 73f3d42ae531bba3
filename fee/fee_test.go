package fee

import (
	"testing"

	"github.com/concordhq/ledger/entry"
)

func TestCalculateUniversalRate(t *testing.T) {
	s := DefaultSchedule()
	feeCents, netCents := s.Calculate(entry.KindTransfer, 10000)
	if feeCents != 146 {
		t.Errorf("fee: got %d, want 146", feeCents)
	}
	if netCents != 9854 {
		t.Errorf("net: got %d, want 9854", netCents)
	}
}

func TestCalculateMarketplaceRate(t *testing.T) {
	s := DefaultSchedule()
	feeCents, netCents := s.Calculate(entry.KindMarketplacePurchase, 10000)
	if feeCents != 546 {
		t.Errorf("fee: got %d, want 546", feeCents)
	}
	if netCents != 9454 {
		t.Errorf("net: got %d, want 9454", netCents)
	}
}

func TestCalculateRoyaltyFeeFree(t *testing.T) {
	s := DefaultSchedule()
	feeCents, netCents := s.Calculate(entry.KindRoyalty, 5000)
	if feeCents != 0 {
		t.Errorf("fee: got %d, want 0", feeCents)
	}
	if netCents != 5000 {
		t.Errorf("net: got %d, want 5000", netCents)
	}
}
