package balance

import (
	"testing"

	"github.com/concordhq/ledger/account"
	"github.com/concordhq/ledger/entry"
)

func TestProject(t *testing.T) {
	buyer := account.Account("user_buyer")
	seller := account.Account("user_seller")

	entries := []*entry.Entry{
		{FromAccount: buyer, ToAccount: seller, AmountCents: 1000, FeeCents: 54, NetCents: 946, Status: entry.StatusComplete},
		{FromAccount: buyer, ToAccount: seller, AmountCents: 500, FeeCents: 0, NetCents: 500, Status: entry.StatusPending},
	}

	buyerBal := Project(buyer, entries)
	if buyerBal.Debits != 1000 || buyerBal.Credits != 0 {
		t.Fatalf("buyer balance: got %+v", buyerBal)
	}

	sellerBal := Project(seller, entries)
	if sellerBal.Credits != 946 || sellerBal.Debits != 0 {
		t.Fatalf("seller balance: got %+v", sellerBal)
	}
	if sellerBal.Net() != 946 {
		t.Fatalf("seller net: got %d, want 946", sellerBal.Net())
	}
}

func TestCirculatingCoinsExcludesTreasury(t *testing.T) {
	entries := []*entry.Entry{
		{FromAccount: account.Treasury, ToAccount: account.Account("user_a"), AmountCents: 1000, NetCents: 1000, Status: entry.StatusComplete},
		{FromAccount: account.Account("user_a"), ToAccount: account.Account("user_b"), AmountCents: 200, FeeCents: 10, NetCents: 190, Status: entry.StatusComplete},
	}
	// The mint's treasury-side debit doesn't count, but its credit to
	// user_a does (+1000). The transfer is a real account-to-account
	// move: user_b is credited its net (+190) and user_a is debited the
	// full amount (−200) since the sender bears the fee; with no
	// corresponding Fee entry crediting the platform account in this
	// minimal fixture, that 10-cent fee simply isn't in circulation.
	// 1000 + 190 − 200 = 990.
	got := CirculatingCoins(entries)
	if got != 990 {
		t.Fatalf("got %d, want 990", got)
	}
}

func TestProjectSummaryBuckets(t *testing.T) {
	entries := []*entry.Entry{
		{FromAccount: account.Treasury, ToAccount: account.Account("user_a"), AmountCents: 1000, NetCents: 1000, Status: entry.StatusComplete},
		{FromAccount: account.Account("user_a"), ToAccount: account.Platform, AmountCents: 100, NetCents: 100, Status: entry.StatusComplete},
		{FromAccount: account.Platform, ToAccount: account.EmergentOperating("agent-1"), AmountCents: 50, NetCents: 50, Status: entry.StatusComplete},
	}
	s := ProjectSummary(entries)
	if s.UserNet != 900 {
		t.Errorf("UserNet: got %d, want 900", s.UserNet)
	}
	if s.EmergentNet != 50 {
		t.Errorf("EmergentNet: got %d, want 50", s.EmergentNet)
	}
	if s.PlatformNet != -950 {
		t.Errorf("PlatformNet: got %d, want -950", s.PlatformNet)
	}
}
