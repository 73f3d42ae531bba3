package treasury

import (
	"testing"

	"github.com/concordhq/ledger/types"
)

func TestMint(t *testing.T) {
	start := State{TotalUSDCents: 1000, TotalCoinsCents: 900}
	got := Mint(start, 500)
	if got.TotalUSDCents != 1500 || got.TotalCoinsCents != 1400 {
		t.Fatalf("got %+v", got)
	}
}

func TestBurnInsufficientCoins(t *testing.T) {
	start := State{TotalUSDCents: 1000, TotalCoinsCents: 100}
	_, ok := Burn(start, 500)
	if ok {
		t.Fatal("expected burn to be rejected")
	}
}

func TestBurnSuccess(t *testing.T) {
	start := State{TotalUSDCents: 1000, TotalCoinsCents: 900}
	got, ok := Burn(start, 400)
	if !ok {
		t.Fatal("expected burn to succeed")
	}
	if got.TotalUSDCents != 600 || got.TotalCoinsCents != 500 {
		t.Fatalf("got %+v", got)
	}
}

func TestSolvent(t *testing.T) {
	tests := []struct {
		name        string
		s           State
		circulating types.Cents
		want        bool
	}{
		{"solvent", State{TotalUSDCents: 1000, TotalCoinsCents: 900}, 900, true},
		{"coins exceed usd", State{TotalUSDCents: 900, TotalCoinsCents: 1000}, 900, false},
		{"usd below circulating", State{TotalUSDCents: 800, TotalCoinsCents: 700}, 900, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Solvent(tt.circulating); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
