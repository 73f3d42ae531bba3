package entry

import (
	"testing"

	"github.com/concordhq/ledger/account"
)

func TestHasEndpoint(t *testing.T) {
	tests := []struct {
		name string
		e    Entry
		want bool
	}{
		{"both set", Entry{FromAccount: account.Account("a"), ToAccount: account.Account("b")}, true},
		{"from only (burn)", Entry{FromAccount: account.Account("a")}, true},
		{"to only (mint)", Entry{ToAccount: account.Account("b")}, true},
		{"neither set", Entry{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.e.HasEndpoint(); got != tt.want {
				t.Errorf("HasEndpoint() = %v, want %v", got, tt.want)
			}
		})
	}
}
