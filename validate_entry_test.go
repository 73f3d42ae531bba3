package ledger

import (
	"errors"
	"testing"

	"github.com/concordhq/ledger/account"
	"github.com/concordhq/ledger/entry"
)

func validEntry() *entry.Entry {
	return &entry.Entry{
		Kind:        entry.KindTransfer,
		FromAccount: account.Account("user_1"),
		ToAccount:   account.Account("user_2"),
		AmountCents: 1000,
		FeeCents:    146,
		NetCents:    854,
		Status:      entry.StatusComplete,
	}
}

func TestValidateEntry(t *testing.T) {
	t.Run("valid entry passes", func(t *testing.T) {
		if err := validateEntry(validEntry()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing endpoints rejected", func(t *testing.T) {
		e := validEntry()
		e.FromAccount = ""
		e.ToAccount = ""
		if err := validateEntry(e); !errors.Is(err, ErrMissingEndpoints) {
			t.Fatalf("got %v, want ErrMissingEndpoints", err)
		}
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		e := validEntry()
		e.AmountCents = 0
		if err := validateEntry(e); !errors.Is(err, ErrNegativeAmount) {
			t.Fatalf("got %v, want ErrNegativeAmount", err)
		}
	})

	t.Run("negative fee rejected", func(t *testing.T) {
		e := validEntry()
		e.FeeCents = -1
		var ve *ValidationError
		if err := validateEntry(e); !errors.As(err, &ve) {
			t.Fatalf("got %v, want *ValidationError", err)
		}
	})

	t.Run("net must reconcile", func(t *testing.T) {
		e := validEntry()
		e.NetCents = 999
		var ve *ValidationError
		if err := validateEntry(e); !errors.As(err, &ve) {
			t.Fatalf("got %v, want *ValidationError", err)
		}
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		e := validEntry()
		e.Kind = entry.Kind("bogus")
		if err := validateEntry(e); !errors.Is(err, ErrInvalidEntryKind) {
			t.Fatalf("got %v, want ErrInvalidEntryKind", err)
		}
	})
}

func TestValidateBatch(t *testing.T) {
	batch := &entry.Batch{Entries: []*entry.Entry{validEntry(), validEntry()}}
	if err := validateBatch(batch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := validEntry()
	bad.AmountCents = -5
	batch.Entries = append(batch.Entries, bad)
	if err := validateBatch(batch); err == nil {
		t.Fatal("expected error for invalid entry in batch")
	}
}
