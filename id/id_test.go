package id

import (
	"strings"
	"testing"
)

func TestNewIDs(t *testing.T) {
	tests := []struct {
		name    string
		newFunc func() string
		prefix  Prefix
	}{
		{"EntryID", func() string { return NewEntryID().String() }, PrefixEntry},
		{"BatchID", func() string { return NewBatchID().String() }, PrefixBatch},
		{"TreasuryEventID", func() string { return NewTreasuryEventID().String() }, PrefixTreasuryEvent},
		{"PurchaseID", func() string { return NewPurchaseID().String() }, PrefixPurchase},
		{"CitationEdgeID", func() string { return NewCitationEdgeID().String() }, PrefixCitationEdge},
		{"RoyaltyPayoutID", func() string { return NewRoyaltyPayoutID().String() }, PrefixRoyaltyPayout},
		{"EmergentID", func() string { return NewEmergentID().String() }, PrefixEmergent},
		{"ListingID", func() string { return NewListingID().String() }, PrefixListing},
		{"FeeDistID", func() string { return NewFeeDistID().String() }, PrefixFeeDist},
		{"ReconcileRunID", func() string { return NewReconcileRunID().String() }, PrefixReconcileRun},
		{"LicenseID", func() string { return NewLicenseID().String() }, PrefixLicense},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := tt.newFunc()

			if !strings.HasPrefix(id, string(tt.prefix)+"_") {
				t.Errorf("ID %s does not have prefix %s", id, tt.prefix)
			}

			parts := strings.Split(id, "_")
			if len(parts) != 2 {
				t.Errorf("ID %s does not have correct format", id)
			}

			if len(parts[1]) != 26 {
				t.Errorf("ID suffix %s does not have correct length (got %d, want 26)", parts[1], len(parts[1]))
			}
		})
	}
}

func TestParseIDs(t *testing.T) {
	tests := []struct {
		name      string
		parseFunc func(string) (interface{}, error)
		validID   string
		invalidID string
		wrongID   string // ID with wrong prefix
	}{
		{
			"ParseEntryID",
			func(s string) (interface{}, error) { return ParseEntryID(s) },
			"entry_01h2xcejqtf2nbrexx3vqjhp41",
			"entry_invalid",
			"batch_01h2xcejqtf2nbrexx3vqjhp41",
		},
		{
			"ParsePurchaseID",
			func(s string) (interface{}, error) { return ParsePurchaseID(s) },
			"purc_01h2xcejqtf2nbrexx3vqjhp41",
			"purc_invalid",
			"entry_01h2xcejqtf2nbrexx3vqjhp41",
		},
		{
			"ParseListingID",
			func(s string) (interface{}, error) { return ParseListingID(s) },
			"list_01h2xcejqtf2nbrexx3vqjhp41",
			"list_invalid",
			"purc_01h2xcejqtf2nbrexx3vqjhp41",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := tt.parseFunc(tt.validID)
			if err != nil {
				t.Errorf("Failed to parse valid ID %s: %v", tt.validID, err)
			}
			if id == nil {
				t.Errorf("Parsed ID is nil for %s", tt.validID)
			}

			_, err = tt.parseFunc(tt.invalidID)
			if err == nil {
				t.Errorf("Expected error parsing invalid ID %s", tt.invalidID)
			}

			_, err = tt.parseFunc(tt.wrongID)
			if err == nil {
				t.Errorf("Expected error parsing ID with wrong prefix %s", tt.wrongID)
			}
			if err != nil && !strings.Contains(err.Error(), "expected prefix") {
				t.Errorf("Wrong error message for incorrect prefix: %v", err)
			}
		})
	}
}

func TestParseAny(t *testing.T) {
	validIDs := []string{
		"entry_01h2xcejqtf2nbrexx3vqjhp41",
		"batch_01h2xcejqtf2nbrexx3vqjhp41",
		"purc_01h2xcejqtf2nbrexx3vqjhp41",
		"cite_01h2xcejqtf2nbrexx3vqjhp41",
		"emrg_01h2xcejqtf2nbrexx3vqjhp41",
	}

	for _, id := range validIDs {
		parsed, err := ParseAny(id)
		if err != nil {
			t.Errorf("Failed to parse valid ID %s: %v", id, err)
		}
		if parsed.String() != id {
			t.Errorf("Parsed ID mismatch: got %s, want %s", parsed.String(), id)
		}
	}

	_, err := ParseAny("invalid_id")
	if err == nil {
		t.Error("Expected error parsing invalid ID")
	}
}

func TestIDUniqueness(t *testing.T) {
	const count = 100
	ids := make(map[string]bool)

	for i := 0; i < count; i++ {
		id := NewEntryID().String()
		if ids[id] {
			t.Fatalf("Duplicate ID generated: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != count {
		t.Errorf("Expected %d unique IDs, got %d", count, len(ids))
	}
}

func TestIDSortability(t *testing.T) {
	id1 := NewEntryID()
	id2 := NewEntryID()
	id3 := NewEntryID()

	if id1.String() >= id2.String() {
		t.Logf("Warning: IDs may not be perfectly time-ordered: %s >= %s", id1, id2)
	}
	if id2.String() >= id3.String() {
		t.Logf("Warning: IDs may not be perfectly time-ordered: %s >= %s", id2, id3)
	}
}

func BenchmarkNewEntryID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = NewEntryID()
	}
}

func BenchmarkParseEntryID(b *testing.B) {
	id := "entry_01h2xcejqtf2nbrexx3vqjhp41"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ParseEntryID(id)
	}
}
