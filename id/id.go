// Package id defines TypeID-based identity types for all Ledger entities.
//
// Every entity in Ledger uses a single ID struct with a prefix that identifies
// the entity type. IDs are K-sortable (UUIDv7-based), globally unique,
// and URL-safe in the format "prefix_suffix".
package id

import (
	"database/sql/driver"
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies the entity type encoded in a TypeID.
type Prefix string

// Prefix constants for all Ledger entity types.
const (
	PrefixEntry          Prefix = "entry" // Ledger entry
	PrefixBatch          Prefix = "batch" // Ledger batch
	PrefixTreasuryEvent  Prefix = "tevt"  // Treasury mint/burn/drift event
	PrefixPurchase       Prefix = "purc"  // Marketplace purchase
	PrefixCitationEdge   Prefix = "cite"  // Citation lineage edge
	PrefixRoyaltyPayout  Prefix = "roy"   // Royalty payout row
	PrefixEmergent       Prefix = "emrg"  // Emergent entity account
	PrefixListing        Prefix = "list"  // Marketplace listing
	PrefixFeeDist        Prefix = "fdis"  // Fee-split distribution row
	PrefixReconcileRun   Prefix = "recn"  // Reconciliation run
	PrefixLicense        Prefix = "lic"   // Purchase license grant
	PrefixVaultRef       Prefix = "vref"  // Vault entry reference (non-content-addressed callers)
)

// ID is the primary identifier type for all Ledger entities.
// It wraps a TypeID providing a prefix-qualified, globally unique,
// sortable, URL-safe identifier in the format "prefix_suffix".
//
//nolint:recvcheck // Value receivers for read-only methods, pointer receivers for UnmarshalText/Scan.
type ID struct {
	inner typeid.TypeID
	valid bool
}

// Nil is the zero-value ID.
var Nil ID

// New generates a new globally unique ID with the given prefix.
// It panics if prefix is not a valid TypeID prefix (programming error).
func New(prefix Prefix) ID {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}

	return ID{inner: tid, valid: true}
}

// Parse parses a TypeID string (e.g., "plan_01h2xcejqtf2nbrexx3vqjhp41")
// into an ID. Returns an error if the string is not valid.
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse %q: empty string", s)
	}

	tid, err := typeid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}

	return ID{inner: tid, valid: true}, nil
}

// ParseWithPrefix parses a TypeID string and validates that its prefix
// matches the expected value.
func ParseWithPrefix(s string, expected Prefix) (ID, error) {
	parsed, err := Parse(s)
	if err != nil {
		return Nil, err
	}

	if parsed.Prefix() != expected {
		return Nil, fmt.Errorf("id: expected prefix %q, got %q", expected, parsed.Prefix())
	}

	return parsed, nil
}

// MustParse is like Parse but panics on error. Use for hardcoded ID values.
func MustParse(s string) ID {
	parsed, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("id: must parse %q: %v", s, err))
	}

	return parsed
}

// MustParseWithPrefix is like ParseWithPrefix but panics on error.
func MustParseWithPrefix(s string, expected Prefix) ID {
	parsed, err := ParseWithPrefix(s, expected)
	if err != nil {
		panic(fmt.Sprintf("id: must parse with prefix %q: %v", expected, err))
	}

	return parsed
}

// ──────────────────────────────────────────────────
// Type aliases
// ──────────────────────────────────────────────────

// EntryID is a type-safe identifier for ledger entries (prefix: "entry").
type EntryID = ID

// BatchID is a type-safe identifier for ledger batches (prefix: "batch").
type BatchID = ID

// TreasuryEventID is a type-safe identifier for treasury events (prefix: "tevt").
type TreasuryEventID = ID

// PurchaseID is a type-safe identifier for purchases (prefix: "purc").
type PurchaseID = ID

// CitationEdgeID is a type-safe identifier for citation edges (prefix: "cite").
type CitationEdgeID = ID

// RoyaltyPayoutID is a type-safe identifier for royalty payouts (prefix: "roy").
type RoyaltyPayoutID = ID

// EmergentID is a type-safe identifier for emergent accounts (prefix: "emrg").
type EmergentID = ID

// ListingID is a type-safe identifier for listings (prefix: "list").
type ListingID = ID

// FeeDistID is a type-safe identifier for fee-split distributions (prefix: "fdis").
type FeeDistID = ID

// ReconcileRunID is a type-safe identifier for reconciliation runs (prefix: "recn").
type ReconcileRunID = ID

// LicenseID is a type-safe identifier for license grants (prefix: "lic").
type LicenseID = ID

// AnyID is a type alias that accepts any valid prefix.
type AnyID = ID

// ──────────────────────────────────────────────────
// Convenience constructors
// ──────────────────────────────────────────────────

// NewEntryID generates a new unique ledger entry ID.
func NewEntryID() ID { return New(PrefixEntry) }

// NewBatchID generates a new unique batch ID.
func NewBatchID() ID { return New(PrefixBatch) }

// NewTreasuryEventID generates a new unique treasury event ID.
func NewTreasuryEventID() ID { return New(PrefixTreasuryEvent) }

// NewPurchaseID generates a new unique purchase ID.
func NewPurchaseID() ID { return New(PrefixPurchase) }

// NewCitationEdgeID generates a new unique citation edge ID.
func NewCitationEdgeID() ID { return New(PrefixCitationEdge) }

// NewRoyaltyPayoutID generates a new unique royalty payout ID.
func NewRoyaltyPayoutID() ID { return New(PrefixRoyaltyPayout) }

// NewEmergentID generates a new unique emergent account ID.
func NewEmergentID() ID { return New(PrefixEmergent) }

// NewListingID generates a new unique listing ID.
func NewListingID() ID { return New(PrefixListing) }

// NewFeeDistID generates a new unique fee distribution ID.
func NewFeeDistID() ID { return New(PrefixFeeDist) }

// NewReconcileRunID generates a new unique reconciliation run ID.
func NewReconcileRunID() ID { return New(PrefixReconcileRun) }

// NewLicenseID generates a new unique license ID.
func NewLicenseID() ID { return New(PrefixLicense) }

// ──────────────────────────────────────────────────
// Convenience parsers
// ──────────────────────────────────────────────────

// ParseEntryID parses a string and validates the "entry" prefix.
func ParseEntryID(s string) (ID, error) { return ParseWithPrefix(s, PrefixEntry) }

// ParseBatchID parses a string and validates the "batch" prefix.
func ParseBatchID(s string) (ID, error) { return ParseWithPrefix(s, PrefixBatch) }

// ParseTreasuryEventID parses a string and validates the "tevt" prefix.
func ParseTreasuryEventID(s string) (ID, error) { return ParseWithPrefix(s, PrefixTreasuryEvent) }

// ParsePurchaseID parses a string and validates the "purc" prefix.
func ParsePurchaseID(s string) (ID, error) { return ParseWithPrefix(s, PrefixPurchase) }

// ParseCitationEdgeID parses a string and validates the "cite" prefix.
func ParseCitationEdgeID(s string) (ID, error) { return ParseWithPrefix(s, PrefixCitationEdge) }

// ParseRoyaltyPayoutID parses a string and validates the "roy" prefix.
func ParseRoyaltyPayoutID(s string) (ID, error) { return ParseWithPrefix(s, PrefixRoyaltyPayout) }

// ParseEmergentID parses a string and validates the "emrg" prefix.
func ParseEmergentID(s string) (ID, error) { return ParseWithPrefix(s, PrefixEmergent) }

// ParseListingID parses a string and validates the "list" prefix.
func ParseListingID(s string) (ID, error) { return ParseWithPrefix(s, PrefixListing) }

// ParseFeeDistID parses a string and validates the "fdis" prefix.
func ParseFeeDistID(s string) (ID, error) { return ParseWithPrefix(s, PrefixFeeDist) }

// ParseReconcileRunID parses a string and validates the "recn" prefix.
func ParseReconcileRunID(s string) (ID, error) { return ParseWithPrefix(s, PrefixReconcileRun) }

// ParseLicenseID parses a string and validates the "lic" prefix.
func ParseLicenseID(s string) (ID, error) { return ParseWithPrefix(s, PrefixLicense) }

// ParseAny parses a string into an ID without type checking the prefix.
func ParseAny(s string) (ID, error) { return Parse(s) }

// ──────────────────────────────────────────────────
// ID methods
// ──────────────────────────────────────────────────

// String returns the full TypeID string representation (prefix_suffix).
// Returns an empty string for the Nil ID.
func (i ID) String() string {
	if !i.valid {
		return ""
	}

	return i.inner.String()
}

// Prefix returns the prefix component of this ID.
func (i ID) Prefix() Prefix {
	if !i.valid {
		return ""
	}

	return Prefix(i.inner.Prefix())
}

// IsNil reports whether this ID is the zero value.
func (i ID) IsNil() bool {
	return !i.valid
}

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) {
	if !i.valid {
		return []byte{}, nil
	}

	return []byte(i.inner.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*i = Nil

		return nil
	}

	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}

	*i = parsed

	return nil
}

// Value implements driver.Valuer for database storage.
// Returns nil for the Nil ID so that optional foreign key columns store NULL.
func (i ID) Value() (driver.Value, error) {
	if !i.valid {
		return nil, nil //nolint:nilnil // nil is the canonical NULL for driver.Valuer
	}

	return i.inner.String(), nil
}

// Scan implements sql.Scanner for database retrieval.
func (i *ID) Scan(src any) error {
	if src == nil {
		*i = Nil

		return nil
	}

	switch v := src.(type) {
	case string:
		if v == "" {
			*i = Nil

			return nil
		}

		return i.UnmarshalText([]byte(v))
	case []byte:
		if len(v) == 0 {
			*i = Nil

			return nil
		}

		return i.UnmarshalText(v)
	default:
		return fmt.Errorf("id: cannot scan %T into ID", src)
	}
}
