// Package listing implements marketplace listings: the content a seller
// offers, its price, and the dedup-at-publish invariant enforced on
// content hash.
package listing

import (
	"github.com/concordhq/ledger/id"
	"github.com/concordhq/ledger/types"
)

// Status is a listing's visibility state.
type Status string

const (
	StatusActive   Status = "active"
	StatusPaused   Status = "paused"
	StatusDelisted Status = "delisted"
)

// LicenseType distinguishes a listing's grant semantics.
type LicenseType string

const (
	LicenseStandard  LicenseType = "standard"
	LicenseExclusive LicenseType = "exclusive"
)

// Listing is a single piece of content offered for sale. Invariant:
// (ContentHash, Status=Active) is unique — dedup is enforced at publish,
// not at purchase time.
type Listing struct {
	types.Entity
	ID            id.ListingID `json:"id"`
	Seller        string       `json:"seller"`
	ContentID     string       `json:"content_id"`
	ContentHash   string       `json:"content_hash"` // sha-256
	PriceCents    types.Cents  `json:"price_cents"`
	LicenseType   LicenseType  `json:"license_type"`
	Status        Status       `json:"status"`
	PurchaseCount int64        `json:"purchase_count"`
	TotalRevenue  types.Cents  `json:"total_revenue_cents"`
}
