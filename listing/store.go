package listing

import "context"

// Store persists listings. Publish enforces the (content_hash,
// status=Active) uniqueness invariant as a single atomic check-and-insert.
type Store interface {
	Publish(ctx context.Context, l *Listing) error
	Get(ctx context.Context, listingID string) (*Listing, error)
	GetByContentHash(ctx context.Context, hash string, status Status) (*Listing, error)
	Update(ctx context.Context, l *Listing) error

	// IncrementCounters bumps purchase-count and total-revenue atomically
	// with the purchase's settlement batch.
	IncrementCounters(ctx context.Context, listingID string, revenueCents int64) error

	// HasActiveLicense reports whether buyerID already holds an active
	// license for listingID, used to reject repeat purchases of
	// exclusive content.
	HasActiveLicense(ctx context.Context, listingID, buyerID string) (bool, error)

	// GrantLicense performs the atomic check-and-insert that acquires an
	// exclusive license, failing if one is already held.
	GrantLicense(ctx context.Context, listingID, buyerID, licenseID string) error
}
