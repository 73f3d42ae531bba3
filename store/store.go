// Package store declares the unified persistence interface the economic
// engine depends on. Concrete implementations live in store/memory,
// store/postgres, and store/sqlite.
package store

import (
	"context"

	"github.com/concordhq/ledger/account"
	"github.com/concordhq/ledger/emergent"
	"github.com/concordhq/ledger/entry"
	"github.com/concordhq/ledger/feesplit"
	"github.com/concordhq/ledger/id"
	"github.com/concordhq/ledger/listing"
	"github.com/concordhq/ledger/purchase"
	"github.com/concordhq/ledger/reconcile"
	"github.com/concordhq/ledger/royalty"
	"github.com/concordhq/ledger/treasury"
	"github.com/concordhq/ledger/types"
	"github.com/concordhq/ledger/vault"
)

// Store is the unified storage interface for all ledger entities.
// Instead of embedding the sub-interfaces, we explicitly declare all
// methods to avoid naming conflicts between entity stores that share verb
// names like Get/Create/Update.
type Store interface {
	// Ledger entry methods
	RecordBatch(ctx context.Context, batch *entry.Batch) ([]*entry.Entry, error)
	GetEntries(ctx context.Context, acct account.Account, filter entry.Filter) (entry.Page, error)
	CheckRef(ctx context.Context, refID string) ([]*entry.Entry, bool, error)
	MarkReversed(ctx context.Context, ids []id.EntryID) error
	MarkComplete(ctx context.Context, ids []id.EntryID) error

	// CirculatingCoins sums every Complete entry's real balance impact
	// across the whole ledger, excluding only the treasury account's own
	// leg of each entry — the authoritative figure the solvency
	// invariant is checked against, independent of and a cross-check on
	// the treasury singleton's own running totals.
	CirculatingCoins(ctx context.Context) (types.Cents, error)

	// Treasury methods
	GetTreasury(ctx context.Context) (*treasury.State, error)
	UpdateTreasury(ctx context.Context, s *treasury.State) error
	AppendTreasuryEvent(ctx context.Context, e *treasury.Event) error
	ListTreasuryEvents(ctx context.Context, kind treasury.EventKind, limit int) ([]*treasury.Event, error)

	// Fee-split methods
	CreateFeeDistribution(ctx context.Context, d *feesplit.Distribution) error
	GetFeeDistributionBySource(ctx context.Context, sourceTransactionID string) (*feesplit.Distribution, error)

	// Royalty / citation methods
	InsertCitationEdge(ctx context.Context, e *royalty.CitationEdge) error
	ParentsOf(ctx context.Context, contentID string) ([]*royalty.CitationEdge, error)
	CitationEdgeExists(ctx context.Context, childID, parentID string) (bool, error)
	AppendRoyaltyPayouts(ctx context.Context, payouts []*royalty.Payout) error
	RoyaltyPayoutsForEntry(ctx context.Context, entryID id.EntryID) ([]*royalty.Payout, error)

	// Purchase / listing methods
	CreatePurchase(ctx context.Context, p *purchase.Purchase) error
	GetPurchase(ctx context.Context, purchaseID id.PurchaseID) (*purchase.Purchase, error)
	UpdatePurchase(ctx context.Context, p *purchase.Purchase) error
	AppendPurchaseHistory(ctx context.Context, h *purchase.StatusHistoryEntry) error
	PurchaseHistory(ctx context.Context, purchaseID id.PurchaseID) ([]*purchase.StatusHistoryEntry, error)
	ListPurchasesByStatus(ctx context.Context, status purchase.Status, olderThanUnix int64) ([]*purchase.Purchase, error)

	PublishListing(ctx context.Context, l *listing.Listing) error
	GetListing(ctx context.Context, listingID id.ListingID) (*listing.Listing, error)
	GetListingByContentHash(ctx context.Context, hash string, status listing.Status) (*listing.Listing, error)
	UpdateListing(ctx context.Context, l *listing.Listing) error
	IncrementListingCounters(ctx context.Context, listingID id.ListingID, revenueCents types.Cents) error
	HasActiveLicense(ctx context.Context, listingID id.ListingID, buyerID string) (bool, error)
	GrantLicense(ctx context.Context, listingID id.ListingID, buyerID string, licenseID id.LicenseID) error

	// Emergent sub-ledger methods
	CreateEmergentAccount(ctx context.Context, a *emergent.Account) error
	GetEmergentAccount(ctx context.Context, emergentID id.EmergentID) (*emergent.Account, error)
	UpdateEmergentAccount(ctx context.Context, a *emergent.Account) error
	ListEmergentAccounts(ctx context.Context, status emergent.Status, limit, offset int) ([]*emergent.Account, error)

	// Vault methods
	GetVaultEntry(ctx context.Context, hash string) (*vault.Entry, bool, error)
	InsertVaultEntry(ctx context.Context, e *vault.Entry, compressed []byte) error
	IncrementVaultRef(ctx context.Context, hash string) error
	DecrementVaultRef(ctx context.Context, hash string) error
	ReadVaultBytes(ctx context.Context, e *vault.Entry) ([]byte, error)
	ListVaultGarbage(ctx context.Context, graceSeconds, nowUnix int64) ([]*vault.Entry, error)
	DeleteVaultEntry(ctx context.Context, hash string) error

	// Reconciliation methods
	CreateReconciliationRun(ctx context.Context, r *reconcile.Run) error
	LatestReconciliationRun(ctx context.Context) (*reconcile.Run, error)
	ListReconciliationRunsSince(ctx context.Context, sinceUnix int64, limit int) ([]*reconcile.Run, error)
	ReconciliationDeficits(ctx context.Context, limit int) ([]*reconcile.Run, error)

	// WithTx runs fn inside a single storage-level transaction; every
	// call made against the tx argument participates in that
	// transaction, and a non-nil return from fn rolls it back. Required
	// by every mutating sequence named in the engine's concurrency model
	// (batch writes, purchase orchestration, mint/burn, withdrawal
	// flips, emergent transfers, citation insertion).
	WithTx(ctx context.Context, fn func(tx Store) error) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
