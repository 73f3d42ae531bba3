// Package memory is an in-process, mutex-guarded implementation of
// store.Store. It backs engine-level tests and local development; it
// offers no durability.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/concordhq/ledger"
	"github.com/concordhq/ledger/account"
	"github.com/concordhq/ledger/balance"
	"github.com/concordhq/ledger/emergent"
	"github.com/concordhq/ledger/entry"
	"github.com/concordhq/ledger/feesplit"
	"github.com/concordhq/ledger/id"
	"github.com/concordhq/ledger/listing"
	"github.com/concordhq/ledger/purchase"
	"github.com/concordhq/ledger/reconcile"
	"github.com/concordhq/ledger/royalty"
	"github.com/concordhq/ledger/store"
	"github.com/concordhq/ledger/treasury"
	"github.com/concordhq/ledger/types"
	"github.com/concordhq/ledger/vault"
)

// Store is an in-memory store.Store implementation, a map-of-maps under a
// single mutex: simple and obviously correct, not fast.
type Store struct {
	mu sync.Mutex

	entries   map[string]*entry.Entry
	refIndex  map[string][]*entry.Entry
	byAccount map[account.Account][]*entry.Entry

	treasury       *treasury.State
	treasuryEvents []*treasury.Event

	feeDists map[string]*feesplit.Distribution

	citationEdges  map[string]*royalty.CitationEdge // keyed by childID+"->"+parentID
	childParents   map[string][]*royalty.CitationEdge
	royaltyPayouts map[string][]*royalty.Payout // keyed by entryID

	purchases       map[string]*purchase.Purchase
	purchaseHistory map[string][]*purchase.StatusHistoryEntry

	listings       map[string]*listing.Listing
	contentHashIdx map[string]*listing.Listing // active listing by content hash
	licenses       map[string]bool             // listingID+"|"+buyerID

	emergentAccounts map[string]*emergent.Account

	vaultEntries map[string]*vault.Entry
	vaultBytes   map[string][]byte

	reconcileRuns []*reconcile.Run
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		entries:          make(map[string]*entry.Entry),
		refIndex:         make(map[string][]*entry.Entry),
		byAccount:        make(map[account.Account][]*entry.Entry),
		feeDists:         make(map[string]*feesplit.Distribution),
		citationEdges:    make(map[string]*royalty.CitationEdge),
		childParents:     make(map[string][]*royalty.CitationEdge),
		royaltyPayouts:   make(map[string][]*royalty.Payout),
		purchases:        make(map[string]*purchase.Purchase),
		purchaseHistory:  make(map[string][]*purchase.StatusHistoryEntry),
		listings:         make(map[string]*listing.Listing),
		contentHashIdx:   make(map[string]*listing.Listing),
		licenses:         make(map[string]bool),
		emergentAccounts: make(map[string]*emergent.Account),
		vaultEntries:     make(map[string]*vault.Entry),
		vaultBytes:       make(map[string][]byte),
	}
}

// ── Ledger entries ──────────────────────────────────────────────

func (s *Store) RecordBatch(_ context.Context, batch *entry.Batch) ([]*entry.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range batch.Entries {
		if e.RefID != "" {
			if existing, ok := s.refIndex[e.RefID]; ok {
				return existing, nil
			}
		}
	}

	for _, e := range batch.Entries {
		s.entries[e.ID.String()] = e
		if e.RefID != "" {
			s.refIndex[e.RefID] = append(s.refIndex[e.RefID], e)
		}
		if !e.FromAccount.IsZero() {
			s.byAccount[e.FromAccount] = append(s.byAccount[e.FromAccount], e)
		}
		if !e.ToAccount.IsZero() {
			s.byAccount[e.ToAccount] = append(s.byAccount[e.ToAccount], e)
		}
	}
	return batch.Entries, nil
}

func (s *Store) GetEntries(_ context.Context, acct account.Account, filter entry.Filter) (entry.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.byAccount[acct]
	sorted := make([]*entry.Entry, len(all))
	copy(sorted, all)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })

	result := make([]*entry.Entry, 0, len(sorted))
	for _, e := range sorted {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.Since != 0 && e.CreatedAt.Unix() < filter.Since {
			continue
		}
		if filter.Until != 0 && e.CreatedAt.Unix() > filter.Until {
			continue
		}
		if len(filter.Kinds) > 0 && !containsKind(filter.Kinds, e.Kind) {
			continue
		}
		result = append(result, e)
		if filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
	}
	return entry.Page{Entries: result}, nil
}

func containsKind(kinds []entry.Kind, k entry.Kind) bool {
	for _, want := range kinds {
		if want == k {
			return true
		}
	}
	return false
}

func (s *Store) CheckRef(_ context.Context, refID string) ([]*entry.Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.refIndex[refID]
	return existing, ok, nil
}

func (s *Store) MarkReversed(_ context.Context, ids []id.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, eid := range ids {
		e, ok := s.entries[eid.String()]
		if !ok {
			return ledger.ErrEntryNotFound
		}
		e.Status = entry.StatusReversed
	}
	return nil
}

func (s *Store) MarkComplete(_ context.Context, ids []id.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, eid := range ids {
		e, ok := s.entries[eid.String()]
		if !ok {
			return ledger.ErrEntryNotFound
		}
		e.Status = entry.StatusComplete
	}
	return nil
}

func (s *Store) CirculatingCoins(_ context.Context) (types.Cents, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]*entry.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		all = append(all, e)
	}
	return balance.CirculatingCoins(all), nil
}

// ── Treasury ─────────────────────────────────────────────────────

func (s *Store) GetTreasury(_ context.Context) (*treasury.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.treasury == nil {
		return nil, ledger.ErrNotFound
	}
	return s.treasury, nil
}

func (s *Store) UpdateTreasury(_ context.Context, state *treasury.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.treasury = state
	return nil
}

func (s *Store) AppendTreasuryEvent(_ context.Context, e *treasury.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.treasuryEvents = append(s.treasuryEvents, e)
	return nil
}

func (s *Store) ListTreasuryEvents(_ context.Context, kind treasury.EventKind, limit int) ([]*treasury.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*treasury.Event, 0)
	for i := len(s.treasuryEvents) - 1; i >= 0; i-- {
		e := s.treasuryEvents[i]
		if kind != "" && e.Kind != kind {
			continue
		}
		result = append(result, e)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// ── Fee-split distributions ──────────────────────────────────────

func (s *Store) CreateFeeDistribution(_ context.Context, d *feesplit.Distribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.feeDists[d.SourceTransactionID] = d
	return nil
}

func (s *Store) GetFeeDistributionBySource(_ context.Context, sourceTransactionID string) (*feesplit.Distribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.feeDists[sourceTransactionID]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return d, nil
}

// ── Royalty / citation graph ─────────────────────────────────────

func (s *Store) InsertCitationEdge(_ context.Context, e *royalty.CitationEdge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := citationKey(e.ChildID, e.ParentID)
	if _, exists := s.citationEdges[key]; exists {
		return ledger.ErrCitationExists
	}
	s.citationEdges[key] = e
	s.childParents[e.ChildID] = append(s.childParents[e.ChildID], e)
	return nil
}

func (s *Store) ParentsOf(_ context.Context, contentID string) ([]*royalty.CitationEdge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.childParents[contentID], nil
}

func (s *Store) CitationEdgeExists(_ context.Context, childID, parentID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.citationEdges[citationKey(childID, parentID)]
	return ok, nil
}

func citationKey(childID, parentID string) string {
	return childID + "->" + parentID
}

func (s *Store) AppendRoyaltyPayouts(_ context.Context, payouts []*royalty.Payout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range payouts {
		key := p.EntryID.String()
		s.royaltyPayouts[key] = append(s.royaltyPayouts[key], p)
	}
	return nil
}

func (s *Store) RoyaltyPayoutsForEntry(_ context.Context, entryID id.EntryID) ([]*royalty.Payout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.royaltyPayouts[entryID.String()], nil
}

// ── Purchases ──────────────────────────────────────────────────

func (s *Store) CreatePurchase(_ context.Context, p *purchase.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.purchases[p.ID.String()]; exists {
		return ledger.ErrAlreadyExists
	}
	s.purchases[p.ID.String()] = p
	return nil
}

func (s *Store) GetPurchase(_ context.Context, purchaseID id.PurchaseID) (*purchase.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.purchases[purchaseID.String()]
	if !ok {
		return nil, ledger.ErrPurchaseNotFound
	}
	return p, nil
}

func (s *Store) UpdatePurchase(_ context.Context, p *purchase.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.purchases[p.ID.String()]; !exists {
		return ledger.ErrPurchaseNotFound
	}
	s.purchases[p.ID.String()] = p
	return nil
}

func (s *Store) AppendPurchaseHistory(_ context.Context, h *purchase.StatusHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := h.PurchaseID.String()
	s.purchaseHistory[key] = append(s.purchaseHistory[key], h)
	return nil
}

func (s *Store) PurchaseHistory(_ context.Context, purchaseID id.PurchaseID) ([]*purchase.StatusHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.purchaseHistory[purchaseID.String()], nil
}

func (s *Store) ListPurchasesByStatus(_ context.Context, status purchase.Status, olderThanUnix int64) ([]*purchase.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*purchase.Purchase, 0)
	for _, p := range s.purchases {
		if p.Status != status {
			continue
		}
		if olderThanUnix > 0 && p.UpdatedAt.Unix() > olderThanUnix {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

// ── Listings ───────────────────────────────────────────────────

func (s *Store) PublishListing(_ context.Context, l *listing.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contentHashIdx[l.ContentHash]; exists {
		return ledger.ErrDuplicateContent
	}
	s.listings[l.ID.String()] = l
	if l.Status == listing.StatusActive {
		s.contentHashIdx[l.ContentHash] = l
	}
	return nil
}

func (s *Store) GetListing(_ context.Context, listingID id.ListingID) (*listing.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[listingID.String()]
	if !ok {
		return nil, ledger.ErrListingNotFound
	}
	return l, nil
}

func (s *Store) GetListingByContentHash(_ context.Context, hash string, status listing.Status) (*listing.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.contentHashIdx[hash]
	if !ok || (status != "" && l.Status != status) {
		return nil, ledger.ErrListingNotFound
	}
	return l, nil
}

func (s *Store) UpdateListing(_ context.Context, l *listing.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.listings[l.ID.String()]; !exists {
		return ledger.ErrListingNotFound
	}
	s.listings[l.ID.String()] = l
	if l.Status == listing.StatusActive {
		s.contentHashIdx[l.ContentHash] = l
	} else if existing, ok := s.contentHashIdx[l.ContentHash]; ok && existing.ID == l.ID {
		delete(s.contentHashIdx, l.ContentHash)
	}
	return nil
}

func (s *Store) IncrementListingCounters(_ context.Context, listingID id.ListingID, revenueCents types.Cents) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[listingID.String()]
	if !ok {
		return ledger.ErrListingNotFound
	}
	l.PurchaseCount++
	l.TotalRevenue += revenueCents
	return nil
}

func (s *Store) HasActiveLicense(_ context.Context, listingID id.ListingID, buyerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.licenses[listingID.String()+"|"+buyerID], nil
}

func (s *Store) GrantLicense(_ context.Context, listingID id.ListingID, buyerID string, _ id.LicenseID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := listingID.String() + "|" + buyerID
	if s.licenses[key] {
		return ledger.ErrLicenseAlreadyHeld
	}
	s.licenses[key] = true
	return nil
}

// ── Emergent accounts ────────────────────────────────────────────

func (s *Store) CreateEmergentAccount(_ context.Context, a *emergent.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emergentAccounts[a.ID.String()]; exists {
		return ledger.ErrEmergentAlreadyExists
	}
	s.emergentAccounts[a.ID.String()] = a
	return nil
}

func (s *Store) GetEmergentAccount(_ context.Context, emergentID id.EmergentID) (*emergent.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.emergentAccounts[emergentID.String()]
	if !ok {
		return nil, ledger.ErrEmergentNotFound
	}
	return a, nil
}

func (s *Store) UpdateEmergentAccount(_ context.Context, a *emergent.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emergentAccounts[a.ID.String()]; !exists {
		return ledger.ErrEmergentNotFound
	}
	s.emergentAccounts[a.ID.String()] = a
	return nil
}

func (s *Store) ListEmergentAccounts(_ context.Context, status emergent.Status, limit, offset int) ([]*emergent.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]*emergent.Account, 0, len(s.emergentAccounts))
	for _, a := range s.emergentAccounts {
		if status != "" && a.Status != status {
			continue
		}
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID.String() < all[j].ID.String() })

	if offset > len(all) {
		offset = len(all)
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

// ── Vault ────────────────────────────────────────────────────────

func (s *Store) GetVaultEntry(_ context.Context, hash string) (*vault.Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.vaultEntries[hash]
	return e, ok, nil
}

func (s *Store) InsertVaultEntry(_ context.Context, e *vault.Entry, compressed []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vaultEntries[e.ContentHash] = e
	s.vaultBytes[e.ContentHash] = compressed
	return nil
}

func (s *Store) IncrementVaultRef(_ context.Context, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.vaultEntries[hash]
	if !ok {
		return ledger.ErrVaultEntryNotFound
	}
	e.ReferenceCount++
	e.LastReferencedAt = time.Now().Unix()
	return nil
}

func (s *Store) DecrementVaultRef(_ context.Context, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.vaultEntries[hash]
	if !ok {
		return ledger.ErrVaultEntryNotFound
	}
	e.ReferenceCount--
	return nil
}

func (s *Store) ReadVaultBytes(_ context.Context, e *vault.Entry) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.vaultBytes[e.ContentHash]
	if !ok {
		return nil, ledger.ErrVaultEntryNotFound
	}
	return b, nil
}

func (s *Store) ListVaultGarbage(_ context.Context, graceSeconds, nowUnix int64) ([]*vault.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*vault.Entry, 0)
	for _, e := range s.vaultEntries {
		if e.ReferenceCount > 0 {
			continue
		}
		if nowUnix-e.LastReferencedAt >= graceSeconds {
			result = append(result, e)
		}
	}
	return result, nil
}

func (s *Store) DeleteVaultEntry(_ context.Context, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.vaultEntries, hash)
	delete(s.vaultBytes, hash)
	return nil
}

// ── Reconciliation ───────────────────────────────────────────────

func (s *Store) CreateReconciliationRun(_ context.Context, r *reconcile.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reconcileRuns = append(s.reconcileRuns, r)
	return nil
}

func (s *Store) LatestReconciliationRun(_ context.Context) (*reconcile.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.reconcileRuns) == 0 {
		return nil, ledger.ErrNotFound
	}
	return s.reconcileRuns[len(s.reconcileRuns)-1], nil
}

func (s *Store) ListReconciliationRunsSince(_ context.Context, sinceUnix int64, limit int) ([]*reconcile.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*reconcile.Run, 0)
	for i := len(s.reconcileRuns) - 1; i >= 0; i-- {
		r := s.reconcileRuns[i]
		if r.Timestamp < sinceUnix {
			break
		}
		result = append(result, r)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (s *Store) ReconciliationDeficits(_ context.Context, limit int) ([]*reconcile.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*reconcile.Run, 0)
	for i := len(s.reconcileRuns) - 1; i >= 0; i-- {
		r := s.reconcileRuns[i]
		if r.Status != reconcile.StatusDeficit {
			continue
		}
		result = append(result, r)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// ── Transactions ───────────────────────────────────────────────

// WithTx runs fn against s directly. The in-memory store holds its lock
// only for the duration of each individual method call, so a multi-step
// caller sequence has no isolation from concurrent writers; callers that
// need that isolation belong against store/postgres or store/sqlite.
// Provided so engine code can be written once against store.Store and
// still run its tests against this fixture.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// ── Core ─────────────────────────────────────────────────────────

func (s *Store) Migrate(_ context.Context) error { return nil }
func (s *Store) Ping(_ context.Context) error    { return nil }
func (s *Store) Close() error                    { return nil }

var _ store.Store = (*Store)(nil)
