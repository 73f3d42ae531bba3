// Package postgres implements store.Store using PostgreSQL via Grove ORM.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	ledger "github.com/concordhq/ledger"
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
	ledgerstore "github.com/concordhq/ledger/store"
	"github.com/concordhq/ledger/treasury"
	"github.com/concordhq/ledger/types"
	"github.com/concordhq/ledger/vault"
)

// treasurySingletonID is the fixed row id backing the one treasury state
// row in ledger_treasury_state. It equals the default
// TreasurySingletonID in ledgerconfig; the configured value is not read.
const treasurySingletonID = "treasury_singleton"

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("ledger/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("ledger/postgres: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// WithTx runs fn inside a single PostgreSQL transaction. Every call made
// against the tx argument runs against that transaction's connection; a
// non-nil return rolls it back.
func (s *Store) WithTx(ctx context.Context, fn func(tx ledgerstore.Store) error) error {
	return s.db.RunInTx(ctx, func(ctx context.Context, txDB *grove.DB) error {
		txStore := &Store{db: txDB, pg: pgdriver.Unwrap(txDB)}
		return fn(txStore)
	})
}

// ==================== Ledger entry store ====================

func (s *Store) RecordBatch(ctx context.Context, batch *entry.Batch) ([]*entry.Entry, error) {
	for _, e := range batch.Entries {
		if e.RefID == "" {
			continue
		}
		existing, ok, err := s.CheckRef(ctx, e.RefID)
		if err != nil {
			return nil, err
		}
		if ok {
			return existing, nil
		}
	}

	models := make([]entryModel, len(batch.Entries))
	for i, e := range batch.Entries {
		models[i] = *toEntryModel(e)
	}
	if _, err := s.pg.NewInsert(&models).Exec(ctx); err != nil {
		return nil, err
	}
	return batch.Entries, nil
}

func (s *Store) GetEntries(ctx context.Context, acct account.Account, filter entry.Filter) (entry.Page, error) {
	var models []entryModel
	q := s.pg.NewSelect(&models).
		Where("(from_account = $1 OR to_account = $2)", acct.String(), acct.String())

	argIdx := 2
	if filter.Status != "" {
		argIdx++
		q = q.Where(fmt.Sprintf("status = $%d", argIdx), string(filter.Status))
	}
	if filter.Since != 0 {
		argIdx++
		q = q.Where(fmt.Sprintf("created_at >= to_timestamp($%d)", argIdx), filter.Since)
	}
	if filter.Until != 0 {
		argIdx++
		q = q.Where(fmt.Sprintf("created_at <= to_timestamp($%d)", argIdx), filter.Until)
	}
	if len(filter.Kinds) > 0 {
		kinds := make([]string, len(filter.Kinds))
		for i, k := range filter.Kinds {
			kinds[i] = string(k)
		}
		argIdx++
		q = q.Where(fmt.Sprintf("kind = ANY($%d)", argIdx), kinds)
	}
	q = q.OrderExpr("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	if err := q.Scan(ctx); err != nil {
		return entry.Page{}, err
	}

	entries := make([]*entry.Entry, len(models))
	for i := range models {
		e, err := fromEntryModel(&models[i])
		if err != nil {
			return entry.Page{}, err
		}
		entries[i] = e
	}
	return entry.Page{Entries: entries}, nil
}

func (s *Store) CirculatingCoins(ctx context.Context) (types.Cents, error) {
	var models []entryModel
	if err := s.pg.NewSelect(&models).Where("status = $1", string(entry.StatusComplete)).Scan(ctx); err != nil {
		return 0, err
	}
	entries := make([]*entry.Entry, len(models))
	for i := range models {
		e, err := fromEntryModel(&models[i])
		if err != nil {
			return 0, err
		}
		entries[i] = e
	}
	return balance.CirculatingCoins(entries), nil
}

func (s *Store) CheckRef(ctx context.Context, refID string) ([]*entry.Entry, bool, error) {
	var models []entryModel
	err := s.pg.NewSelect(&models).
		Where("ref_id = $1", refID).
		Where("status = $2", string(entry.StatusComplete)).
		Scan(ctx)
	if err != nil {
		return nil, false, err
	}
	if len(models) == 0 {
		return nil, false, nil
	}

	entries := make([]*entry.Entry, len(models))
	for i := range models {
		e, err := fromEntryModel(&models[i])
		if err != nil {
			return nil, false, err
		}
		entries[i] = e
	}
	return entries, true, nil
}

func (s *Store) MarkReversed(ctx context.Context, ids []id.EntryID) error {
	return s.markEntryStatus(ctx, ids, entry.StatusReversed)
}

func (s *Store) MarkComplete(ctx context.Context, ids []id.EntryID) error {
	return s.markEntryStatus(ctx, ids, entry.StatusComplete)
}

func (s *Store) markEntryStatus(ctx context.Context, ids []id.EntryID, status entry.Status) error {
	if len(ids) == 0 {
		return nil
	}
	strIDs := make([]string, len(ids))
	for i, eid := range ids {
		strIDs[i] = eid.String()
	}
	res, err := s.pg.NewUpdate((*entryModel)(nil)).
		Set("status = $1", string(status)).
		Set("updated_at = $2", now()).
		Where("id = ANY($3)", strIDs).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows != int64(len(ids)) {
		return ledger.ErrEntryNotFound
	}
	return nil
}

// ==================== Treasury store ====================

func (s *Store) GetTreasury(ctx context.Context) (*treasury.State, error) {
	m := new(treasuryStateModel)
	err := s.pg.NewSelect(m).Where("id = $1", treasurySingletonID).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}
	return fromTreasuryStateModel(m), nil
}

func (s *Store) UpdateTreasury(ctx context.Context, state *treasury.State) error {
	state.UpdatedAt = now()
	if state.CreatedAt.IsZero() {
		state.CreatedAt = state.UpdatedAt
	}
	m := toTreasuryStateModel(treasurySingletonID, state)
	_, err := s.pg.NewInsert(m).
		OnConflict("(id) DO UPDATE").
		Set("total_usd_cents = EXCLUDED.total_usd_cents").
		Set("total_coins_cents = EXCLUDED.total_coins_cents").
		Set("last_reconciled = EXCLUDED.last_reconciled").
		Set("drift_cents = EXCLUDED.drift_cents").
		Set("drift_alert = EXCLUDED.drift_alert").
		Set("frozen = EXCLUDED.frozen").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *Store) AppendTreasuryEvent(ctx context.Context, e *treasury.Event) error {
	m := toTreasuryEventModel(e)
	_, err := s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) ListTreasuryEvents(ctx context.Context, kind treasury.EventKind, limit int) ([]*treasury.Event, error) {
	var models []treasuryEventModel
	q := s.pg.NewSelect(&models)
	argIdx := 0
	if kind != "" {
		argIdx++
		q = q.Where(fmt.Sprintf("kind = $%d", argIdx), string(kind))
	}
	q = q.OrderExpr("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*treasury.Event, len(models))
	for i := range models {
		e, err := fromTreasuryEventModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = e
	}
	return result, nil
}

// ==================== Fee-split store ====================

func (s *Store) CreateFeeDistribution(ctx context.Context, d *feesplit.Distribution) error {
	m := toFeeDistributionModel(d)
	_, err := s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetFeeDistributionBySource(ctx context.Context, sourceTransactionID string) (*feesplit.Distribution, error) {
	m := new(feeDistributionModel)
	err := s.pg.NewSelect(m).Where("source_transaction_id = $1", sourceTransactionID).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}
	return fromFeeDistributionModel(m)
}

// ==================== Royalty / citation store ====================

func (s *Store) InsertCitationEdge(ctx context.Context, e *royalty.CitationEdge) error {
	exists, err := s.CitationEdgeExists(ctx, e.ChildID, e.ParentID)
	if err != nil {
		return err
	}
	if exists {
		return ledger.ErrCitationExists
	}
	m := toCitationEdgeModel(e)
	_, err = s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) ParentsOf(ctx context.Context, contentID string) ([]*royalty.CitationEdge, error) {
	var models []citationEdgeModel
	err := s.pg.NewSelect(&models).Where("child_id = $1", contentID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*royalty.CitationEdge, len(models))
	for i := range models {
		e, err := fromCitationEdgeModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = e
	}
	return result, nil
}

func (s *Store) CitationEdgeExists(ctx context.Context, childID, parentID string) (bool, error) {
	m := new(citationEdgeModel)
	err := s.pg.NewSelect(m).
		Where("child_id = $1", childID).
		Where("parent_id = $2", parentID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) AppendRoyaltyPayouts(ctx context.Context, payouts []*royalty.Payout) error {
	if len(payouts) == 0 {
		return nil
	}
	models := make([]royaltyPayoutModel, len(payouts))
	for i, p := range payouts {
		models[i] = *toRoyaltyPayoutModel(p)
	}
	_, err := s.pg.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) RoyaltyPayoutsForEntry(ctx context.Context, entryID id.EntryID) ([]*royalty.Payout, error) {
	var models []royaltyPayoutModel
	err := s.pg.NewSelect(&models).Where("entry_id = $1", entryID.String()).Scan(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*royalty.Payout, len(models))
	for i := range models {
		p, err := fromRoyaltyPayoutModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = p
	}
	return result, nil
}

// ==================== Purchase / listing store ====================

func (s *Store) CreatePurchase(ctx context.Context, p *purchase.Purchase) error {
	m := toPurchaseModel(p)
	_, err := s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetPurchase(ctx context.Context, purchaseID id.PurchaseID) (*purchase.Purchase, error) {
	m := new(purchaseModel)
	err := s.pg.NewSelect(m).Where("id = $1", purchaseID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, ledger.ErrPurchaseNotFound
		}
		return nil, err
	}
	return fromPurchaseModel(m)
}

func (s *Store) UpdatePurchase(ctx context.Context, p *purchase.Purchase) error {
	m := toPurchaseModel(p)
	m.UpdatedAt = now()
	res, err := s.pg.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ledger.ErrPurchaseNotFound
	}
	return nil
}

func (s *Store) AppendPurchaseHistory(ctx context.Context, h *purchase.StatusHistoryEntry) error {
	m := toPurchaseHistoryModel(h)
	_, err := s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) PurchaseHistory(ctx context.Context, purchaseID id.PurchaseID) ([]*purchase.StatusHistoryEntry, error) {
	var models []purchaseHistoryModel
	err := s.pg.NewSelect(&models).
		Where("purchase_id = $1", purchaseID.String()).
		OrderExpr("timestamp ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*purchase.StatusHistoryEntry, len(models))
	for i := range models {
		h, err := fromPurchaseHistoryModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = h
	}
	return result, nil
}

func (s *Store) ListPurchasesByStatus(ctx context.Context, status purchase.Status, olderThanUnix int64) ([]*purchase.Purchase, error) {
	var models []purchaseModel
	q := s.pg.NewSelect(&models).Where("status = $1", string(status))
	if olderThanUnix > 0 {
		q = q.Where("updated_at <= to_timestamp($2)", olderThanUnix)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	result := make([]*purchase.Purchase, len(models))
	for i := range models {
		p, err := fromPurchaseModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = p
	}
	return result, nil
}

func (s *Store) PublishListing(ctx context.Context, l *listing.Listing) error {
	existing, err := s.GetListingByContentHash(ctx, l.ContentHash, listing.StatusActive)
	if err != nil && !ledger.IsNotFound(err) {
		return err
	}
	if existing != nil {
		return ledger.ErrDuplicateContent
	}
	m := toListingModel(l)
	_, err = s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetListing(ctx context.Context, listingID id.ListingID) (*listing.Listing, error) {
	m := new(listingModel)
	err := s.pg.NewSelect(m).Where("id = $1", listingID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, ledger.ErrListingNotFound
		}
		return nil, err
	}
	return fromListingModel(m)
}

func (s *Store) GetListingByContentHash(ctx context.Context, hash string, status listing.Status) (*listing.Listing, error) {
	m := new(listingModel)
	q := s.pg.NewSelect(m).Where("content_hash = $1", hash)
	if status != "" {
		q = q.Where("status = $2", string(status))
	}
	err := q.Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, ledger.ErrListingNotFound
		}
		return nil, err
	}
	return fromListingModel(m)
}

func (s *Store) UpdateListing(ctx context.Context, l *listing.Listing) error {
	m := toListingModel(l)
	m.UpdatedAt = now()
	res, err := s.pg.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ledger.ErrListingNotFound
	}
	return nil
}

func (s *Store) IncrementListingCounters(ctx context.Context, listingID id.ListingID, revenueCents types.Cents) error {
	res, err := s.pg.NewUpdate((*listingModel)(nil)).
		Set("purchase_count = purchase_count + 1").
		Set("total_revenue_cents = total_revenue_cents + $1", int64(revenueCents)).
		Set("updated_at = $2", now()).
		Where("id = $3", listingID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ledger.ErrListingNotFound
	}
	return nil
}

func (s *Store) HasActiveLicense(ctx context.Context, listingID id.ListingID, buyerID string) (bool, error) {
	m := new(licenseModel)
	err := s.pg.NewSelect(m).
		Where("listing_id = $1", listingID.String()).
		Where("buyer_id = $2", buyerID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) GrantLicense(ctx context.Context, listingID id.ListingID, buyerID string, licenseID id.LicenseID) error {
	held, err := s.HasActiveLicense(ctx, listingID, buyerID)
	if err != nil {
		return err
	}
	if held {
		return ledger.ErrLicenseAlreadyHeld
	}
	m := &licenseModel{ID: licenseID.String(), ListingID: listingID.String(), BuyerID: buyerID}
	_, err = s.pg.NewInsert(m).Exec(ctx)
	return err
}

// ==================== Emergent account store ====================

func (s *Store) CreateEmergentAccount(ctx context.Context, a *emergent.Account) error {
	m := toEmergentAccountModel(a)
	_, err := s.pg.NewInsert(m).
		OnConflict("(id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return err
	}
	if _, getErr := s.GetEmergentAccount(ctx, a.ID); getErr != nil {
		return ledger.ErrEmergentAlreadyExists
	}
	return nil
}

func (s *Store) GetEmergentAccount(ctx context.Context, emergentID id.EmergentID) (*emergent.Account, error) {
	m := new(emergentAccountModel)
	err := s.pg.NewSelect(m).Where("id = $1", emergentID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, ledger.ErrEmergentNotFound
		}
		return nil, err
	}
	return fromEmergentAccountModel(m)
}

func (s *Store) UpdateEmergentAccount(ctx context.Context, a *emergent.Account) error {
	m := toEmergentAccountModel(a)
	m.UpdatedAt = now()
	res, err := s.pg.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ledger.ErrEmergentNotFound
	}
	return nil
}

func (s *Store) ListEmergentAccounts(ctx context.Context, status emergent.Status, limit, offset int) ([]*emergent.Account, error) {
	var models []emergentAccountModel
	q := s.pg.NewSelect(&models)
	argIdx := 0
	if status != "" {
		argIdx++
		q = q.Where(fmt.Sprintf("status = $%d", argIdx), string(status))
	}
	q = q.OrderExpr("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	result := make([]*emergent.Account, len(models))
	for i := range models {
		a, err := fromEmergentAccountModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = a
	}
	return result, nil
}

// ==================== Vault store ====================

func (s *Store) GetVaultEntry(ctx context.Context, hash string) (*vault.Entry, bool, error) {
	m := new(vaultEntryModel)
	err := s.pg.NewSelect(m).Where("content_hash = $1", hash).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return fromVaultEntryModel(m), true, nil
}

func (s *Store) InsertVaultEntry(ctx context.Context, e *vault.Entry, compressed []byte) error {
	m := toVaultEntryModel(e, compressed)
	_, err := s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) IncrementVaultRef(ctx context.Context, hash string) error {
	res, err := s.pg.NewUpdate((*vaultEntryModel)(nil)).
		Set("reference_count = reference_count + 1").
		Set("last_referenced_at = $1", time.Now().Unix()).
		Where("content_hash = $2", hash).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ledger.ErrVaultEntryNotFound
	}
	return nil
}

func (s *Store) DecrementVaultRef(ctx context.Context, hash string) error {
	res, err := s.pg.NewUpdate((*vaultEntryModel)(nil)).
		Set("reference_count = reference_count - 1").
		Where("content_hash = $1", hash).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ledger.ErrVaultEntryNotFound
	}
	return nil
}

func (s *Store) ReadVaultBytes(ctx context.Context, e *vault.Entry) ([]byte, error) {
	m := new(vaultEntryModel)
	err := s.pg.NewSelect(m).Where("content_hash = $1", e.ContentHash).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, ledger.ErrVaultEntryNotFound
		}
		return nil, err
	}
	return m.Data, nil
}

func (s *Store) ListVaultGarbage(ctx context.Context, graceSeconds, nowUnix int64) ([]*vault.Entry, error) {
	var models []vaultEntryModel
	err := s.pg.NewSelect(&models).
		Where("reference_count <= 0").
		Where("($1 - last_referenced_at) >= $2", nowUnix, graceSeconds).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*vault.Entry, len(models))
	for i := range models {
		result[i] = fromVaultEntryModel(&models[i])
	}
	return result, nil
}

func (s *Store) DeleteVaultEntry(ctx context.Context, hash string) error {
	_, err := s.pg.NewDelete((*vaultEntryModel)(nil)).
		Where("content_hash = $1", hash).
		Exec(ctx)
	return err
}

// ==================== Reconciliation store ====================

func (s *Store) CreateReconciliationRun(ctx context.Context, r *reconcile.Run) error {
	m := toReconciliationRunModel(r)
	_, err := s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) LatestReconciliationRun(ctx context.Context) (*reconcile.Run, error) {
	m := new(reconciliationRunModel)
	err := s.pg.NewSelect(m).
		OrderExpr("timestamp DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}
	return fromReconciliationRunModel(m)
}

func (s *Store) ListReconciliationRunsSince(ctx context.Context, sinceUnix int64, limit int) ([]*reconcile.Run, error) {
	var models []reconciliationRunModel
	q := s.pg.NewSelect(&models).
		Where("timestamp >= $1", sinceUnix).
		OrderExpr("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	result := make([]*reconcile.Run, len(models))
	for i := range models {
		r, err := fromReconciliationRunModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = r
	}
	return result, nil
}

func (s *Store) ReconciliationDeficits(ctx context.Context, limit int) ([]*reconcile.Run, error) {
	var models []reconciliationRunModel
	q := s.pg.NewSelect(&models).
		Where("status = $1", string(reconcile.StatusDeficit)).
		OrderExpr("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	result := make([]*reconcile.Run, len(models))
	for i := range models {
		r, err := fromReconciliationRunModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = r
	}
	return result, nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
