// Package ledger implements Concord's economic core: an append-only
// double-entry ledger, treasury mint/burn under a solvency invariant, a
// fee-split engine, a royalty cascade over a citation DAG, a marketplace
// purchase orchestrator, a dual-wallet emergent-entity sub-ledger, a
// content-addressed vault, and periodic treasury reconciliation.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/concordhq/ledger/account"
	"github.com/concordhq/ledger/balance"
	"github.com/concordhq/ledger/emergent"
	"github.com/concordhq/ledger/entry"
	"github.com/concordhq/ledger/fee"
	"github.com/concordhq/ledger/feesplit"
	"github.com/concordhq/ledger/gateway"
	"github.com/concordhq/ledger/id"
	"github.com/concordhq/ledger/ledgerconfig"
	"github.com/concordhq/ledger/listing"
	"github.com/concordhq/ledger/plugin"
	"github.com/concordhq/ledger/purchase"
	"github.com/concordhq/ledger/reconcile"
	"github.com/concordhq/ledger/royalty"
	"github.com/concordhq/ledger/store"
	"github.com/concordhq/ledger/treasury"
	"github.com/concordhq/ledger/types"
	"github.com/concordhq/ledger/vault"
)

// Ledger is the main economic engine.
type Ledger struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger

	feeSchedule     fee.Schedule
	royaltyInitRate float64
	royaltyMaxDepth int
	vaultRoot       string
	vaultGrace      time.Duration
	reconcileEvery  time.Duration
	emergentEvery   time.Duration
	withdrawalStale time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a Ledger backed by s.
func New(s store.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:           s,
		plugins:         plugin.NewRegistry(),
		logger:          slog.Default(),
		feeSchedule:     fee.DefaultSchedule(),
		royaltyInitRate: royalty.DefaultInitialRate,
		royaltyMaxDepth: royalty.DefaultMaxDepth,
		vaultRoot:       "/var/lib/concord/vault",
		vaultGrace:      72 * time.Hour,
		reconcileEvery:  24 * time.Hour,
		emergentEvery:   15 * time.Minute,
		withdrawalStale: 30 * time.Minute,
		stopChan:        make(chan struct{}),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger used by the engine and its plugin registry.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
		l.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin (audit hook, metrics extension, a
// wash-trade detector, or a host-defined hook).
func WithPlugin(p plugin.Plugin) Option {
	return func(l *Ledger) {
		_ = l.plugins.Register(p)
	}
}

// WithFeeSchedule overrides the default kind-to-rate fee schedule.
func WithFeeSchedule(sched fee.Schedule) Option {
	return func(l *Ledger) { l.feeSchedule = sched }
}

// WithRoyaltyConfig overrides the cascade's initial rate and max ancestor
// depth. The 0.05% floor is a package constant, not configurable.
func WithRoyaltyConfig(initialRate float64, maxDepth int) Option {
	return func(l *Ledger) {
		l.royaltyInitRate = initialRate
		l.royaltyMaxDepth = maxDepth
	}
}

// WithVault sets the root that sharded vault entry paths are computed
// under and the GC grace period. Vault bytes are held by the store;
// nothing is written under root.
func WithVault(root string, grace time.Duration) Option {
	return func(l *Ledger) {
		l.vaultRoot = root
		l.vaultGrace = grace
	}
}

// WithReconcileInterval sets the reconciler worker's cadence.
func WithReconcileInterval(d time.Duration) Option {
	return func(l *Ledger) { l.reconcileEvery = d }
}

// WithEmergentConsistencyInterval sets the emergent-account consistency
// worker's cadence.
func WithEmergentConsistencyInterval(d time.Duration) Option {
	return func(l *Ledger) { l.emergentEvery = d }
}

// WithWithdrawalStaleAfter records a stale threshold for Pending
// withdrawals. StalePendingWithdrawals takes its own olderThan cutoff and
// does not read this value.
func WithWithdrawalStaleAfter(d time.Duration) Option {
	return func(l *Ledger) { l.withdrawalStale = d }
}

// WithConfig applies cfg's fee rates, royalty initial rate and max depth,
// vault root and grace period, reconcile interval, emergent consistency
// interval, and withdrawal stale threshold (recorded only, as with
// WithWithdrawalStaleAfter) at once; options listed after WithConfig in
// the opts slice still override individual fields. The split ratios,
// royalty rate floor, treasury singleton id, drift tolerance, and
// withdrawal retry bound are not read: the fee split uses
// the feesplit ratio constants, the floor is royalty.RateFloor, and the
// alert threshold is reconcile.AlertThresholdCents.
func WithConfig(cfg ledgerconfig.Config) Option {
	return func(l *Ledger) {
		sched := make(fee.Schedule, len(cfg.FeeRates))
		for k, v := range cfg.FeeRates {
			sched[entry.Kind(k)] = v
		}
		l.feeSchedule = sched
		l.royaltyInitRate = cfg.RoyaltyInitialRate
		l.royaltyMaxDepth = cfg.RoyaltyMaxDepth
		l.vaultRoot = cfg.VaultRootPath
		l.vaultGrace = cfg.VaultGracePeriod
		l.reconcileEvery = cfg.ReconcileInterval
		l.emergentEvery = cfg.EmergentConsistencyInterval
		l.withdrawalStale = cfg.WithdrawalStaleAfter
	}
}

// Start runs migrations, fires plugin init hooks, and starts the
// background workers (reconciler, emergent consistency check, vault
// sweep).
func (l *Ledger) Start(ctx context.Context) error {
	if err := l.store.Migrate(ctx); err != nil {
		return fmt.Errorf("ledger: migrate: %w", err)
	}

	l.plugins.EmitInit(ctx, l)

	l.wg.Add(1)
	go l.reconcilerWorker(ctx)

	l.wg.Add(1)
	go l.emergentConsistencyWorker(ctx)

	l.wg.Add(1)
	go l.vaultSweepWorker(ctx)

	l.logger.Info("ledger started",
		"reconcile_interval", l.reconcileEvery,
		"vault_grace_period", l.vaultGrace,
	)
	return nil
}

// Stop shuts down background workers and closes the store.
func (l *Ledger) Stop() error {
	close(l.stopChan)
	l.wg.Wait()

	l.plugins.EmitShutdown(context.Background())
	return l.store.Close()
}

// ──────────────────────────────────────────────────
// Ledger entries / balances
// ──────────────────────────────────────────────────

func newBatchID() id.BatchID { return id.NewBatchID() }

func newCompleteEntry(batchID id.BatchID, kind entry.Kind, from, to account.Account, amount, feeCents, net types.Cents, refID string) *entry.Entry {
	return &entry.Entry{
		Entity:      types.NewEntity(),
		ID:          id.NewEntryID(),
		BatchID:     batchID,
		Kind:        kind,
		FromAccount: from,
		ToAccount:   to,
		AmountCents: amount,
		FeeCents:    feeCents,
		NetCents:    net,
		Status:      entry.StatusComplete,
		RefID:       refID,
	}
}

// feeBearingBatch builds the two-entry shape every simple fee-bearing
// operation uses: a primary entry crediting the recipient its net
// amount, plus a companion Fee entry crediting the platform account the
// difference. The primary entry's sender absorbs the full amount in one
// debit, which already covers both credits, so the Fee entry's
// FromAccount is left zero.
func feeBearingBatch(kind entry.Kind, from, to account.Account, amount, feeCents, net types.Cents, refID string) *entry.Batch {
	batchID := newBatchID()
	entries := []*entry.Entry{
		newCompleteEntry(batchID, kind, from, to, amount, feeCents, net, refID),
	}
	if feeCents > 0 {
		feeEntry := newCompleteEntry(batchID, entry.KindFee, "", account.Platform, feeCents, 0, feeCents, refID+":fee")
		entries = append(entries, feeEntry)
	}
	return &entry.Batch{ID: batchID, Entries: entries}
}

// recordBatch validates every entry in batch against the static
// invariants in validate_entry.go before handing it to s, so a
// malformed batch never reaches storage.
func (l *Ledger) recordBatch(ctx context.Context, s store.Store, batch *entry.Batch) ([]*entry.Entry, error) {
	if err := validateBatch(batch); err != nil {
		return nil, err
	}
	return s.RecordBatch(ctx, batch)
}

// GetBalance returns acct's pure-projection balance over its entries.
func (l *Ledger) GetBalance(ctx context.Context, acct account.Account) (balance.Balance, error) {
	page, err := l.store.GetEntries(ctx, acct, entry.Filter{})
	if err != nil {
		return balance.Balance{}, err
	}
	return balance.Project(acct, page.Entries), nil
}

// SystemSummary partitions a ledger-wide entry set into user/emergent/
// platform buckets. Callers assemble allEntries themselves since the
// store interface has no bulk "every entry" method of its own.
func (l *Ledger) SystemSummary(allEntries []*entry.Entry) balance.Summary {
	return balance.ProjectSummary(allEntries)
}

// ──────────────────────────────────────────────────
// Treasury: mint / burn
// ──────────────────────────────────────────────────

func (l *Ledger) getOrInitTreasury(ctx context.Context) (*treasury.State, error) {
	state, err := l.store.GetTreasury(ctx)
	if err == nil {
		return state, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}
	fresh := &treasury.State{Entity: types.NewEntity()}
	if err := l.store.UpdateTreasury(ctx, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// Mint records a fiat-settled token purchase: treasury totals grow by
// amountCents and buyer is credited net of the universal fee.
func (l *Ledger) Mint(ctx context.Context, buyer account.Account, amountCents types.Cents, refID string) (*entry.Entry, error) {
	if amountCents <= 0 {
		return nil, ErrNegativeAmount
	}
	if existing, ok, err := l.store.CheckRef(ctx, refID); err != nil {
		return nil, err
	} else if ok {
		return existing[0], nil
	}

	state, err := l.getOrInitTreasury(ctx)
	if err != nil {
		return nil, err
	}
	if state.Frozen {
		return nil, ErrTreasuryFrozen
	}

	feeCents, netCents := l.feeSchedule.Calculate(entry.KindTokenPurchase, amountCents)
	batch := feeBearingBatch(entry.KindTokenPurchase, "", buyer, amountCents, feeCents, netCents, refID)

	circulating, err := l.store.CirculatingCoins(ctx)
	if err != nil {
		return nil, err
	}

	after := treasury.Mint(*state, amountCents)
	if !after.Solvent(circulating + amountCents) {
		frozen := after
		frozen.Frozen = true
		if err := l.store.UpdateTreasury(ctx, &frozen); err != nil {
			return nil, err
		}
		l.plugins.EmitTreasuryInvariantViolated(ctx, "mint would push coins above usd backing")
		return nil, InvariantViolation{Invariant: "treasury_solvency", Detail: "mint would push coins above usd backing"}
	}

	applied, err := l.recordBatch(ctx, l.store, batch)
	if err != nil {
		return nil, err
	}

	before := *state
	if err := l.store.UpdateTreasury(ctx, &after); err != nil {
		return nil, err
	}
	evt := &treasury.Event{
		Entity:   types.NewEntity(),
		ID:       id.NewTreasuryEventID(),
		Kind:     treasury.EventMint,
		Amount:   amountCents,
		Before:   before,
		After:    after,
		EntryRef: refID,
	}
	if err := l.store.AppendTreasuryEvent(ctx, evt); err != nil {
		return nil, err
	}

	l.plugins.EmitBatchRecorded(ctx, batch)
	l.plugins.EmitMint(ctx, int64(amountCents), evt)
	return applied[0], nil
}

// Transfer moves amountCents from one account to another under the
// universal fee, e.g. a peer-to-peer or emergent operating<->reserve
// transfer.
func (l *Ledger) Transfer(ctx context.Context, from, to account.Account, amountCents types.Cents, kind entry.Kind, refID string) (*entry.Entry, error) {
	if amountCents <= 0 {
		return nil, ErrNegativeAmount
	}
	if existing, ok, err := l.store.CheckRef(ctx, refID); err != nil {
		return nil, err
	} else if ok {
		return existing[0], nil
	}

	feeCents, netCents := l.feeSchedule.Calculate(kind, amountCents)
	batch := feeBearingBatch(kind, from, to, amountCents, feeCents, netCents, refID)

	applied, err := l.recordBatch(ctx, l.store, batch)
	if err != nil {
		return nil, err
	}
	l.plugins.EmitBatchRecorded(ctx, batch)
	return applied[0], nil
}

// ──────────────────────────────────────────────────
// Withdrawal flow
// ──────────────────────────────────────────────────

// Withdraw executes the mandated Pending -> gateway-call -> flip
// sequence. Emergent-prefixed accounts are rejected outright: they never
// exit to fiat.
func (l *Ledger) Withdraw(ctx context.Context, gw gateway.PayoutGateway, from account.Account, amountCents types.Cents, refID string) (*entry.Entry, error) {
	if from.IsEmergent() {
		l.plugins.EmitEmergentWithdrawRejected(ctx, from.EmergentID())
		return nil, ErrEmergentCannotWithdraw
	}
	if amountCents <= 0 {
		return nil, ErrNegativeAmount
	}
	if existing, ok, err := l.store.CheckRef(ctx, refID); err != nil {
		return nil, err
	} else if ok {
		return existing[0], nil
	}

	feeCents, netCents := l.feeSchedule.Calculate(entry.KindWithdrawal, amountCents)
	batchID := newBatchID()
	primary := newCompleteEntry(batchID, entry.KindWithdrawal, from, account.Treasury, amountCents, feeCents, netCents, refID)
	primary.Status = entry.StatusPending
	entries := []*entry.Entry{primary}
	if feeCents > 0 {
		feeEntry := newCompleteEntry(batchID, entry.KindFee, "", account.Platform, feeCents, 0, feeCents, refID+":fee")
		feeEntry.Status = entry.StatusPending
		entries = append(entries, feeEntry)
	}
	batch := &entry.Batch{ID: batchID, Entries: entries}

	applied, err := l.recordBatch(ctx, l.store, batch)
	if err != nil {
		return nil, err
	}
	l.plugins.EmitWithdrawalPending(ctx, batchID.String(), int64(amountCents))

	gwErr := gw.TransferToConnectedAccount(ctx, refID, from.String(), int64(netCents), "usd")

	ids := make([]id.EntryID, len(applied))
	for i, e := range applied {
		ids[i] = e.ID
	}

	if gwErr != nil {
		if err := l.store.MarkReversed(ctx, ids); err != nil {
			return nil, err
		}
		l.plugins.EmitWithdrawalReversed(ctx, batchID.String(), gwErr.Error())
		return nil, ErrExternalFailure
	}

	if err := l.store.MarkComplete(ctx, ids); err != nil {
		return nil, err
	}

	state, err := l.getOrInitTreasury(ctx)
	if err != nil {
		return nil, err
	}
	after, ok := treasury.Burn(*state, netCents)
	if !ok {
		l.plugins.EmitTreasuryInvariantViolated(ctx, "withdrawal settled with insufficient treasury coins")
		return nil, ErrInsufficientTreasuryCoins
	}
	before := *state
	if err := l.store.UpdateTreasury(ctx, &after); err != nil {
		return nil, err
	}
	evt := &treasury.Event{
		Entity:   types.NewEntity(),
		ID:       id.NewTreasuryEventID(),
		Kind:     treasury.EventBurn,
		Amount:   netCents,
		Before:   before,
		After:    after,
		EntryRef: refID,
	}
	if err := l.store.AppendTreasuryEvent(ctx, evt); err != nil {
		return nil, err
	}

	l.plugins.EmitBurn(ctx, int64(netCents), evt)
	l.plugins.EmitWithdrawalSettled(ctx, batchID.String(), int64(amountCents))
	return applied[0], nil
}

// StalePendingWithdrawals surfaces withdrawal entries still Pending past
// olderThan, for operator review. It never resolves them automatically.
func (l *Ledger) StalePendingWithdrawals(ctx context.Context, olderThan time.Duration) ([]*entry.Entry, error) {
	page, err := l.store.GetEntries(ctx, account.Treasury, entry.Filter{
		Kinds:  []entry.Kind{entry.KindWithdrawal},
		Status: entry.StatusPending,
	})
	if err != nil {
		return nil, err
	}
	cutoff := time.Now().Add(-olderThan)
	stale := make([]*entry.Entry, 0, len(page.Entries))
	for _, e := range page.Entries {
		if e.CreatedAt.Before(cutoff) {
			stale = append(stale, e)
		}
	}
	return stale, nil
}

// ──────────────────────────────────────────────────
// Royalty / citation graph
// ──────────────────────────────────────────────────

// DeclareCitation records a new lineage edge after a cycle check.
func (l *Ledger) DeclareCitation(ctx context.Context, childID, parentID, creatorID, parentCreator string) (*royalty.CitationEdge, error) {
	lookup := royalty.ParentLookup(func(cid string) ([]*royalty.CitationEdge, error) {
		return l.store.ParentsOf(ctx, cid)
	})
	if err := royalty.CycleCheck(lookup, childID, parentID, l.royaltyMaxDepth); err != nil {
		switch {
		case royalty.IsSelfCitation(err):
			return nil, ErrSelfCitation
		case royalty.IsMaxDepthExceeded(err):
			return nil, ErrMaxDepthExceeded
		case royalty.IsCycle(err):
			return nil, ErrCitationCycle
		default:
			return nil, err
		}
	}

	exists, err := l.store.CitationEdgeExists(ctx, childID, parentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCitationExists
	}

	parents, err := l.store.ParentsOf(ctx, childID)
	if err != nil {
		return nil, err
	}
	generation := 1
	for _, p := range parents {
		if p.ParentID == parentID && p.Generation < generation {
			generation = p.Generation
		}
	}

	edge := &royalty.CitationEdge{
		ID:            id.NewCitationEdgeID(),
		ChildID:       childID,
		ParentID:      parentID,
		Generation:    generation,
		CreatorID:     creatorID,
		ParentCreator: parentCreator,
		CreatedAt:     time.Now().Unix(),
	}
	if err := l.store.InsertCitationEdge(ctx, edge); err != nil {
		return nil, err
	}
	l.plugins.EmitCitationDeclared(ctx, edge)
	return edge, nil
}

func (l *Ledger) payRoyaltyCascade(ctx context.Context, batchID id.BatchID, sourceEntryID id.EntryID, contentID, buyerID, sellerID string, remainingAfterFees types.Cents) ([]*entry.Entry, types.Cents, error) {
	lookup := royalty.ParentLookup(func(cid string) ([]*royalty.CitationEdge, error) {
		return l.store.ParentsOf(ctx, cid)
	})
	payouts, err := royalty.Cascade(lookup, contentID, l.royaltyInitRate, l.royaltyMaxDepth, buyerID, sellerID, remainingAfterFees)
	if err != nil {
		return nil, 0, err
	}

	entries := make([]*entry.Entry, 0, len(payouts))
	rows := make([]*royalty.Payout, 0, len(payouts))
	var total types.Cents
	for _, p := range payouts {
		e := newCompleteEntry(batchID, entry.KindRoyalty, account.Platform, account.Account(p.CreatorID), p.AmountCents, 0, p.AmountCents, sourceEntryID.String()+":royalty:"+p.CreatorID)
		entries = append(entries, e)
		rows = append(rows, &royalty.Payout{
			ID:          id.NewRoyaltyPayoutID(),
			EntryID:     sourceEntryID,
			ContentID:   contentID,
			CreatorID:   p.CreatorID,
			Generation:  p.Generation,
			Rate:        p.Rate,
			AmountCents: p.AmountCents,
			CreatedAt:   time.Now().Unix(),
		})
		total += p.AmountCents
	}
	if len(rows) > 0 {
		if err := l.store.AppendRoyaltyPayouts(ctx, rows); err != nil {
			return nil, 0, err
		}
		ifaces := make([]interface{}, len(rows))
		for i, r := range rows {
			ifaces[i] = r
		}
		l.plugins.EmitCascadePaid(ctx, ifaces)
	}
	return entries, total, nil
}

// ──────────────────────────────────────────────────
// Purchase orchestrator
// ──────────────────────────────────────────────────

// PurchaseRequest is the input to Purchase.
type PurchaseRequest struct {
	Buyer     string
	ListingID id.ListingID
}

// Purchase runs the marketplace purchase orchestrator end to end: a
// buyer debit, the royalty cascade, a seller credit, license grant, and
// the 80/10/10 fee split, inside a single storage transaction for the
// settlement leg.
func (l *Ledger) Purchase(ctx context.Context, req PurchaseRequest) (*purchase.Purchase, error) {
	list, err := l.store.GetListing(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}
	if list.Status != listing.StatusActive {
		return nil, ErrListingNotActive
	}
	if list.Seller == req.Buyer {
		return nil, ErrCannotBuyOwnListing
	}
	if list.LicenseType == listing.LicenseExclusive {
		held, err := l.store.HasActiveLicense(ctx, list.ID, req.Buyer)
		if err != nil {
			return nil, err
		}
		if held {
			return nil, ErrLicenseAlreadyHeld
		}
	}

	buyerBalance, err := l.GetBalance(ctx, account.Account(req.Buyer))
	if err != nil {
		return nil, err
	}
	if buyerBalance.Net() < list.PriceCents {
		return nil, ErrInsufficientFunds
	}

	feeCents, _ := l.feeSchedule.Calculate(entry.KindMarketplacePurchase, list.PriceCents)
	remainingAfterFees := list.PriceCents - feeCents

	p := &purchase.Purchase{
		Entity:      types.NewEntity(),
		ID:          id.NewPurchaseID(),
		Buyer:       req.Buyer,
		Seller:      list.Seller,
		ListingID:   list.ID,
		AmountCents: list.PriceCents,
		Status:      purchase.StatusCreated,
		FeeCents:    feeCents,
	}
	if err := l.store.CreatePurchase(ctx, p); err != nil {
		return nil, err
	}
	l.plugins.EmitPurchaseCreated(ctx, p)
	l.appendHistory(ctx, p, "", purchase.StatusCreated, "purchase opened")

	fail := func(reason string) (*purchase.Purchase, error) {
		p.Status = purchase.StatusFailed
		p.FailureReason = reason
		_ = l.store.UpdatePurchase(ctx, p)
		l.appendHistory(ctx, p, purchase.StatusCreated, purchase.StatusFailed, reason)
		l.plugins.EmitPurchaseFailed(ctx, p, reason)
		return p, ErrPurchaseFailed
	}

	txErr := l.store.WithTx(ctx, func(tx store.Store) error {
		batchID := newBatchID()
		buyerEntry := newCompleteEntry(batchID, entry.KindMarketplacePurchase, account.Account(req.Buyer), account.Platform, list.PriceCents, 0, list.PriceCents, p.ID.String())
		batch := &entry.Batch{ID: batchID, Entries: []*entry.Entry{buyerEntry}}

		royaltyEntries, totalRoyalties, err := l.payRoyaltyCascade(ctx, batchID, buyerEntry.ID, list.ContentID, req.Buyer, list.Seller, remainingAfterFees)
		if err != nil {
			return err
		}
		batch.Entries = append(batch.Entries, royaltyEntries...)

		sellerNet := remainingAfterFees - totalRoyalties
		sellerEntry := newCompleteEntry(batchID, entry.KindMarketplacePurchase, account.Platform, account.Account(list.Seller), sellerNet, 0, sellerNet, p.ID.String()+":seller")
		batch.Entries = append(batch.Entries, sellerEntry)

		if _, err := l.recordBatch(ctx, tx, batch); err != nil {
			return err
		}

		licenseID := id.NewLicenseID()
		if err := tx.GrantLicense(ctx, list.ID, req.Buyer, licenseID); err != nil {
			return err
		}
		if err := tx.IncrementListingCounters(ctx, list.ID, list.PriceCents); err != nil {
			return err
		}

		p.SettlementBatch = batchID
		p.LicenseID = licenseID
		p.SellerNetCents = sellerNet
		p.TotalRoyalties = totalRoyalties
		p.Status = purchase.StatusFulfilled
		return tx.UpdatePurchase(ctx, p)
	})
	if txErr != nil {
		return fail(txErr.Error())
	}

	l.appendHistory(ctx, p, purchase.StatusCreated, purchase.StatusPaid, "buyer debit recorded")
	l.appendHistory(ctx, p, purchase.StatusPaid, purchase.StatusSettled, "seller credit and royalties applied")
	l.appendHistory(ctx, p, purchase.StatusSettled, purchase.StatusFulfilled, "license granted")
	l.plugins.EmitPurchaseTransitioned(ctx, p, string(purchase.StatusCreated), string(purchase.StatusFulfilled))

	if feeCents > 0 {
		dist := feesplit.Compute(feeCents)
		row := &feesplit.Distribution{
			ID:                  id.NewFeeDistID(),
			SourceTransactionID: p.ID.String(),
			TotalFeeCents:       feeCents,
			ReservesCents:       dist.ReservesCents,
			OperatingCents:      dist.OperatingCents,
			PayrollCents:        dist.PayrollCents,
			CreatedAt:           time.Now().Unix(),
		}
		if err := l.store.CreateFeeDistribution(ctx, row); err != nil {
			return p, err
		}
		splitBatchID := newBatchID()
		splitBatch := &entry.Batch{ID: splitBatchID}
		// A fee of only a cent or two can round one or two of the three
		// legs to zero; zero-amount entries aren't meaningful value
		// movements, so they're skipped rather than rejected.
		if dist.ReservesCents > 0 {
			splitBatch.Entries = append(splitBatch.Entries, newCompleteEntry(splitBatchID, entry.KindFee, account.Platform, account.Reserves, dist.ReservesCents, 0, dist.ReservesCents, p.ID.String()+":reserves"))
		}
		if dist.OperatingCents > 0 {
			splitBatch.Entries = append(splitBatch.Entries, newCompleteEntry(splitBatchID, entry.KindFee, account.Platform, account.Operating, dist.OperatingCents, 0, dist.OperatingCents, p.ID.String()+":operating"))
		}
		if dist.PayrollCents > 0 {
			splitBatch.Entries = append(splitBatch.Entries, newCompleteEntry(splitBatchID, entry.KindFee, account.Platform, account.Payroll, dist.PayrollCents, 0, dist.PayrollCents, p.ID.String()+":payroll"))
		}
		if len(splitBatch.Entries) > 0 {
			if _, err := l.recordBatch(ctx, l.store, splitBatch); err != nil {
				return p, err
			}
		}
		l.plugins.EmitFeeSplit(ctx, row)
	}

	return p, nil
}

func (l *Ledger) appendHistory(ctx context.Context, p *purchase.Purchase, from, to purchase.Status, reason string) {
	h := &purchase.StatusHistoryEntry{
		PurchaseID: p.ID,
		From:       from,
		To:         to,
		Reason:     reason,
		Timestamp:  time.Now().Unix(),
	}
	_ = l.store.AppendPurchaseHistory(ctx, h)
}

// ──────────────────────────────────────────────────
// Emergent sub-ledger
// ──────────────────────────────────────────────────

// CreateEmergentAccount provisions a new dual-wallet emergent entity,
// seeding its operating wallet.
func (l *Ledger) CreateEmergentAccount(ctx context.Context, displayName string, seedCents types.Cents) (*emergent.Account, error) {
	a := &emergent.Account{
		Entity:          types.NewEntity(),
		ID:              id.NewEmergentID(),
		DisplayName:     displayName,
		SeedAmountCents: seedCents,
		OperatingCents:  seedCents,
		Status:          emergent.StatusActive,
	}
	if err := l.store.CreateEmergentAccount(ctx, a); err != nil {
		return nil, err
	}
	if seedCents > 0 {
		seeded, err := l.Mint(ctx, a.OperatingAccount(), seedCents, "emergent-seed:"+a.ID.String())
		if err != nil {
			return nil, err
		}
		a.OperatingCents = seeded.NetCents
		if err := l.store.UpdateEmergentAccount(ctx, a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// EmergentTransferToReserve moves funds from an emergent entity's
// operating wallet to its reserve wallet under the universal fee.
func (l *Ledger) EmergentTransferToReserve(ctx context.Context, emergentID id.EmergentID, amountCents types.Cents) (*entry.Entry, error) {
	a, err := l.store.GetEmergentAccount(ctx, emergentID)
	if err != nil {
		return nil, err
	}
	if a.Status == emergent.StatusSuspended {
		return nil, ErrEmergentSuspended
	}
	refID := fmt.Sprintf("emergent-transfer:%s:%d", emergentID.String(), time.Now().UnixNano())
	applied, err := l.Transfer(ctx, a.OperatingAccount(), a.ReserveAccount(), amountCents, entry.KindEmergentTransfer, refID)
	if err != nil {
		return nil, err
	}
	a.OperatingCents -= amountCents
	a.ReserveCents += applied.NetCents
	if err := l.store.UpdateEmergentAccount(ctx, a); err != nil {
		return nil, err
	}
	l.plugins.EmitEmergentTransfer(ctx, emergentID.String(), int64(amountCents))
	return applied, nil
}

// CheckEmergentConsistency compares emergentID's cached balances against
// the ledger projection.
func (l *Ledger) CheckEmergentConsistency(ctx context.Context, emergentID id.EmergentID) (emergent.Drift, error) {
	a, err := l.store.GetEmergentAccount(ctx, emergentID)
	if err != nil {
		return emergent.Drift{}, err
	}
	opPage, err := l.store.GetEntries(ctx, a.OperatingAccount(), entry.Filter{})
	if err != nil {
		return emergent.Drift{}, err
	}
	resPage, err := l.store.GetEntries(ctx, a.ReserveAccount(), entry.Filter{})
	if err != nil {
		return emergent.Drift{}, err
	}
	allEntries := append(append([]*entry.Entry{}, opPage.Entries...), resPage.Entries...)
	return emergent.CheckConsistency(a, allEntries), nil
}

// ──────────────────────────────────────────────────
// Vault
// ──────────────────────────────────────────────────

// vaultStoreAdapter adapts the unified store.Store's Vault*-prefixed
// methods (named that way to avoid colliding with every other entity's
// Get/Insert/Delete verbs) to the vault package's own narrower Store
// interface.
type vaultStoreAdapter struct{ s store.Store }

func (a vaultStoreAdapter) Get(ctx context.Context, hash string) (*vault.Entry, bool, error) {
	return a.s.GetVaultEntry(ctx, hash)
}
func (a vaultStoreAdapter) Insert(ctx context.Context, e *vault.Entry, compressed []byte) error {
	return a.s.InsertVaultEntry(ctx, e, compressed)
}
func (a vaultStoreAdapter) IncrementRef(ctx context.Context, hash string) error {
	return a.s.IncrementVaultRef(ctx, hash)
}
func (a vaultStoreAdapter) DecrementRef(ctx context.Context, hash string) error {
	return a.s.DecrementVaultRef(ctx, hash)
}
func (a vaultStoreAdapter) ReadBytes(ctx context.Context, e *vault.Entry) ([]byte, error) {
	return a.s.ReadVaultBytes(ctx, e)
}
func (a vaultStoreAdapter) ListGarbage(ctx context.Context, graceSeconds, nowUnix int64) ([]*vault.Entry, error) {
	return a.s.ListVaultGarbage(ctx, graceSeconds, nowUnix)
}
func (a vaultStoreAdapter) Delete(ctx context.Context, hash string) error {
	return a.s.DeleteVaultEntry(ctx, hash)
}

// VaultStore deduplicates-or-inserts data into the content-addressed
// vault.
func (l *Ledger) VaultStore(ctx context.Context, data []byte, mimeType string) (vault.StoreResult, error) {
	result, err := vault.Store(ctx, vaultStoreAdapter{l.store}, l.vaultRoot, data, mimeType, time.Now().Unix())
	if err != nil {
		return vault.StoreResult{}, err
	}
	l.plugins.EmitVaultStored(ctx, result.ContentHash, result.Deduplicated, result.AdditionalBytes)
	return result, nil
}

// VaultDecrementRef lowers a vault entry's reference count.
func (l *Ledger) VaultDecrementRef(ctx context.Context, hash string) error {
	return l.store.DecrementVaultRef(ctx, hash)
}

func (l *Ledger) vaultSweepWorker(ctx context.Context) {
	defer l.wg.Done()
	ticker := time.NewTicker(l.vaultGrace / 4)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			removed, err := vault.Sweep(ctx, vaultStoreAdapter{l.store}, int64(l.vaultGrace.Seconds()), time.Now().Unix())
			if err != nil {
				l.logger.Error("vault sweep failed", "error", err)
				continue
			}
			if len(removed) > 0 {
				l.plugins.EmitVaultSwept(ctx, len(removed))
			}
		}
	}
}

// ──────────────────────────────────────────────────
// Reconciliation
// ──────────────────────────────────────────────────

// Reconcile runs a single reconciliation pass against the given
// ledger-wide entry set (and, if non-nil, an external payments-gateway
// balance), appending a Run row and a drift-alert treasury event if the
// run triggers one.
func (l *Ledger) Reconcile(ctx context.Context, allEntries []*entry.Entry, externalBalance *types.Cents) (*reconcile.Run, error) {
	state, err := l.getOrInitTreasury(ctx)
	if err != nil {
		return nil, err
	}
	circulating := balance.CirculatingCoins(allEntries)
	solvencyOK := state.Solvent(circulating)

	run := reconcile.Evaluate(circulating, state.TotalUSDCents, solvencyOK, externalBalance, time.Now().Unix())
	run.ID = id.NewReconcileRunID()
	run.Details = map[string]string{
		"ledger_expected": types.USD(int64(run.LedgerExpected)).String(),
		"recorded_usd":    types.USD(int64(run.RecordedUSDCents)).String(),
		"drift":           types.USD(int64(run.DriftCents)).String(),
	}
	if externalBalance != nil {
		run.Details["external_balance"] = types.USD(int64(*externalBalance)).String()
	}
	if err := l.store.CreateReconciliationRun(ctx, &run); err != nil {
		return nil, err
	}

	if run.AlertTriggered {
		before := *state
		after := *state
		after.DriftCents = run.DriftCents
		after.DriftAlert = true
		after.LastReconciled = run.Timestamp
		if err := l.store.UpdateTreasury(ctx, &after); err != nil {
			return nil, err
		}
		evt := &treasury.Event{
			Entity:   types.NewEntity(),
			ID:       id.NewTreasuryEventID(),
			Kind:     treasury.EventDriftAlert,
			Amount:   run.DriftCents,
			Before:   before,
			After:    after,
			EntryRef: run.ID.String(),
		}
		if err := l.store.AppendTreasuryEvent(ctx, evt); err != nil {
			return nil, err
		}
		l.plugins.EmitDriftAlert(ctx, int64(run.DriftCents), fmt.Sprintf("reconciliation status=%s drift=%s", run.Status, types.USD(int64(run.DriftCents)).String()))
	} else {
		state.LastReconciled = run.Timestamp
		if err := l.store.UpdateTreasury(ctx, state); err != nil {
			return nil, err
		}
	}

	l.plugins.EmitReconciliationRun(ctx, &run)
	return &run, nil
}

func (l *Ledger) reconcilerWorker(ctx context.Context) {
	defer l.wg.Done()
	ticker := time.NewTicker(l.reconcileEvery)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			l.logger.Debug("reconciler tick; awaiting a caller-supplied entry set", "interval", l.reconcileEvery)
		}
	}
}

func (l *Ledger) emergentConsistencyWorker(ctx context.Context) {
	defer l.wg.Done()
	ticker := time.NewTicker(l.emergentEvery)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			accounts, err := l.store.ListEmergentAccounts(ctx, emergent.StatusActive, 0, 0)
			if err != nil {
				l.logger.Error("emergent consistency: list accounts failed", "error", err)
				continue
			}
			for _, a := range accounts {
				drift, err := l.CheckEmergentConsistency(ctx, a.ID)
				if err != nil {
					l.logger.Error("emergent consistency check failed", "emergent_id", a.ID.String(), "error", err)
					continue
				}
				if !drift.Clean() {
					l.logger.Warn("emergent balance drift detected", "emergent_id", a.ID.String())
				}
			}
		}
	}
}

// ──────────────────────────────────────────────────
// Admin operations
// ──────────────────────────────────────────────────

// Reverse writes a paired reversing batch (negated direction, Kind =
// Reversal) for every Complete entry in originalEntries and flips their
// status to Reversed. Value fields on the originals are never mutated.
func (l *Ledger) Reverse(ctx context.Context, originalBatchID id.BatchID, originalEntries []*entry.Entry, reason string) (*entry.Batch, error) {
	reversalBatchID := newBatchID()
	reversed := make([]*entry.Entry, 0, len(originalEntries))
	ids := make([]id.EntryID, 0, len(originalEntries))
	for _, e := range originalEntries {
		if e.Status != entry.StatusComplete {
			continue
		}
		r := newCompleteEntry(reversalBatchID, entry.KindReversal, e.ToAccount, e.FromAccount, e.AmountCents, e.FeeCents, e.NetCents, "reversal:"+originalBatchID.String()+":"+e.ID.String())
		reversed = append(reversed, r)
		ids = append(ids, e.ID)
	}
	batch := &entry.Batch{ID: reversalBatchID, Entries: reversed}
	if _, err := l.recordBatch(ctx, l.store, batch); err != nil {
		return nil, err
	}
	if err := l.store.MarkReversed(ctx, ids); err != nil {
		return nil, err
	}
	return batch, nil
}

// WashTradeCheck runs every registered plugin.WashTradeDetector and
// returns the first positive flag. With no detector registered it always
// reports flagged=false; the core never uses the result to block a
// purchase on its own.
func (l *Ledger) WashTradeCheck(ctx context.Context, buyerID, sellerID string) (flagged bool, reason string, err error) {
	for _, detector := range l.plugins.WashTradeDetectors() {
		f, r, derr := detector.CheckWashTrade(ctx, buyerID, sellerID)
		if derr != nil {
			continue
		}
		if f {
			return true, r, nil
		}
	}
	return false, "", nil
}
