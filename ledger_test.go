package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/concordhq/ledger/account"
	"github.com/concordhq/ledger/entry"
	"github.com/concordhq/ledger/feesplit"
	"github.com/concordhq/ledger/gateway"
	"github.com/concordhq/ledger/id"
	"github.com/concordhq/ledger/listing"
	"github.com/concordhq/ledger/plugin"
	"github.com/concordhq/ledger/store/memory"
	"github.com/concordhq/ledger/types"
)

// seedBalance credits acct amountCents with a fee-free Complete entry,
// bypassing the fee schedule — a test fixture, not a production path.
func seedBalance(t *testing.T, ctx context.Context, s *memory.Store, acct account.Account, amountCents types.Cents) {
	t.Helper()
	batchID := id.NewBatchID()
	batch := &entry.Batch{
		ID: batchID,
		Entries: []*entry.Entry{
			{
				ID:          id.NewEntryID(),
				BatchID:     batchID,
				Kind:        entry.KindTokenPurchase,
				ToAccount:   acct,
				AmountCents: amountCents,
				NetCents:    amountCents,
				Status:      entry.StatusComplete,
				RefID:       "seed:" + string(acct) + ":" + time.Now().String(),
			},
		},
	}
	if _, err := s.RecordBatch(ctx, batch); err != nil {
		t.Fatalf("seedBalance: %v", err)
	}
}

func balanceOf(t *testing.T, ctx context.Context, l *Ledger, acct account.Account) types.Cents {
	t.Helper()
	bal, err := l.GetBalance(ctx, acct)
	if err != nil {
		t.Fatalf("GetBalance(%s): %v", acct, err)
	}
	return bal.Net()
}

// TestSimpleTransfer covers end-to-end scenario 1: seed A with 100.00,
// transfer 50.00 to B under the universal fee, and check the resulting
// fee-split run.
func TestSimpleTransfer(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	l := New(s)

	a := account.Account("user_a")
	b := account.Account("user_b")

	seedBalance(t, ctx, s, a, 10000)

	if _, err := l.Transfer(ctx, a, b, 5000, entry.KindTransfer, "xfer-1"); err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	// The sender is debited the full transferred amount (its companion fee
	// entry has a zero FromAccount so the fee is realized from the
	// recipient's net, not double-charged to the sender — see
	// feeBearingBatch); A's projected balance therefore reflects the
	// seeded 100.00 less the 50.00 transfer, while B and platform split
	// the 50.00 by the fee rate.
	if got, want := balanceOf(t, ctx, l, a), types.Cents(5000); got != want {
		t.Errorf("A balance: got %s, want %s", got, want)
	}
	if got, want := balanceOf(t, ctx, l, b), types.Cents(4927); got != want {
		t.Errorf("B balance: got %s, want %s", got, want)
	}
	if got, want := balanceOf(t, ctx, l, account.Platform), types.Cents(73); got != want {
		t.Errorf("platform balance: got %s, want %s", got, want)
	}

	// Transfer does not itself run a fee-split (only the purchase
	// orchestrator does, via its own platform-sourced 80/10/10 batch); the
	// scenario's fee-split figures describe what a downstream batch job
	// computes from the platform fee Transfer collected, so assert
	// against feesplit.Compute directly.
	dist := feesplit.Compute(73)
	if dist.ReservesCents != 58 {
		t.Errorf("reserves: got %d, want 58", dist.ReservesCents)
	}
	if dist.OperatingCents != 7 {
		t.Errorf("operating: got %d, want 7", dist.OperatingCents)
	}
	if dist.PayrollCents != 8 {
		t.Errorf("payroll: got %d, want 8", dist.PayrollCents)
	}
}

// TestMarketplaceCascade covers end-to-end scenario 2: a one-level
// citation cascade paid out of a marketplace purchase.
func TestMarketplaceCascade(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	l := New(s)

	x := "creator_x"
	y := "creator_y"
	z := account.Account("buyer_z")

	parent := &listing.Listing{
		Entity:      types.NewEntity(),
		ID:          id.NewListingID(),
		Seller:      x,
		ContentID:   "content_p",
		ContentHash: "hash_p",
		PriceCents:  10000,
		LicenseType: listing.LicenseStandard,
		Status:      listing.StatusActive,
	}
	if err := s.PublishListing(ctx, parent); err != nil {
		t.Fatalf("publish parent: %v", err)
	}

	child := &listing.Listing{
		Entity:      types.NewEntity(),
		ID:          id.NewListingID(),
		Seller:      y,
		ContentID:   "content_q",
		ContentHash: "hash_q",
		PriceCents:  10000,
		LicenseType: listing.LicenseStandard,
		Status:      listing.StatusActive,
	}
	if err := s.PublishListing(ctx, child); err != nil {
		t.Fatalf("publish child: %v", err)
	}

	if _, err := l.DeclareCitation(ctx, "content_q", "content_p", y, x); err != nil {
		t.Fatalf("DeclareCitation: %v", err)
	}

	seedBalance(t, ctx, s, z, 20000)

	p, err := l.Purchase(ctx, PurchaseRequest{Buyer: string(z), ListingID: child.ID})
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}

	if p.FeeCents != 546 {
		t.Errorf("fee: got %d, want 546", p.FeeCents)
	}
	if p.TotalRoyalties != 993 {
		t.Errorf("royalties: got %d, want 993", p.TotalRoyalties)
	}
	if p.SellerNetCents != 8461 {
		t.Errorf("seller net: got %d, want 8461", p.SellerNetCents)
	}

	if got, want := balanceOf(t, ctx, l, z), types.Cents(20000-10000); got != want {
		t.Errorf("buyer balance: got %s, want %s", got, want)
	}
	if got, want := balanceOf(t, ctx, l, account.Account(x)), types.Cents(993); got != want {
		t.Errorf("X (parent creator) balance: got %s, want %s", got, want)
	}
	if got, want := balanceOf(t, ctx, l, account.Account(y)), types.Cents(8461); got != want {
		t.Errorf("Y (seller) balance: got %s, want %s", got, want)
	}

	fd, err := s.GetFeeDistributionBySource(ctx, p.ID.String())
	if err != nil {
		t.Fatalf("GetFeeDistributionBySource: %v", err)
	}
	if fd.ReservesCents != 437 {
		t.Errorf("reserves: got %d, want 437", fd.ReservesCents)
	}
	if fd.OperatingCents != 55 {
		t.Errorf("operating: got %d, want 55", fd.OperatingCents)
	}
	if fd.PayrollCents != 54 {
		t.Errorf("payroll: got %d, want 54", fd.PayrollCents)
	}
}

// TestDoubleDeclareCitationRejected covers end-to-end scenario 3: a
// reciprocal citation is rejected by the cycle guard and no edge is
// inserted for the attempt.
func TestDoubleDeclareCitationRejected(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	l := New(s)

	if _, err := l.DeclareCitation(ctx, "content_p", "content_q", "creator_p", "creator_q"); err != nil {
		t.Fatalf("first DeclareCitation: %v", err)
	}

	_, err := l.DeclareCitation(ctx, "content_q", "content_p", "creator_q", "creator_p")
	if !errors.Is(err, ErrCitationCycle) {
		t.Fatalf("got %v, want ErrCitationCycle", err)
	}

	exists, err := s.CitationEdgeExists(ctx, "content_q", "content_p")
	if err != nil {
		t.Fatalf("CitationEdgeExists: %v", err)
	}
	if exists {
		t.Fatal("reciprocal edge must not have been inserted")
	}
}

// TestIdempotentWebhookReplay covers end-to-end scenario 4: a
// token-purchase webhook delivered twice with the same event id mints
// and credits exactly once.
func TestIdempotentWebhookReplay(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	l := New(s)

	u := account.Account("user_u")
	const eventID = "webhook-event-E"

	first, err := l.Mint(ctx, u, 50000, eventID)
	if err != nil {
		t.Fatalf("first Mint: %v", err)
	}
	second, err := l.Mint(ctx, u, 50000, eventID)
	if err != nil {
		t.Fatalf("replayed Mint: %v", err)
	}
	if first.ID.String() != second.ID.String() {
		t.Fatalf("replay produced a new entry: first=%s second=%s", first.ID, second.ID)
	}

	page, err := s.GetEntries(ctx, u, entry.Filter{})
	if err != nil {
		t.Fatalf("GetEntries: %v", err)
	}
	if len(page.Entries) != 1 {
		t.Fatalf("got %d entries crediting U, want 1", len(page.Entries))
	}

	state, err := s.GetTreasury(ctx)
	if err != nil {
		t.Fatalf("GetTreasury: %v", err)
	}
	if state.TotalCoinsCents != 50000 {
		t.Errorf("treasury minted coins: got %d, want 50000 (minted once)", state.TotalCoinsCents)
	}

	events, err := s.ListTreasuryEvents(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListTreasuryEvents: %v", err)
	}
	mints := 0
	for _, e := range events {
		if e.EntryRef == eventID {
			mints++
		}
	}
	if mints != 1 {
		t.Errorf("treasury mint events for ref %s: got %d, want 1", eventID, mints)
	}
}

// TestVaultDedupUpload covers end-to-end scenario 5: storing identical
// bytes twice deduplicates on the second call, and the entry becomes GC
// eligible only after two decrements and the grace period elapses.
func TestVaultDedupUpload(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	l := New(s, WithVault("/var/lib/concord/vault-test", time.Hour))

	payload := make([]byte, 1<<20)
	for i := range payload {
		payload[i] = byte(i % 251)
	}

	first, err := l.VaultStore(ctx, payload, "application/octet-stream")
	if err != nil {
		t.Fatalf("first VaultStore: %v", err)
	}
	if first.Deduplicated {
		t.Error("first store must not report deduplicated")
	}
	if first.AdditionalBytes <= 0 {
		t.Error("first store must report positive additional bytes")
	}

	second, err := l.VaultStore(ctx, payload, "application/octet-stream")
	if err != nil {
		t.Fatalf("second VaultStore: %v", err)
	}
	if !second.Deduplicated {
		t.Error("second store must report deduplicated")
	}
	if second.AdditionalBytes != 0 {
		t.Errorf("second store additional bytes: got %d, want 0", second.AdditionalBytes)
	}
	if second.ContentHash != first.ContentHash {
		t.Fatalf("hash mismatch: %s vs %s", first.ContentHash, second.ContentHash)
	}

	ve, ok, err := s.GetVaultEntry(ctx, first.ContentHash)
	if err != nil || !ok {
		t.Fatalf("GetVaultEntry: ok=%v err=%v", ok, err)
	}
	if ve.ReferenceCount != 2 {
		t.Fatalf("ref count after two stores: got %d, want 2", ve.ReferenceCount)
	}

	if err := l.VaultDecrementRef(ctx, first.ContentHash); err != nil {
		t.Fatalf("first decrement: %v", err)
	}
	if err := l.VaultDecrementRef(ctx, first.ContentHash); err != nil {
		t.Fatalf("second decrement: %v", err)
	}

	ve, ok, err = s.GetVaultEntry(ctx, first.ContentHash)
	if err != nil || !ok {
		t.Fatalf("GetVaultEntry after decrements: ok=%v err=%v", ok, err)
	}
	if ve.ReferenceCount != 0 {
		t.Fatalf("ref count after two decrements: got %d, want 0", ve.ReferenceCount)
	}

	// Not yet eligible: the grace period has not elapsed.
	garbage, err := s.ListVaultGarbage(ctx, int64(time.Hour.Seconds()), time.Now().Unix())
	if err != nil {
		t.Fatalf("ListVaultGarbage (within grace): %v", err)
	}
	for _, g := range garbage {
		if g.ContentHash == first.ContentHash {
			t.Fatal("entry must not be GC eligible before the grace period elapses")
		}
	}

	// Eligible once "now" is evaluated past the grace window.
	pastGrace := time.Now().Add(2 * time.Hour).Unix()
	garbage, err = s.ListVaultGarbage(ctx, int64(time.Hour.Seconds()), pastGrace)
	if err != nil {
		t.Fatalf("ListVaultGarbage (past grace): %v", err)
	}
	found := false
	for _, g := range garbage {
		if g.ContentHash == first.ContentHash {
			found = true
		}
	}
	if !found {
		t.Fatal("entry must be GC eligible once the grace period has elapsed")
	}
}

// TestReconciliationDriftAlert covers end-to-end scenario 6: a
// reconciliation run whose recorded treasury total disagrees with the
// ledger-expected total by 0.05 raises an alert, appends a DriftAlert
// treasury event, and invokes the registered plugin callback with the
// drift amount.
func TestReconciliationDriftAlert(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	detector := &driftRecorder{}
	l := New(s, WithPlugin(detector))

	u := account.Account("user_u")
	if _, err := l.Mint(ctx, u, 100000, "mint-for-reconcile"); err != nil {
		t.Fatalf("Mint: %v", err)
	}

	state, err := s.GetTreasury(ctx)
	if err != nil {
		t.Fatalf("GetTreasury: %v", err)
	}
	// Force a 5-cent surplus between the treasury's recorded total and
	// the ledger-expected circulating total, mirroring an external
	// payments-gateway balance that disagrees by 0.05.
	drifted := *state
	drifted.TotalUSDCents += 5
	if err := s.UpdateTreasury(ctx, &drifted); err != nil {
		t.Fatalf("UpdateTreasury: %v", err)
	}

	page, err := s.GetEntries(ctx, u, entry.Filter{})
	if err != nil {
		t.Fatalf("GetEntries: %v", err)
	}
	feePage, err := s.GetEntries(ctx, account.Platform, entry.Filter{})
	if err != nil {
		t.Fatalf("GetEntries(platform): %v", err)
	}
	allEntries := append(append([]*entry.Entry{}, page.Entries...), feePage.Entries...)

	external := types.Cents(drifted.TotalUSDCents)
	run, err := l.Reconcile(ctx, allEntries, &external)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if run.DriftCents != 5 {
		t.Fatalf("drift: got %d, want 5 (0.05)", run.DriftCents)
	}
	if !run.AlertTriggered {
		t.Fatal("expected AlertTriggered=true")
	}

	events, err := s.ListTreasuryEvents(ctx, "drift_alert", 0)
	if err != nil {
		t.Fatalf("ListTreasuryEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("drift alert events: got %d, want 1", len(events))
	}

	detector.mu.Lock()
	defer detector.mu.Unlock()
	if detector.calls != 1 {
		t.Fatalf("OnDriftAlert calls: got %d, want 1", detector.calls)
	}
	if detector.lastDriftCents != 5 {
		t.Fatalf("OnDriftAlert driftCents: got %d, want 5", detector.lastDriftCents)
	}
}

// driftRecorder is a minimal plugin.Plugin used to assert the drift-alert
// callback fires with the expected payload.
type driftRecorder struct {
	mu             sync.Mutex
	calls          int
	lastDriftCents int64
	lastDetail     string
}

func (d *driftRecorder) Name() string { return "drift-recorder" }

func (d *driftRecorder) OnDriftAlert(ctx context.Context, driftCents int64, detail string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	d.lastDriftCents = driftCents
	d.lastDetail = detail
	return nil
}

var _ plugin.OnDriftAlert = (*driftRecorder)(nil)

// TestFeeBoundary covers the spec's boundary behavior: fee on 100.00 at
// the combined 5.46% marketplace rate equals 5.46 with net 94.54.
func TestFeeBoundary(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	l := New(s)

	buyer := account.Account("fee_boundary_buyer")
	seedBalance(t, ctx, s, buyer, 10000)

	listRow := &listing.Listing{
		Entity:      types.NewEntity(),
		ID:          id.NewListingID(),
		Seller:      "fee_boundary_seller",
		ContentID:   "content_fee_boundary",
		ContentHash: "hash_fee_boundary",
		PriceCents:  10000,
		LicenseType: listing.LicenseStandard,
		Status:      listing.StatusActive,
	}
	if err := s.PublishListing(ctx, listRow); err != nil {
		t.Fatalf("publish: %v", err)
	}

	p, err := l.Purchase(ctx, PurchaseRequest{Buyer: string(buyer), ListingID: listRow.ID})
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if p.FeeCents != 546 {
		t.Errorf("fee: got %d, want 546 (5.46)", p.FeeCents)
	}
	if p.SellerNetCents != 9454 {
		t.Errorf("seller net: got %d, want 9454 (94.54)", p.SellerNetCents)
	}
}

// TestSelfPurchaseRejected covers the boundary behavior: a seller cannot
// buy their own listing, and the attempt leaves no ledger trace.
func TestSelfPurchaseRejected(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	l := New(s)

	seller := "self_seller"
	seedBalance(t, ctx, s, account.Account(seller), 10000)

	listRow := &listing.Listing{
		Entity:      types.NewEntity(),
		ID:          id.NewListingID(),
		Seller:      seller,
		ContentID:   "content_self",
		ContentHash: "hash_self",
		PriceCents:  1000,
		LicenseType: listing.LicenseStandard,
		Status:      listing.StatusActive,
	}
	if err := s.PublishListing(ctx, listRow); err != nil {
		t.Fatalf("publish: %v", err)
	}

	_, err := l.Purchase(ctx, PurchaseRequest{Buyer: seller, ListingID: listRow.ID})
	if !errors.Is(err, ErrCannotBuyOwnListing) {
		t.Fatalf("got %v, want ErrCannotBuyOwnListing", err)
	}

	page, err := s.GetEntries(ctx, account.Platform, entry.Filter{})
	if err != nil {
		t.Fatalf("GetEntries: %v", err)
	}
	if len(page.Entries) != 0 {
		t.Fatalf("expected no ledger entries touching platform, got %d", len(page.Entries))
	}
}

// TestEmergentWithdrawRejected covers the boundary behavior: withdrawing
// from an emergent-prefixed account is rejected outright with no state
// changes, regardless of balance.
func TestEmergentWithdrawRejected(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	l := New(s)

	em, err := l.CreateEmergentAccount(ctx, "agent-1", 10000)
	if err != nil {
		t.Fatalf("CreateEmergentAccount: %v", err)
	}
	before := balanceOf(t, ctx, l, em.OperatingAccount())

	_, err = l.Withdraw(ctx, noopGateway{}, em.OperatingAccount(), 5000, "withdraw-attempt-1")
	if !errors.Is(err, ErrEmergentCannotWithdraw) {
		t.Fatalf("got %v, want ErrEmergentCannotWithdraw", err)
	}

	after := balanceOf(t, ctx, l, em.OperatingAccount())
	if after != before {
		t.Fatalf("operating balance changed by rejected withdrawal: before=%s after=%s", before, after)
	}
}

// TestWithdrawSettlesNet covers the gateway payout and treasury burn for a
// fee-bearing withdrawal: both must move the post-fee net amount, not the
// gross amount the user requested, since the fee never leaves the ledger
// as fiat.
func TestWithdrawSettlesNet(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	l := New(s)

	w := account.Account("user_w")
	if _, err := l.Mint(ctx, w, 10000, "mint-for-withdraw"); err != nil {
		t.Fatalf("Mint: %v", err)
	}

	gw := &recordingGateway{}
	if _, err := l.Withdraw(ctx, gw, w, 5000, "withdraw-1"); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}

	// fee = round(5000*0.0146) = 73, net = 4927.
	if gw.lastAmountCents != 4927 {
		t.Errorf("gateway payout: got %d, want 4927 (net)", gw.lastAmountCents)
	}

	state, err := s.GetTreasury(ctx)
	if err != nil {
		t.Fatalf("GetTreasury: %v", err)
	}
	if want := types.Cents(10000 - 4927); state.TotalCoinsCents != want {
		t.Errorf("treasury coins after burn: got %d, want %d (burned by net, not gross)", state.TotalCoinsCents, want)
	}
}

// recordingGateway satisfies gateway.PayoutGateway and records the amount
// it was last called with, so tests can assert Withdraw settles by net
// rather than gross.
type recordingGateway struct {
	lastAmountCents int64
}

func (g *recordingGateway) CreateCheckoutSession(ctx context.Context, idempotencyKey string, amountCents int64, currency string) (gateway.CheckoutSession, error) {
	return gateway.CheckoutSession{}, nil
}

func (g *recordingGateway) VerifyWebhookSignature(rawBody []byte, signatureHeader, secret string) error {
	return nil
}

func (g *recordingGateway) CreateConnectAccountLink(ctx context.Context, accountID, returnURL string) (gateway.ConnectAccountLink, error) {
	return gateway.ConnectAccountLink{}, nil
}

func (g *recordingGateway) TransferToConnectedAccount(ctx context.Context, idempotencyKey, accountID string, amountCents int64, currency string) error {
	g.lastAmountCents = amountCents
	return nil
}

var _ gateway.PayoutGateway = (*recordingGateway)(nil)

// noopGateway satisfies gateway.PayoutGateway for tests that must reach
// Withdraw's entry point but should never actually invoke it (the
// emergent rejection path returns before any gateway call).
type noopGateway struct{}

func (noopGateway) CreateCheckoutSession(ctx context.Context, idempotencyKey string, amountCents int64, currency string) (gateway.CheckoutSession, error) {
	return gateway.CheckoutSession{}, nil
}

func (noopGateway) VerifyWebhookSignature(rawBody []byte, signatureHeader, secret string) error {
	return nil
}

func (noopGateway) CreateConnectAccountLink(ctx context.Context, accountID, returnURL string) (gateway.ConnectAccountLink, error) {
	return gateway.ConnectAccountLink{}, nil
}

func (noopGateway) TransferToConnectedAccount(ctx context.Context, idempotencyKey, accountID string, amountCents int64, currency string) error {
	return nil
}

var _ gateway.PayoutGateway = noopGateway{}
