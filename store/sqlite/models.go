package sqlite

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/xraph/grove"

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

// ==================== Ledger entry model ====================

type entryModel struct {
	grove.BaseModel `grove:"table:ledger_entries"`

	ID          string    `grove:"id,pk"`
	BatchID     string    `grove:"batch_id"`
	Kind        string    `grove:"kind"`
	FromAccount string    `grove:"from_account"`
	ToAccount   string    `grove:"to_account"`
	AmountCents int64     `grove:"amount_cents"`
	FeeCents    int64     `grove:"fee_cents"`
	NetCents    int64     `grove:"net_cents"`
	Status      string    `grove:"status"`
	RefID       string    `grove:"ref_id"`
	Metadata    string    `grove:"metadata"`
	RequestID   string    `grove:"request_id"`
	IP          string    `grove:"ip"`
	CreatedAt   time.Time `grove:"created_at"`
	UpdatedAt   time.Time `grove:"updated_at"`
}

func toEntryModel(e *entry.Entry) *entryModel {
	meta, _ := json.Marshal(e.Metadata) //nolint:errcheck // best-effort

	return &entryModel{
		ID:          e.ID.String(),
		BatchID:     e.BatchID.String(),
		Kind:        string(e.Kind),
		FromAccount: e.FromAccount.String(),
		ToAccount:   e.ToAccount.String(),
		AmountCents: int64(e.AmountCents),
		FeeCents:    int64(e.FeeCents),
		NetCents:    int64(e.NetCents),
		Status:      string(e.Status),
		RefID:       e.RefID,
		Metadata:    string(meta),
		RequestID:   e.RequestID,
		IP:          e.IP,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func fromEntryModel(m *entryModel) (*entry.Entry, error) {
	entryID, err := id.ParseEntryID(m.ID)
	if err != nil {
		return nil, err
	}
	batchID, err := id.ParseBatchID(m.BatchID)
	if err != nil {
		return nil, err
	}

	var meta map[string]string
	if len(m.Metadata) > 0 && m.Metadata != "null" {
		_ = json.Unmarshal([]byte(m.Metadata), &meta) //nolint:errcheck // best-effort
	}

	return &entry.Entry{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:          entryID,
		BatchID:     batchID,
		Kind:        entry.Kind(m.Kind),
		FromAccount: account.Account(m.FromAccount),
		ToAccount:   account.Account(m.ToAccount),
		AmountCents: types.Cents(m.AmountCents),
		FeeCents:    types.Cents(m.FeeCents),
		NetCents:    types.Cents(m.NetCents),
		Status:      entry.Status(m.Status),
		RefID:       m.RefID,
		Metadata:    meta,
		RequestID:   m.RequestID,
		IP:          m.IP,
	}, nil
}

// ==================== Treasury models ====================

type treasuryStateModel struct {
	grove.BaseModel `grove:"table:ledger_treasury_state"`

	ID              string    `grove:"id,pk"`
	TotalUSDCents   int64     `grove:"total_usd_cents"`
	TotalCoinsCents int64     `grove:"total_coins_cents"`
	LastReconciled  int64     `grove:"last_reconciled"`
	DriftCents      int64     `grove:"drift_cents"`
	DriftAlert      bool      `grove:"drift_alert"`
	Frozen          bool      `grove:"frozen"`
	CreatedAt       time.Time `grove:"created_at"`
	UpdatedAt       time.Time `grove:"updated_at"`
}

func toTreasuryStateModel(singletonID string, s *treasury.State) *treasuryStateModel {
	return &treasuryStateModel{
		ID:              singletonID,
		TotalUSDCents:   int64(s.TotalUSDCents),
		TotalCoinsCents: int64(s.TotalCoinsCents),
		LastReconciled:  s.LastReconciled,
		DriftCents:      int64(s.DriftCents),
		DriftAlert:      s.DriftAlert,
		Frozen:          s.Frozen,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func fromTreasuryStateModel(m *treasuryStateModel) *treasury.State {
	return &treasury.State{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		TotalUSDCents:   types.Cents(m.TotalUSDCents),
		TotalCoinsCents: types.Cents(m.TotalCoinsCents),
		LastReconciled:  m.LastReconciled,
		DriftCents:      types.Cents(m.DriftCents),
		DriftAlert:      m.DriftAlert,
		Frozen:          m.Frozen,
	}
}

type treasuryEventModel struct {
	grove.BaseModel `grove:"table:ledger_treasury_events"`

	ID        string    `grove:"id,pk"`
	Kind      string    `grove:"kind"`
	Amount    int64     `grove:"amount"`
	Before    string    `grove:"before_state"`
	After     string    `grove:"after_state"`
	EntryRef  string    `grove:"entry_ref"`
	Detail    string    `grove:"detail"`
	CreatedAt time.Time `grove:"created_at"`
}

func toTreasuryEventModel(e *treasury.Event) *treasuryEventModel {
	before, _ := json.Marshal(e.Before) //nolint:errcheck // best-effort
	after, _ := json.Marshal(e.After)   //nolint:errcheck // best-effort

	return &treasuryEventModel{
		ID:        e.ID.String(),
		Kind:      string(e.Kind),
		Amount:    int64(e.Amount),
		Before:    string(before),
		After:     string(after),
		EntryRef:  e.EntryRef,
		Detail:    e.Detail,
		CreatedAt: e.CreatedAt,
	}
}

func fromTreasuryEventModel(m *treasuryEventModel) (*treasury.Event, error) {
	eventID, err := id.ParseTreasuryEventID(m.ID)
	if err != nil {
		return nil, err
	}

	var before, after treasury.State
	_ = json.Unmarshal([]byte(m.Before), &before) //nolint:errcheck // best-effort
	_ = json.Unmarshal([]byte(m.After), &after)   //nolint:errcheck // best-effort

	return &treasury.Event{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.CreatedAt,
		},
		ID:       eventID,
		Kind:     treasury.EventKind(m.Kind),
		Amount:   types.Cents(m.Amount),
		Before:   before,
		After:    after,
		EntryRef: m.EntryRef,
		Detail:   m.Detail,
	}, nil
}

// ==================== Fee distribution model ====================

type feeDistributionModel struct {
	grove.BaseModel `grove:"table:ledger_fee_distributions"`

	ID                  string `grove:"id,pk"`
	SourceTransactionID string `grove:"source_transaction_id"`
	TotalFeeCents       int64  `grove:"total_fee_cents"`
	ReservesCents       int64  `grove:"reserves_cents"`
	OperatingCents      int64  `grove:"operating_cents"`
	PayrollCents        int64  `grove:"payroll_cents"`
	CreatedAt           int64  `grove:"created_at"`
}

func toFeeDistributionModel(d *feesplit.Distribution) *feeDistributionModel {
	return &feeDistributionModel{
		ID:                  d.ID.String(),
		SourceTransactionID: d.SourceTransactionID,
		TotalFeeCents:       int64(d.TotalFeeCents),
		ReservesCents:       int64(d.ReservesCents),
		OperatingCents:      int64(d.OperatingCents),
		PayrollCents:        int64(d.PayrollCents),
		CreatedAt:           d.CreatedAt,
	}
}

func fromFeeDistributionModel(m *feeDistributionModel) (*feesplit.Distribution, error) {
	distID, err := id.ParseFeeDistID(m.ID)
	if err != nil {
		return nil, err
	}
	return &feesplit.Distribution{
		ID:                  distID,
		SourceTransactionID: m.SourceTransactionID,
		TotalFeeCents:       types.Cents(m.TotalFeeCents),
		ReservesCents:       types.Cents(m.ReservesCents),
		OperatingCents:      types.Cents(m.OperatingCents),
		PayrollCents:        types.Cents(m.PayrollCents),
		CreatedAt:           m.CreatedAt,
	}, nil
}

// ==================== Citation / royalty models ====================

type citationEdgeModel struct {
	grove.BaseModel `grove:"table:ledger_citation_edges"`

	ID            string `grove:"id,pk"`
	ChildID       string `grove:"child_id"`
	ParentID      string `grove:"parent_id"`
	Generation    int    `grove:"generation"`
	CreatorID     string `grove:"creator_id"`
	ParentCreator string `grove:"parent_creator"`
	CreatedAt     int64  `grove:"created_at"`
}

func toCitationEdgeModel(e *royalty.CitationEdge) *citationEdgeModel {
	return &citationEdgeModel{
		ID:            e.ID.String(),
		ChildID:       e.ChildID,
		ParentID:      e.ParentID,
		Generation:    e.Generation,
		CreatorID:     e.CreatorID,
		ParentCreator: e.ParentCreator,
		CreatedAt:     e.CreatedAt,
	}
}

func fromCitationEdgeModel(m *citationEdgeModel) (*royalty.CitationEdge, error) {
	edgeID, err := id.ParseCitationEdgeID(m.ID)
	if err != nil {
		return nil, err
	}
	return &royalty.CitationEdge{
		ID:            edgeID,
		ChildID:       m.ChildID,
		ParentID:      m.ParentID,
		Generation:    m.Generation,
		CreatorID:     m.CreatorID,
		ParentCreator: m.ParentCreator,
		CreatedAt:     m.CreatedAt,
	}, nil
}

type royaltyPayoutModel struct {
	grove.BaseModel `grove:"table:ledger_royalty_payouts"`

	ID          string  `grove:"id,pk"`
	EntryID     string  `grove:"entry_id"`
	ContentID   string  `grove:"content_id"`
	CreatorID   string  `grove:"creator_id"`
	Generation  int     `grove:"generation"`
	Rate        float64 `grove:"rate"`
	AmountCents int64   `grove:"amount_cents"`
	CreatedAt   int64   `grove:"created_at"`
}

func toRoyaltyPayoutModel(p *royalty.Payout) *royaltyPayoutModel {
	return &royaltyPayoutModel{
		ID:          p.ID.String(),
		EntryID:     p.EntryID.String(),
		ContentID:   p.ContentID,
		CreatorID:   p.CreatorID,
		Generation:  p.Generation,
		Rate:        p.Rate,
		AmountCents: int64(p.AmountCents),
		CreatedAt:   p.CreatedAt,
	}
}

func fromRoyaltyPayoutModel(m *royaltyPayoutModel) (*royalty.Payout, error) {
	payoutID, err := id.ParseRoyaltyPayoutID(m.ID)
	if err != nil {
		return nil, err
	}
	entryID, err := id.ParseEntryID(m.EntryID)
	if err != nil {
		return nil, err
	}
	return &royalty.Payout{
		ID:          payoutID,
		EntryID:     entryID,
		ContentID:   m.ContentID,
		CreatorID:   m.CreatorID,
		Generation:  m.Generation,
		Rate:        m.Rate,
		AmountCents: types.Cents(m.AmountCents),
		CreatedAt:   m.CreatedAt,
	}, nil
}

// ==================== Purchase / listing models ====================

type purchaseModel struct {
	grove.BaseModel `grove:"table:ledger_purchases"`

	ID                string    `grove:"id,pk"`
	Buyer             string    `grove:"buyer"`
	Seller            string    `grove:"seller"`
	ListingID         string    `grove:"listing_id"`
	AmountCents       int64     `grove:"amount_cents"`
	Status            string    `grove:"status"`
	SettlementBatchID string    `grove:"settlement_batch_id"`
	LicenseID         string    `grove:"license_id"`
	FeeCents          int64     `grove:"fee_cents"`
	SellerNetCents    int64     `grove:"seller_net_cents"`
	TotalRoyalties    int64     `grove:"total_royalties_cents"`
	RoyaltyDetails    string    `grove:"royalty_details"`
	FailureReason     string    `grove:"failure_reason"`
	RetryCount        int       `grove:"retry_count"`
	CreatedAt         time.Time `grove:"created_at"`
	UpdatedAt         time.Time `grove:"updated_at"`
}

func toPurchaseModel(p *purchase.Purchase) *purchaseModel {
	details, _ := json.Marshal(p.RoyaltyDetails) //nolint:errcheck // best-effort

	return &purchaseModel{
		ID:                p.ID.String(),
		Buyer:             p.Buyer,
		Seller:            p.Seller,
		ListingID:         p.ListingID.String(),
		AmountCents:       int64(p.AmountCents),
		Status:            string(p.Status),
		SettlementBatchID: p.SettlementBatch.String(),
		LicenseID:         p.LicenseID.String(),
		FeeCents:          int64(p.FeeCents),
		SellerNetCents:    int64(p.SellerNetCents),
		TotalRoyalties:    int64(p.TotalRoyalties),
		RoyaltyDetails:    string(details),
		FailureReason:     p.FailureReason,
		RetryCount:        p.RetryCount,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func fromPurchaseModel(m *purchaseModel) (*purchase.Purchase, error) {
	purchaseID, err := id.ParsePurchaseID(m.ID)
	if err != nil {
		return nil, err
	}
	listingID, err := id.ParseListingID(m.ListingID)
	if err != nil {
		return nil, err
	}

	var settlementBatch id.BatchID
	if m.SettlementBatchID != "" {
		if settlementBatch, err = id.ParseBatchID(m.SettlementBatchID); err != nil {
			return nil, err
		}
	}
	var licenseID id.LicenseID
	if m.LicenseID != "" {
		if licenseID, err = id.ParseLicenseID(m.LicenseID); err != nil {
			return nil, err
		}
	}

	var details []purchase.RoyaltyLine
	if len(m.RoyaltyDetails) > 0 && m.RoyaltyDetails != "null" {
		_ = json.Unmarshal([]byte(m.RoyaltyDetails), &details) //nolint:errcheck // best-effort
	}

	return &purchase.Purchase{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:              purchaseID,
		Buyer:           m.Buyer,
		Seller:          m.Seller,
		ListingID:       listingID,
		AmountCents:     types.Cents(m.AmountCents),
		Status:          purchase.Status(m.Status),
		SettlementBatch: settlementBatch,
		LicenseID:       licenseID,
		FeeCents:        types.Cents(m.FeeCents),
		SellerNetCents:  types.Cents(m.SellerNetCents),
		TotalRoyalties:  types.Cents(m.TotalRoyalties),
		RoyaltyDetails:  details,
		FailureReason:   m.FailureReason,
		RetryCount:      m.RetryCount,
	}, nil
}

type purchaseHistoryModel struct {
	grove.BaseModel `grove:"table:ledger_purchase_history"`

	ID         string `grove:"id,pk"`
	PurchaseID string `grove:"purchase_id"`
	FromStatus string `grove:"from_status"`
	ToStatus   string `grove:"to_status"`
	Reason     string `grove:"reason"`
	Actor      string `grove:"actor"`
	Timestamp  int64  `grove:"timestamp"`
}

func toPurchaseHistoryModel(h *purchase.StatusHistoryEntry) *purchaseHistoryModel {
	return &purchaseHistoryModel{
		ID:         h.PurchaseID.String() + ":" + strconv.FormatInt(h.Timestamp, 10) + ":" + string(h.To),
		PurchaseID: h.PurchaseID.String(),
		FromStatus: string(h.From),
		ToStatus:   string(h.To),
		Reason:     h.Reason,
		Actor:      h.Actor,
		Timestamp:  h.Timestamp,
	}
}

func fromPurchaseHistoryModel(m *purchaseHistoryModel) (*purchase.StatusHistoryEntry, error) {
	purchaseID, err := id.ParsePurchaseID(m.PurchaseID)
	if err != nil {
		return nil, err
	}
	return &purchase.StatusHistoryEntry{
		PurchaseID: purchaseID,
		From:       purchase.Status(m.FromStatus),
		To:         purchase.Status(m.ToStatus),
		Reason:     m.Reason,
		Actor:      m.Actor,
		Timestamp:  m.Timestamp,
	}, nil
}

type listingModel struct {
	grove.BaseModel `grove:"table:ledger_listings"`

	ID            string    `grove:"id,pk"`
	Seller        string    `grove:"seller"`
	ContentID     string    `grove:"content_id"`
	ContentHash   string    `grove:"content_hash"`
	PriceCents    int64     `grove:"price_cents"`
	LicenseType   string    `grove:"license_type"`
	Status        string    `grove:"status"`
	PurchaseCount int64     `grove:"purchase_count"`
	TotalRevenue  int64     `grove:"total_revenue_cents"`
	CreatedAt     time.Time `grove:"created_at"`
	UpdatedAt     time.Time `grove:"updated_at"`
}

func toListingModel(l *listing.Listing) *listingModel {
	return &listingModel{
		ID:            l.ID.String(),
		Seller:        l.Seller,
		ContentID:     l.ContentID,
		ContentHash:   l.ContentHash,
		PriceCents:    int64(l.PriceCents),
		LicenseType:   string(l.LicenseType),
		Status:        string(l.Status),
		PurchaseCount: l.PurchaseCount,
		TotalRevenue:  int64(l.TotalRevenue),
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func fromListingModel(m *listingModel) (*listing.Listing, error) {
	listingID, err := id.ParseListingID(m.ID)
	if err != nil {
		return nil, err
	}
	return &listing.Listing{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:            listingID,
		Seller:        m.Seller,
		ContentID:     m.ContentID,
		ContentHash:   m.ContentHash,
		PriceCents:    types.Cents(m.PriceCents),
		LicenseType:   listing.LicenseType(m.LicenseType),
		Status:        listing.Status(m.Status),
		PurchaseCount: m.PurchaseCount,
		TotalRevenue:  types.Cents(m.TotalRevenue),
	}, nil
}

type licenseModel struct {
	grove.BaseModel `grove:"table:ledger_licenses"`

	ID        string `grove:"id,pk"`
	ListingID string `grove:"listing_id"`
	BuyerID   string `grove:"buyer_id"`
}

// ==================== Emergent account model ====================

type emergentAccountModel struct {
	grove.BaseModel `grove:"table:ledger_emergent_accounts"`

	ID               string    `grove:"id,pk"`
	DisplayName      string    `grove:"display_name"`
	OperatingCents   int64     `grove:"operating_balance_cents"`
	ReserveCents     int64     `grove:"reserve_balance_cents"`
	SeedAmountCents  int64     `grove:"seed_amount_cents"`
	TotalEarnedCents int64     `grove:"total_earned_cents"`
	TotalSpentCents  int64     `grove:"total_spent_cents"`
	Status           string    `grove:"status"`
	CreatedAt        time.Time `grove:"created_at"`
	UpdatedAt        time.Time `grove:"updated_at"`
}

func toEmergentAccountModel(a *emergent.Account) *emergentAccountModel {
	return &emergentAccountModel{
		ID:               a.ID.String(),
		DisplayName:      a.DisplayName,
		OperatingCents:   int64(a.OperatingCents),
		ReserveCents:     int64(a.ReserveCents),
		SeedAmountCents:  int64(a.SeedAmountCents),
		TotalEarnedCents: int64(a.TotalEarnedCents),
		TotalSpentCents:  int64(a.TotalSpentCents),
		Status:           string(a.Status),
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func fromEmergentAccountModel(m *emergentAccountModel) (*emergent.Account, error) {
	emergentID, err := id.ParseEmergentID(m.ID)
	if err != nil {
		return nil, err
	}
	return &emergent.Account{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:               emergentID,
		DisplayName:      m.DisplayName,
		OperatingCents:   types.Cents(m.OperatingCents),
		ReserveCents:     types.Cents(m.ReserveCents),
		SeedAmountCents:  types.Cents(m.SeedAmountCents),
		TotalEarnedCents: types.Cents(m.TotalEarnedCents),
		TotalSpentCents:  types.Cents(m.TotalSpentCents),
		Status:           emergent.Status(m.Status),
	}, nil
}

// ==================== Vault model ====================

type vaultEntryModel struct {
	grove.BaseModel `grove:"table:ledger_vault_entries"`

	ContentHash      string `grove:"content_hash,pk"`
	FilePath         string `grove:"file_path"`
	OriginalBytes    int64  `grove:"original_bytes"`
	CompressedBytes  int64  `grove:"compressed_bytes"`
	CompressionKind  string `grove:"compression_kind"`
	MimeType         string `grove:"mime_type"`
	ReferenceCount   int64  `grove:"reference_count"`
	CreatedAt        int64  `grove:"created_at"`
	LastReferencedAt int64  `grove:"last_referenced_at"`
	Data             []byte `grove:"data"`
}

func toVaultEntryModel(e *vault.Entry, compressed []byte) *vaultEntryModel {
	return &vaultEntryModel{
		ContentHash:      e.ContentHash,
		FilePath:         e.FilePath,
		OriginalBytes:    e.OriginalBytes,
		CompressedBytes:  e.CompressedBytes,
		CompressionKind:  string(e.CompressionKind),
		MimeType:         e.MimeType,
		ReferenceCount:   e.ReferenceCount,
		CreatedAt:        e.CreatedAt,
		LastReferencedAt: e.LastReferencedAt,
		Data:             compressed,
	}
}

func fromVaultEntryModel(m *vaultEntryModel) *vault.Entry {
	return &vault.Entry{
		ContentHash:      m.ContentHash,
		FilePath:         m.FilePath,
		OriginalBytes:    m.OriginalBytes,
		CompressedBytes:  m.CompressedBytes,
		CompressionKind:  vault.CompressionKind(m.CompressionKind),
		MimeType:         m.MimeType,
		ReferenceCount:   m.ReferenceCount,
		CreatedAt:        m.CreatedAt,
		LastReferencedAt: m.LastReferencedAt,
	}
}

// ==================== Reconciliation model ====================

type reconciliationRunModel struct {
	grove.BaseModel `grove:"table:ledger_reconciliation_runs"`

	ID               string `grove:"id,pk"`
	LedgerExpected   int64  `grove:"ledger_expected_cents"`
	RecordedUSDCents int64  `grove:"recorded_usd_cents"`
	ExternalBalance  *int64 `grove:"external_balance_cents"`
	DriftCents       int64  `grove:"drift_cents"`
	Status           string `grove:"status"`
	AlertTriggered   bool   `grove:"alert_triggered"`
	SolvencyOK       bool   `grove:"solvency_ok"`
	Details          string `grove:"details"`
	Timestamp        int64  `grove:"timestamp"`
}

func toReconciliationRunModel(r *reconcile.Run) *reconciliationRunModel {
	details, _ := json.Marshal(r.Details) //nolint:errcheck // best-effort

	var external *int64
	if r.ExternalBalance != nil {
		v := int64(*r.ExternalBalance)
		external = &v
	}

	return &reconciliationRunModel{
		ID:               r.ID.String(),
		LedgerExpected:   int64(r.LedgerExpected),
		RecordedUSDCents: int64(r.RecordedUSDCents),
		ExternalBalance:  external,
		DriftCents:       int64(r.DriftCents),
		Status:           string(r.Status),
		AlertTriggered:   r.AlertTriggered,
		SolvencyOK:       r.SolvencyOK,
		Details:          string(details),
		Timestamp:        r.Timestamp,
	}
}

func fromReconciliationRunModel(m *reconciliationRunModel) (*reconcile.Run, error) {
	runID, err := id.ParseReconcileRunID(m.ID)
	if err != nil {
		return nil, err
	}

	var details map[string]string
	if len(m.Details) > 0 && m.Details != "null" {
		_ = json.Unmarshal([]byte(m.Details), &details) //nolint:errcheck // best-effort
	}

	var external *types.Cents
	if m.ExternalBalance != nil {
		v := types.Cents(*m.ExternalBalance)
		external = &v
	}

	return &reconcile.Run{
		ID:               runID,
		LedgerExpected:   types.Cents(m.LedgerExpected),
		RecordedUSDCents: types.Cents(m.RecordedUSDCents),
		ExternalBalance:  external,
		DriftCents:       types.Cents(m.DriftCents),
		Status:           reconcile.Status(m.Status),
		AlertTriggered:   m.AlertTriggered,
		SolvencyOK:       m.SolvencyOK,
		Details:          details,
		Timestamp:        m.Timestamp,
	}, nil
}
