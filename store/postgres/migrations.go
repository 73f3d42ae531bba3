package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the ledger store.
var Migrations = migrate.NewGroup("ledger")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_ledger_entries",
			Version: "20240601000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS ledger_entries (
    id           TEXT PRIMARY KEY,
    batch_id     TEXT NOT NULL DEFAULT '',
    kind         TEXT NOT NULL DEFAULT '',
    from_account TEXT NOT NULL DEFAULT '',
    to_account   TEXT NOT NULL DEFAULT '',
    amount_cents BIGINT NOT NULL DEFAULT 0,
    fee_cents    BIGINT NOT NULL DEFAULT 0,
    net_cents    BIGINT NOT NULL DEFAULT 0,
    status       TEXT NOT NULL DEFAULT 'pending',
    ref_id       TEXT NOT NULL DEFAULT '',
    metadata     JSONB NOT NULL DEFAULT '{}',
    request_id   TEXT NOT NULL DEFAULT '',
    ip           TEXT NOT NULL DEFAULT '',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_ledger_entries_to_account ON ledger_entries (to_account, created_at);
CREATE INDEX IF NOT EXISTS idx_ledger_entries_from_account ON ledger_entries (from_account, created_at);
CREATE INDEX IF NOT EXISTS idx_ledger_entries_batch ON ledger_entries (batch_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_ledger_entries_ref_id ON ledger_entries (ref_id) WHERE ref_id != '';
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS ledger_entries`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_ledger_treasury",
			Version: "20240601000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS ledger_treasury_state (
    id                 TEXT PRIMARY KEY,
    total_usd_cents    BIGINT NOT NULL DEFAULT 0,
    total_coins_cents  BIGINT NOT NULL DEFAULT 0,
    last_reconciled    BIGINT NOT NULL DEFAULT 0,
    drift_cents        BIGINT NOT NULL DEFAULT 0,
    drift_alert        BOOLEAN NOT NULL DEFAULT FALSE,
    frozen             BOOLEAN NOT NULL DEFAULT FALSE,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS ledger_treasury_events (
    id           TEXT PRIMARY KEY,
    kind         TEXT NOT NULL DEFAULT '',
    amount       BIGINT NOT NULL DEFAULT 0,
    before_state JSONB NOT NULL DEFAULT '{}',
    after_state  JSONB NOT NULL DEFAULT '{}',
    entry_ref    TEXT NOT NULL DEFAULT '',
    detail       TEXT NOT NULL DEFAULT '',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_ledger_treasury_events_kind ON ledger_treasury_events (kind, created_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
DROP TABLE IF EXISTS ledger_treasury_events;
DROP TABLE IF EXISTS ledger_treasury_state;
`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_ledger_fee_distributions",
			Version: "20240601000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS ledger_fee_distributions (
    id                    TEXT PRIMARY KEY,
    source_transaction_id TEXT NOT NULL DEFAULT '',
    total_fee_cents       BIGINT NOT NULL DEFAULT 0,
    reserves_cents        BIGINT NOT NULL DEFAULT 0,
    operating_cents       BIGINT NOT NULL DEFAULT 0,
    payroll_cents         BIGINT NOT NULL DEFAULT 0,
    created_at            BIGINT NOT NULL DEFAULT 0
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_ledger_fee_dist_source ON ledger_fee_distributions (source_transaction_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS ledger_fee_distributions`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_ledger_citation_graph",
			Version: "20240601000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS ledger_citation_edges (
    id             TEXT PRIMARY KEY,
    child_id       TEXT NOT NULL DEFAULT '',
    parent_id      TEXT NOT NULL DEFAULT '',
    generation     INT NOT NULL DEFAULT 1,
    creator_id     TEXT NOT NULL DEFAULT '',
    parent_creator TEXT NOT NULL DEFAULT '',
    created_at     BIGINT NOT NULL DEFAULT 0
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_ledger_citation_child_parent ON ledger_citation_edges (child_id, parent_id);
CREATE INDEX IF NOT EXISTS idx_ledger_citation_child ON ledger_citation_edges (child_id);
CREATE INDEX IF NOT EXISTS idx_ledger_citation_parent ON ledger_citation_edges (parent_id);

CREATE TABLE IF NOT EXISTS ledger_royalty_payouts (
    id           TEXT PRIMARY KEY,
    entry_id     TEXT NOT NULL DEFAULT '',
    content_id   TEXT NOT NULL DEFAULT '',
    creator_id   TEXT NOT NULL DEFAULT '',
    generation   INT NOT NULL DEFAULT 1,
    rate         DOUBLE PRECISION NOT NULL DEFAULT 0,
    amount_cents BIGINT NOT NULL DEFAULT 0,
    created_at   BIGINT NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_ledger_royalty_entry ON ledger_royalty_payouts (entry_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
DROP TABLE IF EXISTS ledger_royalty_payouts;
DROP TABLE IF EXISTS ledger_citation_edges;
`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_ledger_marketplace",
			Version: "20240601000005",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS ledger_listings (
    id                    TEXT PRIMARY KEY,
    seller                TEXT NOT NULL DEFAULT '',
    content_id            TEXT NOT NULL DEFAULT '',
    content_hash          TEXT NOT NULL DEFAULT '',
    price_cents           BIGINT NOT NULL DEFAULT 0,
    license_type          TEXT NOT NULL DEFAULT 'standard',
    status                TEXT NOT NULL DEFAULT 'active',
    purchase_count        BIGINT NOT NULL DEFAULT 0,
    total_revenue_cents   BIGINT NOT NULL DEFAULT 0,
    created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_ledger_listings_hash_active ON ledger_listings (content_hash) WHERE status = 'active';
CREATE INDEX IF NOT EXISTS idx_ledger_listings_hash_status ON ledger_listings (content_hash, status);
CREATE INDEX IF NOT EXISTS idx_ledger_listings_seller ON ledger_listings (seller);

CREATE TABLE IF NOT EXISTS ledger_licenses (
    id         TEXT PRIMARY KEY,
    listing_id TEXT NOT NULL DEFAULT '',
    buyer_id   TEXT NOT NULL DEFAULT ''
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_ledger_licenses_listing_buyer ON ledger_licenses (listing_id, buyer_id);

CREATE TABLE IF NOT EXISTS ledger_purchases (
    id                    TEXT PRIMARY KEY,
    buyer                 TEXT NOT NULL DEFAULT '',
    seller                TEXT NOT NULL DEFAULT '',
    listing_id            TEXT NOT NULL DEFAULT '',
    amount_cents          BIGINT NOT NULL DEFAULT 0,
    status                TEXT NOT NULL DEFAULT 'created',
    settlement_batch_id   TEXT NOT NULL DEFAULT '',
    license_id            TEXT NOT NULL DEFAULT '',
    fee_cents             BIGINT NOT NULL DEFAULT 0,
    seller_net_cents      BIGINT NOT NULL DEFAULT 0,
    total_royalties_cents BIGINT NOT NULL DEFAULT 0,
    royalty_details       JSONB NOT NULL DEFAULT '[]',
    failure_reason        TEXT NOT NULL DEFAULT '',
    retry_count           INT NOT NULL DEFAULT 0,
    created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_ledger_purchases_buyer ON ledger_purchases (buyer);
CREATE INDEX IF NOT EXISTS idx_ledger_purchases_listing ON ledger_purchases (listing_id);
CREATE INDEX IF NOT EXISTS idx_ledger_purchases_status ON ledger_purchases (status, updated_at);

CREATE TABLE IF NOT EXISTS ledger_purchase_history (
    id          TEXT PRIMARY KEY,
    purchase_id TEXT NOT NULL DEFAULT '',
    from_status TEXT NOT NULL DEFAULT '',
    to_status   TEXT NOT NULL DEFAULT '',
    reason      TEXT NOT NULL DEFAULT '',
    actor       TEXT NOT NULL DEFAULT '',
    timestamp   BIGINT NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_ledger_purchase_history_purchase ON ledger_purchase_history (purchase_id, timestamp);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
DROP TABLE IF EXISTS ledger_purchase_history;
DROP TABLE IF EXISTS ledger_purchases;
DROP TABLE IF EXISTS ledger_licenses;
DROP TABLE IF EXISTS ledger_listings;
`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_ledger_emergent_accounts",
			Version: "20240601000006",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS ledger_emergent_accounts (
    id                       TEXT PRIMARY KEY,
    display_name             TEXT NOT NULL DEFAULT '',
    operating_balance_cents  BIGINT NOT NULL DEFAULT 0,
    reserve_balance_cents    BIGINT NOT NULL DEFAULT 0,
    seed_amount_cents        BIGINT NOT NULL DEFAULT 0,
    total_earned_cents       BIGINT NOT NULL DEFAULT 0,
    total_spent_cents        BIGINT NOT NULL DEFAULT 0,
    status                   TEXT NOT NULL DEFAULT 'active',
    created_at               TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at               TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_ledger_emergent_status ON ledger_emergent_accounts (status);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS ledger_emergent_accounts`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_ledger_vault",
			Version: "20240601000007",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS ledger_vault_entries (
    content_hash        TEXT PRIMARY KEY,
    file_path           TEXT NOT NULL DEFAULT '',
    original_bytes      BIGINT NOT NULL DEFAULT 0,
    compressed_bytes    BIGINT NOT NULL DEFAULT 0,
    compression_kind    TEXT NOT NULL DEFAULT 'gzip',
    mime_type           TEXT NOT NULL DEFAULT '',
    reference_count     BIGINT NOT NULL DEFAULT 0,
    created_at          BIGINT NOT NULL DEFAULT 0,
    last_referenced_at  BIGINT NOT NULL DEFAULT 0,
    data                BYTEA
);

CREATE INDEX IF NOT EXISTS idx_ledger_vault_garbage ON ledger_vault_entries (reference_count, last_referenced_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS ledger_vault_entries`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_ledger_reconciliation_runs",
			Version: "20240601000008",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS ledger_reconciliation_runs (
    id                     TEXT PRIMARY KEY,
    ledger_expected_cents  BIGINT NOT NULL DEFAULT 0,
    recorded_usd_cents     BIGINT NOT NULL DEFAULT 0,
    external_balance_cents BIGINT,
    drift_cents            BIGINT NOT NULL DEFAULT 0,
    status                 TEXT NOT NULL DEFAULT 'balanced',
    alert_triggered        BOOLEAN NOT NULL DEFAULT FALSE,
    solvency_ok            BOOLEAN NOT NULL DEFAULT TRUE,
    details                JSONB NOT NULL DEFAULT '{}',
    timestamp              BIGINT NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_ledger_reconcile_timestamp ON ledger_reconciliation_runs (timestamp);
CREATE INDEX IF NOT EXISTS idx_ledger_reconcile_status ON ledger_reconciliation_runs (status, timestamp);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS ledger_reconciliation_runs`)
				return err
			},
		},
	)
}
