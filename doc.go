// Package ledger implements Concord's economic core: an append-only
// double-entry ledger backing a creative-economy platform's token
// economy, marketplace, and autonomous-agent sub-ledger.
//
// Ledger is designed as a library, not a service. Import it directly
// into your application and back it with a storage implementation. It
// provides:
//
//   - An append-only ledger with ref-id idempotency and pure balance
//     projection — no balance is ever stored, only derived
//   - Treasury mint/burn under a solvency invariant (coins in
//     circulation never exceed USD backing)
//   - A fee calculator and an 80/10/10 fee-split engine
//   - A royalty cascade that pays every ancestor in a citation DAG,
//     with per-generation rate decay and a floor
//   - A marketplace purchase orchestrator running the
//     Created->Paid->Settled->Fulfilled state machine
//   - A dual-wallet sub-ledger for emergent (autonomous agent) entities,
//     with a hard prohibition on exiting funds to fiat
//   - A content-addressed, reference-counted vault with deterministic
//     compression and a sharded path recorded per entry (the bytes
//     themselves are held by the store)
//   - Nightly treasury reconciliation against the ledger's own
//     projection and, optionally, an external payments-gateway balance
//
// # Quick Start
//
//	import (
//	    "github.com/concordhq/ledger"
//	    "github.com/concordhq/ledger/store/postgres"
//	)
//
//	s := postgres.New(db) // db is an open *grove.DB
//
//	l := ledger.New(s, ledger.WithConfig(ledgerconfig.DefaultConfig()))
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
// # Core Concepts
//
// Every value movement is a Batch of Entry rows sharing a batch id,
// applied atomically. A buyer purchasing a marketplace listing produces
// a batch with a buyer debit, one royalty credit per cascade recipient,
// and a seller credit — see Ledger.Purchase.
//
//	p, err := l.Purchase(ctx, ledger.PurchaseRequest{
//	    Buyer:     "user_buyer",
//	    ListingID: listingID,
//	})
//
// Balances are never stored; they are always the projection of an
// account's Complete entries:
//
//	bal, err := l.GetBalance(ctx, account.Account("user_buyer"))
//
// Emergent entities hold two wallets — operating and reserve — and can
// never withdraw to fiat, a constitutional rule enforced at the account
// type itself, not just at the call site.
//
// # Monetary representation
//
// All ledger arithmetic uses Cents, a signed 64-bit integer type, to
// avoid floating-point precision issues. Rounding (where a fee rate
// produces a fractional cent) always rounds half away from zero.
//
// # TypeID
//
// Every entity uses TypeID for globally unique, K-sortable, type-safe
// identifiers:
//
//	entry_01h2xcejqtf2nbrexx3vqjhp41     // Ledger entry ID
//	purc_01h455vb4pex5vsknk084sn02q      // Purchase ID
//	emrg_01h455vb4pex5vsknk084sn03r      // Emergent entity ID
package ledger
