package entry

import (
	"context"

	"github.com/concordhq/ledger/account"
)

// Store persists ledger entries. Implementations MUST apply a batch inside
// a single storage-level transaction and MUST enforce ref-id uniqueness
// among Complete entries.
type Store interface {
	// RecordBatch applies every entry in the batch atomically and returns
	// the ids assigned. If any entry in the batch shares a ref-id with an
	// already-Complete entry, RecordBatch returns the original batch's
	// entries unchanged (idempotent replay) instead of inserting
	// duplicates.
	RecordBatch(ctx context.Context, batch *Batch) ([]*Entry, error)

	// GetEntries returns a page of entries touching account, newest first,
	// optionally narrowed by Filter. Readers never fail on an empty
	// result set.
	GetEntries(ctx context.Context, acct account.Account, filter Filter) (Page, error)

	// CheckRef looks up a completed batch by ref-id. ok is false if no
	// entry with that ref-id has reached Complete.
	CheckRef(ctx context.Context, refID string) (entries []*Entry, ok bool, err error)

	// MarkReversed flips the status of the given entries to Reversed. It
	// does not alter any value field and is only ever invoked alongside
	// the insertion of offsetting Reversal entries.
	MarkReversed(ctx context.Context, ids []string) error

	// MarkComplete flips Pending entries to Complete. Used only by the
	// withdrawal flow's post-gateway-success step (§4.9); never called
	// on an already-Complete entry.
	MarkComplete(ctx context.Context, ids []string) error
}

// Filter narrows a GetEntries query.
type Filter struct {
	Kinds     []Kind
	Status    Status
	Since     int64 // unix seconds, 0 means unbounded
	Until     int64 // unix seconds, 0 means unbounded
	Limit     int
	Cursor    string
}

// Page is a single page of entry results.
type Page struct {
	Entries    []*Entry
	NextCursor string
}
