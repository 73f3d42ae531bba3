package royalty

import "context"

// Store persists citation edges and royalty payouts. Edge insertion is
// once-and-read-many: deletion is not supported.
type Store interface {
	// InsertEdge inserts a new citation edge. Callers must have already
	// run CycleCheck within the same transaction.
	InsertEdge(ctx context.Context, e *CitationEdge) error

	// ParentsOf returns the direct parents of contentID.
	ParentsOf(ctx context.Context, contentID string) ([]*CitationEdge, error)

	// EdgeExists reports whether a (child, parent) edge already exists.
	EdgeExists(ctx context.Context, childID, parentID string) (bool, error)

	// AppendPayouts persists a batch of royalty payout rows, atomically
	// with the ledger entries that funded them.
	AppendPayouts(ctx context.Context, payouts []*Payout) error

	// PayoutsForEntry returns the payout rows linked to a ledger entry.
	PayoutsForEntry(ctx context.Context, entryID string) ([]*Payout, error)
}
