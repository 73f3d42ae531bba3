package purchase

import "context"

// Store persists purchases and their status history. Transition must be
// called inside the same storage transaction as the ledger batch and
// license/listing writes it accompanies.
type Store interface {
	Create(ctx context.Context, p *Purchase) error
	Get(ctx context.Context, purchaseID string) (*Purchase, error)
	Update(ctx context.Context, p *Purchase) error
	AppendHistory(ctx context.Context, h *StatusHistoryEntry) error
	History(ctx context.Context, purchaseID string) ([]*StatusHistoryEntry, error)

	// ListByStatus supports the reconciler/ops surfacing of
	// stuck-in-flight purchases, e.g. everything still Created or Paid
	// past a staleness threshold.
	ListByStatus(ctx context.Context, status Status, olderThanUnix int64) ([]*Purchase, error)
}
