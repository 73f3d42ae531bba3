package feesplit

import "context"

// Store persists fee distribution rows. Idempotency is per
// source-transaction-id: GetBySource returning a row means the split has
// already run for that transaction.
type Store interface {
	Create(ctx context.Context, d *Distribution) error
	GetBySource(ctx context.Context, sourceTransactionID string) (*Distribution, error)
}
