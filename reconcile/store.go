package reconcile

import "context"

// Store persists reconciliation runs.
type Store interface {
	Create(ctx context.Context, r *Run) error
	Latest(ctx context.Context) (*Run, error)
	ListSince(ctx context.Context, sinceUnix int64, limit int) ([]*Run, error)
	Deficits(ctx context.Context, limit int) ([]*Run, error)
}
