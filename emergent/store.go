package emergent

import "context"

// Store persists emergent accounts.
type Store interface {
	Create(ctx context.Context, a *Account) error
	Get(ctx context.Context, emergentID string) (*Account, error)
	Update(ctx context.Context, a *Account) error
	List(ctx context.Context, status Status, limit, offset int) ([]*Account, error)
}
