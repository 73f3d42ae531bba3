package treasury

import "context"

// Store persists the treasury singleton and its event log. Get/Update MUST
// be called under a row-level lock acquired before listing or
// emergent-account locks, per the engine's fixed lock ordering.
type Store interface {
	// Get returns the singleton state, initialising it to zero on first
	// use.
	Get(ctx context.Context) (*State, error)

	// Update persists a new singleton state. Callers must have read the
	// current state first within the same transaction.
	Update(ctx context.Context, s *State) error

	// AppendEvent records a mint/burn/drift-alert event.
	AppendEvent(ctx context.Context, e *Event) error

	// ListEvents returns recent events, newest first, optionally filtered
	// by kind.
	ListEvents(ctx context.Context, kind EventKind, limit int) ([]*Event, error)
}
