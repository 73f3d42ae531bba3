package vault

import "context"

// Store persists vault entries and their file bytes. Implementations
// must make hash lookup and ref-count mutation idempotent under
// concurrent callers — the recommended strategy is to perform them
// inside the same transaction that updates the referencing entity
// (license, artifact row) so partial state is impossible.
type Store interface {
	// Get returns the entry for hash, or ok=false if none exists.
	Get(ctx context.Context, hash string) (e *Entry, ok bool, err error)

	// Insert creates a new entry with reference_count = 1 and keeps its
	// compressed bytes. e.FilePath carries the entry's sharded path; the
	// store implementations hold the bytes themselves (a database column
	// or an in-memory map) and do not write a file there.
	Insert(ctx context.Context, e *Entry, compressed []byte) error

	// IncrementRef bumps reference_count and refreshes last_referenced_at
	// for an existing entry.
	IncrementRef(ctx context.Context, hash string) error

	// DecrementRef lowers reference_count; it may go to zero or below
	// zero (the grace-period clock starts once it is <= 0).
	DecrementRef(ctx context.Context, hash string) error

	// ReadBytes returns the raw compressed bytes stored for an entry.
	ReadBytes(ctx context.Context, e *Entry) ([]byte, error)

	// ListGarbage returns entries whose reference_count has been <= 0 for
	// longer than graceSeconds, candidates for the periodic sweep.
	ListGarbage(ctx context.Context, graceSeconds int64, nowUnix int64) ([]*Entry, error)

	// Delete removes an entry and its stored bytes, called only on entries
	// returned by ListGarbage.
	Delete(ctx context.Context, hash string) error
}
