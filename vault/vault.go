package vault

import (
	"context"
	"fmt"
)

// Store computes the content hash of data and either deduplicates
// against an existing entry (incrementing its ref-count) or compresses
// and inserts a new one. root is the vault's file root, used to compute
// the sharded path for new entries.
func Store(ctx context.Context, s Store, root string, data []byte, mimeType string, nowUnix int64) (StoreResult, error) {
	hash := Hash(data)

	if _, ok, err := s.Get(ctx, hash); err != nil {
		return StoreResult{}, err
	} else if ok {
		if err := s.IncrementRef(ctx, hash); err != nil {
			return StoreResult{}, err
		}
		return StoreResult{ContentHash: hash, Deduplicated: true, AdditionalBytes: 0}, nil
	}

	compressed, err := Compress(data)
	if err != nil {
		return StoreResult{}, err
	}

	path, err := ShardedPath(root, hash)
	if err != nil {
		return StoreResult{}, err
	}

	entry := &Entry{
		ContentHash:      hash,
		FilePath:         path,
		OriginalBytes:    int64(len(data)),
		CompressedBytes:  int64(len(compressed)),
		CompressionKind:  CompressionGzip,
		MimeType:         mimeType,
		ReferenceCount:   1,
		CreatedAt:        nowUnix,
		LastReferencedAt: nowUnix,
	}
	if err := s.Insert(ctx, entry, compressed); err != nil {
		return StoreResult{}, err
	}
	return StoreResult{ContentHash: hash, Deduplicated: false, AdditionalBytes: entry.CompressedBytes}, nil
}

// Sweep deletes every entry whose reference count has been at or below
// zero for at least graceSeconds, returning the hashes removed.
func Sweep(ctx context.Context, s Store, graceSeconds int64, nowUnix int64) ([]string, error) {
	garbage, err := s.ListGarbage(ctx, graceSeconds, nowUnix)
	if err != nil {
		return nil, fmt.Errorf("vault: list garbage: %w", err)
	}

	var removed []string
	for _, e := range garbage {
		if err := s.Delete(ctx, e.ContentHash); err != nil {
			return removed, fmt.Errorf("vault: delete %s: %w", e.ContentHash, err)
		}
		removed = append(removed, e.ContentHash)
	}
	return removed, nil
}
