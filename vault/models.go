// Package vault implements the content-addressed, reference-counted
// artifact store: SHA-256 hashing, deduplication, deterministic
// compression, and a sharded path recorded for each entry. The bytes are
// held by the backing store, not written to that path.
package vault

// CompressionKind identifies which codec compressed a stored artifact.
type CompressionKind string

// CompressionGzip is the deployment's chosen codec: deterministic across
// encodes of identical bytes at a pinned compression level.
const CompressionGzip CompressionKind = "gzip"

// Entry is a single content-addressed artifact. ContentHash is the
// primary key.
type Entry struct {
	ContentHash      string          `json:"content_hash"`
	FilePath         string          `json:"file_path"`
	OriginalBytes    int64           `json:"original_bytes"`
	CompressedBytes  int64           `json:"compressed_bytes"`
	CompressionKind  CompressionKind `json:"compression_kind"`
	MimeType         string          `json:"mime_type"`
	ReferenceCount   int64           `json:"reference_count"`
	CreatedAt        int64           `json:"created_at"`
	LastReferencedAt int64           `json:"last_referenced_at"`
}

// StoreResult reports the outcome of Store: whether the bytes were
// already present (deduplicated) and, if not, how many compressed bytes
// were newly written.
type StoreResult struct {
	ContentHash     string
	Deduplicated    bool
	AdditionalBytes int64
}
