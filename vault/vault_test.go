package vault

import (
	"bytes"
	"context"
	"testing"
)

func TestHashDeterministic(t *testing.T) {
	data := []byte("hello vault")
	if Hash(data) != Hash(data) {
		t.Fatal("hash must be deterministic for identical bytes")
	}
}

func TestShardedPath(t *testing.T) {
	got, err := ShardedPath("/vault", "abcdef0123")
	if err != nil {
		t.Fatal(err)
	}
	want := "/vault/ab/cd/abcdef0123"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestCompressRoundTrip(t *testing.T) {
	original := []byte("the quick brown fox jumps over the lazy dog, repeated for a bit of entropy")
	compressed, err := Compress(original)
	if err != nil {
		t.Fatal(err)
	}
	decompressed, err := Decompress(compressed)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(original, decompressed) {
		t.Fatal("round trip did not preserve bytes")
	}
}

func TestCompressDeterministic(t *testing.T) {
	data := []byte("deterministic codec requirement")
	a, err := Compress(data)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Compress(data)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("compressing identical bytes twice must produce identical output")
	}
}

// fakeStore is a minimal in-memory Store fixture for testing Store()/Sweep().
type fakeStore struct {
	entries map[string]*Entry
	bytes   map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: map[string]*Entry{}, bytes: map[string][]byte{}}
}

func (f *fakeStore) Get(_ context.Context, hash string) (*Entry, bool, error) {
	e, ok := f.entries[hash]
	return e, ok, nil
}

func (f *fakeStore) Insert(_ context.Context, e *Entry, compressed []byte) error {
	f.entries[e.ContentHash] = e
	f.bytes[e.ContentHash] = compressed
	return nil
}

func (f *fakeStore) IncrementRef(_ context.Context, hash string) error {
	f.entries[hash].ReferenceCount++
	return nil
}

func (f *fakeStore) DecrementRef(_ context.Context, hash string) error {
	f.entries[hash].ReferenceCount--
	return nil
}

func (f *fakeStore) ReadBytes(_ context.Context, e *Entry) ([]byte, error) {
	return f.bytes[e.ContentHash], nil
}

func (f *fakeStore) ListGarbage(_ context.Context, _ int64, _ int64) ([]*Entry, error) {
	var out []*Entry
	for _, e := range f.entries {
		if e.ReferenceCount <= 0 {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) Delete(_ context.Context, hash string) error {
	delete(f.entries, hash)
	delete(f.bytes, hash)
	return nil
}

func TestStoreDedupesSecondWrite(t *testing.T) {
	s := newFakeStore()
	ctx := context.Background()
	data := []byte("artifact bytes")

	first, err := Store(ctx, s, "/vault", data, "image/png", 1000)
	if err != nil {
		t.Fatal(err)
	}
	if first.Deduplicated {
		t.Fatal("first write should not be deduplicated")
	}

	second, err := Store(ctx, s, "/vault", data, "image/png", 1001)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Deduplicated {
		t.Fatal("second write of identical bytes should be deduplicated")
	}
	if second.AdditionalBytes != 0 {
		t.Errorf("deduplicated write should report zero additional bytes, got %d", second.AdditionalBytes)
	}
	if s.entries[first.ContentHash].ReferenceCount != 2 {
		t.Errorf("expected ref count 2, got %d", s.entries[first.ContentHash].ReferenceCount)
	}
}

func TestSweepRemovesGarbage(t *testing.T) {
	s := newFakeStore()
	ctx := context.Background()
	data := []byte("garbage candidate")

	res, err := Store(ctx, s, "/vault", data, "text/plain", 1000)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.DecrementRef(ctx, res.ContentHash); err != nil {
		t.Fatal(err)
	}

	removed, err := Sweep(ctx, s, 3600, 5000)
	if err != nil {
		t.Fatal(err)
	}
	if len(removed) != 1 || removed[0] != res.ContentHash {
		t.Fatalf("expected %s removed, got %v", res.ContentHash, removed)
	}
	if _, ok, _ := s.Get(ctx, res.ContentHash); ok {
		t.Fatal("entry should have been deleted")
	}
}
