package blob

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestValidateKey(t *testing.T) {
	if err := ValidateKey("prepcache:snapshot"); err != nil {
		t.Errorf("valid key rejected: %v", err)
	}
	if err := ValidateKey(""); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey for empty key, got: %v", err)
	}
	if err := ValidateKey("   "); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey for blank key, got: %v", err)
	}
	if err := ValidateKey("bad\nkey"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey for newline key, got: %v", err)
	}
	if err := ValidateKey(strings.Repeat("k", MaxKeyLength+1)); !errors.Is(err, ErrKeyTooLong) {
		t.Errorf("expected ErrKeyTooLong, got: %v", err)
	}
}

// storeContract exercises the Store contract shared by all implementations.
func storeContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	// Get on missing key is a clean miss
	value, ok, err := store.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get on missing key errored: %v", err)
	}
	if ok || value != nil {
		t.Error("Get on missing key should return (nil, false)")
	}

	// Set then Get
	want := []byte(`{"5":{"prepId":100}}`)
	if err := store.Set(ctx, "snapshot", want); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, ok, err := store.Get(ctx, "snapshot")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || !bytes.Equal(got, want) {
		t.Errorf("Get returned %q, want %q", got, want)
	}

	// Overwrite
	want2 := []byte(`{}`)
	if err := store.Set(ctx, "snapshot", want2); err != nil {
		t.Fatalf("overwrite Set failed: %v", err)
	}
	got, _, _ = store.Get(ctx, "snapshot")
	if !bytes.Equal(got, want2) {
		t.Errorf("Get after overwrite returned %q, want %q", got, want2)
	}

	// Delete is idempotent
	if err := store.Delete(ctx, "snapshot"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "snapshot"); ok {
		t.Error("Get after Delete should miss")
	}
	if err := store.Delete(ctx, "snapshot"); err != nil {
		t.Errorf("Delete on missing key should not error, got: %v", err)
	}
}

func TestMemoryStore_Contract(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestMemoryStore_CopiesValue(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	value := []byte("original")
	if err := store.Set(ctx, "k", value); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value[0] = 'X'

	got, _, _ := store.Get(ctx, "k")
	if !bytes.Equal(got, []byte("original")) {
		t.Error("stored value shares memory with caller slice")
	}
}

func TestFileStore_Contract(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	storeContract(t, store)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if err := store.Set(ctx, "snapshot", []byte("persisted")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A new store over the same directory models a process restart.
	reopened, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	got, ok, err := reopened.Get(ctx, "snapshot")
	if err != nil || !ok {
		t.Fatalf("Get after reopen: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, []byte("persisted")) {
		t.Errorf("Get after reopen returned %q", got)
	}
}

func TestFileStore_RejectsInvalidKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if err := store.Set(context.Background(), "../escape", nil); err != nil {
		// Keys are hex-encoded, so path separators are inert; any error
		// here must be a validation error.
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := store.Get(context.Background(), "../escape"); !ok {
		t.Error("hex-encoded key should round trip")
	}
}
