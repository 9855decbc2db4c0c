package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func newLocalStore(t *testing.T) (*LocalStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("NewLocalStore returned error: %v", err)
	}
	return store, dir
}

func writeObject(t *testing.T, dir, key string, size int) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create object directory: %v", err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("failed to write object: %v", err)
	}
}

func TestLocalStoreExistsAndSize(t *testing.T) {
	store, dir := newLocalStore(t)
	writeObject(t, dir, "documents/tenant-1/manual.pdf", 2048)
	ctx := context.Background()

	ok, err := store.Exists(ctx, "documents/tenant-1/manual.pdf")
	if err != nil {
		t.Fatalf("Exists returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected object to exist")
	}

	size, err := store.Size(ctx, "documents/tenant-1/manual.pdf")
	if err != nil {
		t.Fatalf("Size returned error: %v", err)
	}
	if size != 2048 {
		t.Fatalf("expected size 2048, got %d", size)
	}
}

func TestLocalStoreMissingObject(t *testing.T) {
	store, _ := newLocalStore(t)

	ok, err := store.Exists(context.Background(), "documents/absent.pdf")
	if err != nil {
		t.Fatalf("a missing object must not be an error, got %v", err)
	}
	if ok {
		t.Fatal("expected missing object to read as absent")
	}
}

func TestLocalStoreDirectoryIsNotAnObject(t *testing.T) {
	store, dir := newLocalStore(t)
	if err := os.MkdirAll(filepath.Join(dir, "documents"), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}

	ok, err := store.Exists(context.Background(), "documents")
	if err != nil {
		t.Fatalf("Exists returned error: %v", err)
	}
	if ok {
		t.Fatal("a directory must not read as an object")
	}
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, _ := newLocalStore(t)

	if _, err := store.Exists(context.Background(), "../outside"); err == nil {
		t.Fatal("expected traversal key to be rejected")
	}
	if _, err := store.Size(context.Background(), "../../etc/passwd"); err == nil {
		t.Fatal("expected traversal key to be rejected")
	}
}

func TestLocalStoreHonorsContextCancellation(t *testing.T) {
	store, dir := newLocalStore(t)
	writeObject(t, dir, "a", 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Exists(ctx, "a"); err == nil {
		t.Fatal("expected canceled context to error")
	}
	if _, err := store.Size(ctx, "a"); err == nil {
		t.Fatal("expected canceled context to error")
	}
}
