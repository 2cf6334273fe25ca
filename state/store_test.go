package state

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// storeContract exercises the behavior every Store implementation must
// share.
func storeContract(t *testing.T, store Store) {
	t.Helper()

	_, err := store.Load()
	if !errors.Is(err, ErrNoTarget) {
		t.Fatalf("Load() on empty store error = %v, want ErrNoTarget", err)
	}

	target := Target{ID: "i-0123456789abcdef0", PublicAddress: "198.51.100.7"}
	if err := store.Save(target); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != target {
		t.Errorf("Load() = %+v, want %+v", got, target)
	}

	replacement := Target{ID: "i-0fedcba9876543210", PublicAddress: "203.0.113.9"}
	if err := store.Save(replacement); err != nil {
		t.Fatalf("Save() overwrite error = %v", err)
	}
	got, err = store.Load()
	if err != nil {
		t.Fatalf("Load() after overwrite error = %v", err)
	}
	if got != replacement {
		t.Errorf("Load() after overwrite = %+v, want %+v", got, replacement)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoTarget) {
		t.Errorf("Load() after Clear() error = %v, want ErrNoTarget", err)
	}

	// clearing an already empty store is not an error
	if err := store.Clear(); err != nil {
		t.Errorf("Clear() on empty store error = %v", err)
	}
}

func TestFileStore(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "target"))
	storeContract(t, store)
}

func TestMemStore(t *testing.T) {
	storeContract(t, NewMemStore())
}

func TestFileStoreCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "target")
	store := NewFileStore(path)

	if err := store.Save(Target{ID: "i-0123456789abcdef0"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("state file was not created: %v", err)
	}
}

func TestFileStoreToleratesUnknownLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target")
	content := "# written by an older build\nLaunched At: 2024-03-01T10:00:00Z\nTarget ID: i-0123456789abcdef0\nPublic Address: 198.51.100.7\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := NewFileStore(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Target{ID: "i-0123456789abcdef0", PublicAddress: "198.51.100.7"}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestFileStoreRejectsRecordWithoutID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target")
	if err := os.WriteFile(path, []byte("Public Address: 198.51.100.7\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewFileStore(path).Load()
	if !errors.Is(err, ErrNoTarget) {
		t.Errorf("Load() error = %v, want ErrNoTarget", err)
	}
}
