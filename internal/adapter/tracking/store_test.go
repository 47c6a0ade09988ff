package tracking

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracking.json")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStore(path, logger), path
}

func TestStore_RoundTrip(t *testing.T) {
	store, path := newTestStore(t)

	if err := store.Append("proj-1", []string{"id-1", "id-2"}); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if err := store.Append("proj-2", []string{"id-3"}); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	ids, err := store.Load("proj-1")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"id-1", "id-2"}) {
		t.Errorf("Load(proj-1): got %v", ids)
	}

	// A fresh store over the same file sees the persisted state.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reopened := NewStore(path, logger)
	ids, err = reopened.Load("proj-2")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"id-3"}) {
		t.Errorf("Load(proj-2): got %v", ids)
	}
}

func TestStore_AppendDeduplicates(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.Append("proj-1", []string{"id-1", "id-2"}); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if err := store.Append("proj-1", []string{"id-2", "id-3", "id-3"}); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	ids, err := store.Load("proj-1")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"id-1", "id-2", "id-3"}) {
		t.Errorf("expected merged order without duplicates, got %v", ids)
	}
}

func TestStore_Remove(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.Append("proj-1", []string{"id-1", "id-2", "id-3"}); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if err := store.Remove("proj-1", []string{"id-2", "id-missing"}); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}

	ids, err := store.Load("proj-1")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"id-1", "id-3"}) {
		t.Errorf("got %v", ids)
	}
}

func TestStore_MissingFile(t *testing.T) {
	store, path := newTestStore(t)

	ids, err := store.Load("proj-1")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected empty state, got %v", ids)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Load must not create the file")
	}
}

func TestStore_CorruptFileStartsOver(t *testing.T) {
	store, path := newTestStore(t)
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	ids, err := store.Load("proj-1")
	if err != nil {
		t.Fatalf("corrupt file must not fail Load: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected empty state, got %v", ids)
	}

	if err := store.Append("proj-1", []string{"id-1"}); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	ids, err = store.Load("proj-1")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"id-1"}) {
		t.Errorf("got %v", ids)
	}
}
