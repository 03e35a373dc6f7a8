package backfill

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStateStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	store := &FileStateStore{Path: path}

	if _, ok, err := store.Load(context.Background()); err != nil || ok {
		t.Fatalf("expected empty state, got ok=%v err=%v", ok, err)
	}

	if err := store.Save(context.Background(), 1714521600); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, ok, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !ok || got != 1714521600 {
		t.Fatalf("state mismatch: ok=%v got=%d", ok, got)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("tmp file should be renamed away")
	}
}

func TestFileStateStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := &FileStateStore{Path: path}
	if _, _, err := store.Load(context.Background()); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestNilStateStores(t *testing.T) {
	var file *FileStateStore
	if _, ok, err := file.Load(context.Background()); ok || err != nil {
		t.Fatalf("nil file store should be empty")
	}
	var db *DBStateStore
	if err := db.Save(context.Background(), 1); err != nil {
		t.Fatalf("nil db store save: %v", err)
	}
}
