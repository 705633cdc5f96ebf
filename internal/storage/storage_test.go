package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dropline/internal/storage"
)

func TestMemorySlot(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemory(nil)
	if _, err := slot.Read(ctx); !errors.Is(err, storage.ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if err := slot.Write(ctx, []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	data, err := slot.Read(ctx)
	if err != nil || string(data) != `[]` {
		t.Fatalf("read back %q %v", data, err)
	}
	boom := errors.New("disk full")
	slot.FailWrites = boom
	if err := slot.Write(ctx, []byte(`[1]`)); !errors.Is(err, boom) {
		t.Fatalf("expected injected failure, got %v", err)
	}
	if string(slot.Bytes()) != `[]` {
		t.Fatalf("failed write must not change the document")
	}
}

func TestFileSlot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "episodes.json")
	slot, err := storage.NewFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := slot.Read(ctx); !errors.Is(err, storage.ErrEmpty) {
		t.Fatalf("expected ErrEmpty for missing file, got %v", err)
	}
	if err := slot.Write(ctx, []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := slot.Write(ctx, []byte(`[{"id":"2"}]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	data, err := slot.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != `[{"id":"2"}]` {
		t.Fatalf("unexpected content %q", data)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}
