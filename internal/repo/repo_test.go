package repo_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"dropline/internal/db"
	"dropline/internal/events"
	"dropline/internal/migrate"
	"dropline/internal/repo"
	"dropline/internal/storage"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if _, err := migrate.Migrate(context.Background(), conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func TestDocumentSlot(t *testing.T) {
	ctx := context.Background()
	r := repo.Repo{DB: setupDB(t)}
	slot := r.DocumentSlot("leaked_episodes")

	if _, err := slot.Read(ctx); !errors.Is(err, storage.ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if err := slot.Write(ctx, []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := slot.Write(ctx, []byte(`[]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	data, err := slot.Read(ctx)
	if err != nil || string(data) != `[]` {
		t.Fatalf("read back %q %v", data, err)
	}
	if _, err := r.GetDocument(ctx, "other"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown key, got %v", err)
	}
}

func TestLatestEvents(t *testing.T) {
	ctx := context.Background()
	conn := setupDB(t)
	w := events.Writer{DB: conn, Now: func() time.Time { return time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC) }}
	for _, typ := range []string{"episode.create", "episode.update", "episode.delete"} {
		if err := w.Append(ctx, typ, "episode", "ep-1", events.EventPayload{"name": "Winter Drop"}); err != nil {
			t.Fatalf("append %s: %v", typ, err)
		}
	}
	if err := w.Append(ctx, "episode.create", "episode", "ep-2", nil); err != nil {
		t.Fatal(err)
	}

	r := repo.Repo{DB: conn}
	all, err := r.LatestEvents(ctx, 10, "", "", "")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(all) != 4 || all[0].EntityID != "ep-2" || all[0].Payload != "{}" {
		t.Fatalf("unexpected events: %+v", all)
	}
	if all[0].TS != "2024-01-15T09:00:00Z" {
		t.Fatalf("unexpected ts %q", all[0].TS)
	}
	creates, err := r.LatestEvents(ctx, 10, "episode.create", "", "")
	if err != nil || len(creates) != 2 {
		t.Fatalf("filtered by type: %d %v", len(creates), err)
	}
	one, err := r.LatestEvents(ctx, 1, "", "episode", "ep-1")
	if err != nil || len(one) != 1 || one[0].Type != "episode.delete" {
		t.Fatalf("filtered by entity: %+v %v", one, err)
	}
}
