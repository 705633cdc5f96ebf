package episodes_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"dropline/internal/domain"
	"dropline/internal/episodes"
	"dropline/internal/events"
	"dropline/internal/storage"
)

type fixedClock struct {
	t time.Time
}

func (c *fixedClock) now() time.Time { return c.t }

func newService(t *testing.T, slot storage.Slot) (*episodes.Service, *fixedClock) {
	t.Helper()
	clock := &fixedClock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	svc := episodes.New(slot, nil)
	svc.Latency = episodes.Latency{}
	svc.Now = clock.now
	return svc, clock
}

func TestListFallsBackToSeed(t *testing.T) {
	ctx := context.Background()
	cases := map[string]*storage.Memory{
		"empty":     storage.NewMemory(nil),
		"malformed": storage.NewMemory([]byte(`{not json`)),
	}
	for name, slot := range cases {
		t.Run(name, func(t *testing.T) {
			svc, _ := newService(t, slot)
			list, err := svc.List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if !reflect.DeepEqual(list, episodes.Seed()) {
				t.Fatalf("expected seed, got %+v", list)
			}
		})
	}
}

func TestListEmptyArrayIsNotSeed(t *testing.T) {
	svc, _ := newService(t, storage.NewMemory([]byte(`[]`)))
	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty collection, got %d", len(list))
	}
}

func TestCreateAssignsIdentity(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemory([]byte(`[]`))
	svc, _ := newService(t, slot)

	a, err := svc.Create(ctx, domain.Draft{Name: "Summer Heat", Status: domain.StatusPlanning})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := svc.Create(ctx, domain.Draft{Name: "Winter Drop"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct ids, got %q and %q", a.ID, b.ID)
	}
	if a.CreatedAt != a.UpdatedAt || a.CreatedAt != "2024-03-01T10:00:00.000Z" {
		t.Fatalf("unexpected timestamps %q %q", a.CreatedAt, a.UpdatedAt)
	}
	list, err := svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != b.ID || list[1].ID != a.ID {
		t.Fatalf("new episodes must be prepended: %+v", list)
	}
	got, ok, err := svc.Get(ctx, a.ID)
	if err != nil || !ok || !reflect.DeepEqual(got, a) {
		t.Fatalf("get after create: %+v %v %v", got, ok, err)
	}
}

func TestCreateRejectsInvalidDraft(t *testing.T) {
	slot := storage.NewMemory([]byte(`[]`))
	svc, _ := newService(t, slot)
	_, err := svc.Create(context.Background(), domain.Draft{Name: "Drop", Budget: -1})
	if !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if string(slot.Bytes()) != `[]` {
		t.Fatalf("rejected draft must not be persisted")
	}
}

func TestCreateFromSeedPersistsSeed(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemory(nil)
	svc, _ := newService(t, slot)
	if _, err := svc.Create(ctx, domain.Draft{Name: "Episode 13"}); err != nil {
		t.Fatal(err)
	}
	var stored []domain.Episode
	if err := json.Unmarshal(slot.Bytes(), &stored); err != nil {
		t.Fatal(err)
	}
	if len(stored) != 3 || stored[1].ID != "1" || stored[2].ID != "2" {
		t.Fatalf("expected new episode ahead of the seed, got %d records", len(stored))
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc, clock := newService(t, storage.NewMemory(nil))

	clock.t = clock.t.Add(time.Hour)
	status := domain.StatusProduction
	tasks := []domain.Task{{ID: "2", Title: "Research market trends", Category: domain.CategoryMarketing, Status: domain.TaskCompleted}}
	got, err := svc.Update(ctx, "2", domain.Patch{Status: &status, Tasks: &tasks})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Status != status || got.Name != "Episode 11: Street Essentials" || got.CreatedAt != "2024-01-08" {
		t.Fatalf("unexpected merge: %+v", got)
	}
	if got.UpdatedAt != "2024-03-01T11:00:00.000Z" {
		t.Fatalf("updatedAt not refreshed: %q", got.UpdatedAt)
	}
	if got.Tasks[0].CompletedAt != "2024-03-01T11:00:00.000Z" {
		t.Fatalf("completed task should be stamped: %+v", got.Tasks[0])
	}
	again, ok, err := svc.Get(ctx, "2")
	if err != nil || !ok || !reflect.DeepEqual(again, got) {
		t.Fatalf("get after update: %+v %v %v", again, ok, err)
	}
}

func TestUpdateNeverMovesUpdatedAtBackwards(t *testing.T) {
	ctx := context.Background()
	doc := `[{"id":"a","name":"Drop","status":"planning","createdAt":"2030-01-01T00:00:00.000Z","updatedAt":"2030-01-01T00:00:00.000Z"}]`
	svc, _ := newService(t, storage.NewMemory([]byte(doc)))
	name := "Renamed"
	got, err := svc.Update(ctx, "a", domain.Patch{Name: &name})
	if err != nil {
		t.Fatal(err)
	}
	if got.UpdatedAt != "2030-01-01T00:00:00.000Z" {
		t.Fatalf("updatedAt went backwards: %q", got.UpdatedAt)
	}
}

func TestMissingEpisode(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemory([]byte(`[]`))
	svc, _ := newService(t, slot)
	name := "x"
	if _, err := svc.Update(ctx, "nope", domain.Patch{Name: &name}); !errors.Is(err, episodes.ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "nope"); !errors.Is(err, episodes.ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
	if _, ok, err := svc.Get(ctx, "nope"); ok || err != nil {
		t.Fatalf("get: expected absent without error, got %v %v", ok, err)
	}
	if string(slot.Bytes()) != `[]` {
		t.Fatalf("failed mutations must not write")
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, storage.NewMemory(nil))
	if err := svc.Delete(ctx, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, err := svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != "2" {
		t.Fatalf("unexpected collection after delete: %+v", list)
	}
	if _, ok, _ := svc.Get(ctx, "1"); ok {
		t.Fatalf("deleted episode still readable")
	}
}

func TestWriteFailureSurfaces(t *testing.T) {
	slot := storage.NewMemory([]byte(`[]`))
	slot.FailWrites = errors.New("quota exceeded")
	svc, _ := newService(t, slot)
	if _, err := svc.Create(context.Background(), domain.Draft{Name: "Drop"}); !errors.Is(err, slot.FailWrites) {
		t.Fatalf("expected write failure, got %v", err)
	}
}

func TestLatencyHonoursContext(t *testing.T) {
	svc, _ := newService(t, storage.NewMemory(nil))
	svc.Latency.List = time.Minute
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := svc.List(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

type recordedEvent struct {
	typ, id string
}

type memoryRecorder struct {
	got []recordedEvent
}

func (m *memoryRecorder) Append(_ context.Context, evtType, _, entityID string, _ events.EventPayload) error {
	m.got = append(m.got, recordedEvent{evtType, entityID})
	return nil
}

func TestMutationsRecordActivity(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, storage.NewMemory([]byte(`[]`)))
	svc.NewID = func() string { return "fixed" }
	rec := &memoryRecorder{}
	svc.Events = rec

	if _, err := svc.Create(ctx, domain.Draft{Name: "Drop"}); err != nil {
		t.Fatal(err)
	}
	views := "10K"
	if _, err := svc.Update(ctx, "fixed", domain.Patch{Views: &views}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, "fixed"); err != nil {
		t.Fatal(err)
	}
	want := []recordedEvent{{"episode.create", "fixed"}, {"episode.update", "fixed"}, {"episode.delete", "fixed"}}
	if !reflect.DeepEqual(rec.got, want) {
		t.Fatalf("events = %v, want %v", rec.got, want)
	}
}

func TestPersistedDocumentRoundTrip(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemory(nil)
	svc, _ := newService(t, slot)
	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, domain.Draft{Name: fmt.Sprintf("Episode %d", 20+i)}); err != nil {
			t.Fatal(err)
		}
	}
	before, err := svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	other, _ := newService(t, storage.NewMemory(slot.Bytes()))
	after, err := other.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("round trip mismatch")
	}
}
