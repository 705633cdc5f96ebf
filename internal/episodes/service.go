// Package episodes persists the episode collection as a single document and
// exposes the asynchronous CRUD surface the rest of the application builds on.
package episodes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"dropline/internal/domain"
	"dropline/internal/events"
	"dropline/internal/storage"
)

// DefaultKey is the storage key the collection document lives under.
const DefaultKey = "leaked_episodes"

// ErrNotFound is returned by Update and Delete for unknown ids.
var ErrNotFound = errors.New("episode not found")

// Latency is the artificial delay applied before each operation.
type Latency struct {
	List   time.Duration
	Get    time.Duration
	Create time.Duration
	Update time.Duration
	Delete time.Duration
}

func DefaultLatency() Latency {
	return Latency{
		List:   300 * time.Millisecond,
		Get:    200 * time.Millisecond,
		Create: 500 * time.Millisecond,
		Update: 400 * time.Millisecond,
		Delete: 300 * time.Millisecond,
	}
}

// Service is the episode repository. Build one per process and share it.
type Service struct {
	Slot    storage.Slot
	Events  events.Recorder
	Logger  *slog.Logger
	Latency Latency
	Now     func() time.Time
	NewID   func() string

	mu sync.Mutex
}

func New(slot storage.Slot, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		Slot:    slot,
		Events:  events.Discard{},
		Logger:  logger,
		Latency: DefaultLatency(),
		Now:     time.Now,
		NewID:   NewID,
	}
}

// NewID returns a time-ordered random identifier.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return NewID()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// load reads the stored collection. Anything unusable yields the seed.
func (s *Service) load(ctx context.Context) ([]domain.Episode, error) {
	data, err := s.Slot.Read(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !errors.Is(err, storage.ErrEmpty) {
			s.logger().Warn("episode document unreadable, serving seed", "error", err)
		}
		return Seed(), nil
	}
	var list []domain.Episode
	if err := json.Unmarshal(data, &list); err != nil {
		s.logger().Warn("episode document malformed, serving seed", "error", err)
		return Seed(), nil
	}
	if list == nil {
		list = []domain.Episode{}
	}
	for i := range list {
		list[i].Normalize()
	}
	return list, nil
}

func (s *Service) save(ctx context.Context, list []domain.Episode) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode episodes: %w", err)
	}
	if err := s.Slot.Write(ctx, data); err != nil {
		return fmt.Errorf("persist episodes: %w", err)
	}
	return nil
}

func (s *Service) record(ctx context.Context, evtType, id string, payload events.EventPayload) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Append(ctx, evtType, "episode", id, payload); err != nil {
		s.logger().Warn("activity record failed", "type", evtType, "episode", id, "error", err)
	}
}

// List returns the stored collection in stored order.
func (s *Service) List(ctx context.Context) ([]domain.Episode, error) {
	if err := wait(ctx, s.Latency.List); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Get returns the episode with id. A missing episode is reported through
// the boolean, not an error.
func (s *Service) Get(ctx context.Context, id string) (domain.Episode, bool, error) {
	if err := wait(ctx, s.Latency.Get); err != nil {
		return domain.Episode{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load(ctx)
	if err != nil {
		return domain.Episode{}, false, err
	}
	for _, e := range list {
		if e.ID == id {
			return e, true, nil
		}
	}
	return domain.Episode{}, false, nil
}

// Create stores a new episode at the front of the collection.
func (s *Service) Create(ctx context.Context, d domain.Draft) (domain.Episode, error) {
	if err := wait(ctx, s.Latency.Create); err != nil {
		return domain.Episode{}, err
	}
	now := s.now()
	e := d.Episode(s.newID(), domain.Timestamp(now))
	domain.ReconcileTasks(e.Tasks, now)
	if err := e.Validate(); err != nil {
		return domain.Episode{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load(ctx)
	if err != nil {
		return domain.Episode{}, err
	}
	list = append([]domain.Episode{e}, list...)
	if err := s.save(ctx, list); err != nil {
		return domain.Episode{}, err
	}
	s.record(ctx, "episode.create", e.ID, events.EventPayload{"name": e.Name, "status": string(e.Status)})
	s.logger().Info("episode created", "id", e.ID, "name", e.Name)
	return e.Clone(), nil
}

// Update merges patch into the stored episode and refreshes updatedAt.
func (s *Service) Update(ctx context.Context, id string, patch domain.Patch) (domain.Episode, error) {
	if err := wait(ctx, s.Latency.Update); err != nil {
		return domain.Episode{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load(ctx)
	if err != nil {
		return domain.Episode{}, err
	}
	idx := -1
	for i := range list {
		if list[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return domain.Episode{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	now := s.now()
	e := list[idx].Clone()
	patch.Apply(&e)
	e.ID = list[idx].ID
	e.CreatedAt = list[idx].CreatedAt
	e.UpdatedAt = laterTimestamp(list[idx].UpdatedAt, now)
	domain.ReconcileTasks(e.Tasks, now)
	if err := e.Validate(); err != nil {
		return domain.Episode{}, err
	}
	list[idx] = e
	if err := s.save(ctx, list); err != nil {
		return domain.Episode{}, err
	}
	s.record(ctx, "episode.update", id, events.EventPayload{"fields": patch.Fields()})
	return e.Clone(), nil
}

// Delete removes the episode with id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := wait(ctx, s.Latency.Delete); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := make([]domain.Episode, 0, len(list))
	for _, e := range list {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(list) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := s.save(ctx, kept); err != nil {
		return err
	}
	s.record(ctx, "episode.delete", id, nil)
	s.logger().Info("episode deleted", "id", id)
	return nil
}

// laterTimestamp stamps now unless the previous value is already later.
func laterTimestamp(prev string, now time.Time) string {
	if t, err := domain.ParseDate(prev); err == nil && t.After(now) {
		return prev
	}
	return domain.Timestamp(now)
}
