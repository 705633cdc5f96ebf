// Package collection keeps the in-memory snapshot of the episode collection
// that views read synchronously, and routes every mutation through the
// episode service.
package collection

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"dropline/internal/domain"
	"dropline/internal/episodes"
)

// Service is the persistence surface the store drives.
type Service interface {
	List(ctx context.Context) ([]domain.Episode, error)
	Create(ctx context.Context, d domain.Draft) (domain.Episode, error)
	Update(ctx context.Context, id string, p domain.Patch) (domain.Episode, error)
	Delete(ctx context.Context, id string) error
}

var _ Service = (*episodes.Service)(nil)

type Store struct {
	svc    Service
	logger *slog.Logger

	// Now and NewID stamp nested records created through the helpers.
	Now   func() time.Time
	NewID func() string

	mu        sync.Mutex
	activated bool
	loading   bool
	episodes  []domain.Episode
	err       *Error
}

func New(svc Service, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		svc:      svc,
		logger:   logger,
		Now:      time.Now,
		NewID:    episodes.NewID,
		loading:  true,
		episodes: []domain.Episode{},
	}
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Store) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return episodes.NewID()
}

// Activate performs the initial load. Only the first call does any work.
func (s *Store) Activate(ctx context.Context) error {
	s.mu.Lock()
	if s.activated {
		s.mu.Unlock()
		return nil
	}
	s.activated = true
	s.mu.Unlock()
	return s.load(ctx)
}

// Refetch reloads the collection and replaces the snapshot.
func (s *Store) Refetch(ctx context.Context) error {
	s.mu.Lock()
	s.activated = true
	s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	list, err := s.svc.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = &Error{Kind: LoadFailure, Op: "load episodes", Err: err}
		s.logger.Warn("episode load failed", "error", err)
		return s.err
	}
	s.episodes = cloneAll(list)
	return nil
}

// Create stores a new episode and prepends it to the snapshot.
func (s *Store) Create(ctx context.Context, d domain.Draft) (domain.Episode, error) {
	e, err := s.svc.Create(ctx, d)
	if err != nil {
		return domain.Episode{}, s.fail("create episode", err)
	}
	s.mu.Lock()
	s.episodes = append([]domain.Episode{e.Clone()}, s.episodes...)
	s.mu.Unlock()
	return e, nil
}

// Update applies p to episode id and replaces it in the snapshot.
func (s *Store) Update(ctx context.Context, id string, p domain.Patch) (domain.Episode, error) {
	e, err := s.svc.Update(ctx, id, p)
	if err != nil {
		return domain.Episode{}, s.fail("update episode", err)
	}
	s.mu.Lock()
	for i := range s.episodes {
		if s.episodes[i].ID == id {
			s.episodes[i] = e.Clone()
		}
	}
	s.mu.Unlock()
	return e, nil
}

// Delete removes episode id from the store and the snapshot.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.svc.Delete(ctx, id); err != nil {
		return s.fail("delete episode", err)
	}
	s.mu.Lock()
	kept := s.episodes[:0]
	for _, e := range s.episodes {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.episodes = kept
	s.mu.Unlock()
	return nil
}

func (s *Store) fail(op string, err error) error {
	kind := MutationFailure
	if errors.Is(err, episodes.ErrNotFound) || errors.Is(err, ErrItemNotFound) {
		kind = NotFound
	}
	e := &Error{Kind: kind, Op: op, Err: err}
	s.mu.Lock()
	s.err = e
	s.mu.Unlock()
	s.logger.Warn("episode mutation failed", "op", op, "kind", kind.String(), "error", err)
	return e
}

// Episodes returns a copy of the snapshot in stored order.
func (s *Store) Episodes() []domain.Episode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.episodes)
}

// Episode looks id up in the snapshot.
func (s *Store) Episode(id string) (domain.Episode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.episodes {
		if e.ID == id {
			return e.Clone(), true
		}
	}
	return domain.Episode{}, false
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last recorded failure, or nil.
func (s *Store) Err() *Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Store) ClearError() {
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()
}

func cloneAll(list []domain.Episode) []domain.Episode {
	out := make([]domain.Episode, len(list))
	for i, e := range list {
		out[i] = e.Clone()
	}
	return out
}
