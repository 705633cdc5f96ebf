// Package storage holds the durable single-document slots the episode
// service reads and writes. A slot stores one opaque document; callers
// replace it wholesale on every write.
package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrEmpty is returned by Read when nothing has been written yet.
var ErrEmpty = errors.New("slot is empty")

// Slot is a single durable document.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

var (
	_ Slot = (*Memory)(nil)
	_ Slot = (*File)(nil)
)

// Memory is an in-process slot used by tests and the memory backend.
type Memory struct {
	mu   sync.Mutex
	data []byte
	// FailWrites makes every Write fail with the given error.
	FailWrites error
}

// NewMemory returns a slot pre-filled with data (nil for an empty slot).
func NewMemory(data []byte) *Memory {
	return &Memory{data: append([]byte(nil), data...)}
}

func (m *Memory) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.data) == 0 {
		return nil, ErrEmpty
	}
	return append([]byte(nil), m.data...), nil
}

func (m *Memory) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.data = append([]byte(nil), data...)
	return nil
}

// Bytes returns a copy of the stored document.
func (m *Memory) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}
