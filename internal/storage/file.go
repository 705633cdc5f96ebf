package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 25 * time.Millisecond

// File keeps the document in a file on disk. Writes go through a temp file
// and rename; a sibling lock file serialises readers and writers across processes.
type File struct {
	path string
	lock *flock.Flock
}

// NewFile returns a slot stored at path, creating its directory if needed.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("file slot: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("file slot: ensure dir: %w", err)
	}
	return &File{path: path, lock: flock.New(path + ".lock")}, nil
}

func (f *File) Read(ctx context.Context) ([]byte, error) {
	locked, err := f.lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("file slot: lock %s: %w", f.path, err)
	}
	if locked {
		defer f.lock.Unlock()
	}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("file slot: read %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	return data, nil
}

func (f *File) Write(ctx context.Context, data []byte) error {
	locked, err := f.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("file slot: lock %s: %w", f.path, err)
	}
	if locked {
		defer f.lock.Unlock()
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("file slot: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("file slot: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file slot: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("file slot: rename: %w", err)
	}
	return nil
}
