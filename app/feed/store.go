package feed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrMalformed reports that the previous feed file exists but cannot be
// parsed. The caller decides whether that fails the run or starts a fresh
// feed.
var ErrMalformed = errors.New("previous feed is malformed")

// Store owns the persisted feed file: the single piece of state the system
// keeps between runs.
type Store struct {
	path   string
	parser *Parser
	lock   *flock.Flock
}

func NewStore(path string) *Store {
	return &Store{
		path:   path,
		parser: NewParser(),
		lock:   flock.New(path + ".lock"),
	}
}

func (s *Store) Path() string {
	return s.path
}

// Lock serializes read-modify-write cycles across processes. Scheduled runs
// can overlap when the portal is slow to respond.
func (s *Store) Lock(ctx context.Context) error {
	locked, err := s.lock.TryLockContext(ctx, 500*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to lock feed file: %w", err)
	}
	if !locked {
		return fmt.Errorf("feed file %s is locked by another run", s.path)
	}
	return nil
}

func (s *Store) Unlock() {
	_ = s.lock.Unlock()
}

// Load reads the persisted feed. A missing file is a valid empty feed; an
// unparseable one returns an error wrapping ErrMalformed.
func (s *Store) Load() ([]Item, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read feed file: %w", err)
	}

	items, err := s.parser.Run(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return items, nil
}

// Write replaces the feed file atomically: the document goes to a temporary
// file in the same directory, which is then renamed over the old feed. A
// failed run never leaves a partial document behind.
func (s *Store) Write(rss string) error {
	dir := filepath.Dir(s.path)

	tmp, err := os.CreateTemp(dir, ".feed-*.xml")
	if err != nil {
		return fmt.Errorf("failed to create temporary feed file: %w", err)
	}

	if _, err := tmp.WriteString(rss); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write feed: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temporary feed file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace feed file: %w", err)
	}

	return nil
}
