// Package memory provides an in-memory export target, useful for local runs
// without Google credentials and for tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"diaria/internal/core"
	ports "diaria/internal/sheets"
)

type Store struct {
	mu      sync.Mutex
	entries []core.Entry
}

var (
	_ ports.EntryAppender = (*Store)(nil)
	_ ports.EntryRemover  = (*Store)(nil)
)

func New() *Store {
	return &Store{}
}

func (s *Store) Append(ctx context.Context, e core.Entry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return fmt.Sprintf("row-%d", len(s.entries)), nil
}

func (s *Store) Remove(ctx context.Context, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.ID == entryID {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

// Entries returns a copy of the stored rows.
func (s *Store) Entries() []core.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
