// Package state remembers which input files have already been converted so
// watch mode only reconverts files that changed.
package state

import (
	"context"
	"sync"
	"time"
)

// Stamp identifies one version of an input file.
type Stamp struct {
	ModTime time.Time
	Size    int64
}

// Equal compares stamps at the precision the stores keep.
func (s Stamp) Equal(o Stamp) bool {
	return s.Size == o.Size && s.ModTime.UnixNano() == o.ModTime.UnixNano()
}

// Record is the outcome of converting one version of an input.
type Record struct {
	Input       string
	Stamp       Stamp
	Output      string
	Hands       int
	Skipped     int
	Error       string
	RunID       string
	ConvertedAt time.Time
}

// Store persists conversion records keyed by input path.
type Store interface {
	Lookup(ctx context.Context, input string) (Record, bool, error)
	Save(ctx context.Context, rec Record) error
	Close() error
}

// MemoryStore keeps records for the life of the process.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Lookup(_ context.Context, input string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[input]
	return rec, ok, nil
}

func (s *MemoryStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Input] = rec
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
