package query

import (
	"slices"
	"sync"
)

type MemoryStore struct {
	mu     sync.RWMutex
	pairs  []Pair
	writes int
}

func NewMemoryStore(pairs ...Pair) *MemoryStore {
	return &MemoryStore{pairs: slices.Clone(pairs)}
}

// ParseMemoryStore creates a store holding the pairs of a raw query string.
func ParseMemoryStore(raw string) (*MemoryStore, error) {
	pairs, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{pairs: pairs}, nil
}

func (s *MemoryStore) Read() []Pair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.pairs)
}

func (s *MemoryStore) Write(pairs []Pair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pairs = slices.Clone(pairs)
	s.writes++
}

// Writes is the number of Write calls, the equivalent of history replacements.
func (s *MemoryStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

func (s *MemoryStore) String() string {
	return Encode(s.Read())
}
