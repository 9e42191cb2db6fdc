package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/okian/collide/internal/domain/types"
	"github.com/okian/collide/pkg/metrics"
)

const defaultMaxRuns = 10_000

// MemoryStore keeps runs in memory in insertion order.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]types.Run
	order   []string // oldest first
	maxRuns int
	closed  bool
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID:    make(map[string]types.Run),
		maxRuns: defaultMaxRuns,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, run types.Run) error {
	start := time.Now()
	defer func() { metrics.RecordStoreLatency("save", float64(time.Since(start).Microseconds())/1000) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	if _, exists := s.byID[run.ID]; exists {
		s.order = slices.DeleteFunc(s.order, func(id string) bool { return id == run.ID })
	}
	s.byID[run.ID] = run
	s.order = append(s.order, run.ID)

	for len(s.order) > s.maxRuns {
		delete(s.byID, s.order[0])
		s.order = s.order[1:]
	}
	metrics.UpdateStoredRuns(len(s.order))
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (types.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.byID[id]
	if !ok {
		return types.Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, nil
}

// Recent implements Store.
func (s *MemoryStore) Recent(_ context.Context, n int) ([]types.Run, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	n = min(n, len(s.order))
	out := make([]types.Run, 0, n)
	for i := len(s.order) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.byID[s.order[i]])
	}
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
