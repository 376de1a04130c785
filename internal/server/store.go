package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/framegraph/pkg/pipeline"
)

// Run is one played scenario held for preview.
type Run struct {
	ID        string
	Result    *pipeline.Result
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the run has outlived its TTL.
func (r *Run) IsExpired() bool {
	return time.Now().After(r.ExpiresAt)
}

// store keeps runs in memory. When full, the oldest run is evicted.
type store struct {
	mu    sync.Mutex
	max   int
	ttl   time.Duration
	runs  map[string]*Run
	order []string // insertion order, oldest first
}

func newStore(max int, ttl time.Duration) *store {
	return &store{max: max, ttl: ttl, runs: make(map[string]*Run)}
}

// Add stores result under a fresh id.
func (s *store) Add(result *pipeline.Result) *Run {
	now := time.Now()
	run := &Run{
		ID:        uuid.NewString(),
		Result:    result,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanup()
	for len(s.order) >= s.max {
		delete(s.runs, s.order[0])
		s.order = s.order[1:]
	}
	s.runs[run.ID] = run
	s.order = append(s.order, run.ID)
	return run
}

// Get returns the run for id, or nil if it does not exist or has expired.
func (s *store) Get(id string) *Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok || run.IsExpired() {
		return nil
	}
	return run
}

// Len returns the number of stored runs, expired ones included.
func (s *store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.runs)
}

// cleanup drops expired runs. Callers hold mu.
func (s *store) cleanup() {
	kept := s.order[:0]
	for _, id := range s.order {
		if s.runs[id].IsExpired() {
			delete(s.runs, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}
