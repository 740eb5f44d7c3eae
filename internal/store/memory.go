package store

import (
	"context"
	"sync"

	"cronrun/runner"
)

// memoryStore keeps the newest reports in insertion order, trimmed to
// capacity.
type memoryStore struct {
	mu   sync.Mutex
	cap  int
	reps []runner.RunReport
}

func newMemory(cfg Config) *memoryStore {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &memoryStore{cap: capacity}
}

func (m *memoryStore) Append(_ context.Context, rep runner.RunReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reps = append(m.reps, rep)
	if len(m.reps) > m.cap {
		m.reps = m.reps[len(m.reps)-m.cap:]
	}
	return nil
}

func (m *memoryStore) Recent(_ context.Context, n int) ([]runner.RunReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n <= 0 || n > len(m.reps) {
		n = len(m.reps)
	}
	out := make([]runner.RunReport, n)
	copy(out, m.reps[len(m.reps)-n:])
	return out, nil
}

func (m *memoryStore) Close() error { return nil }
