package runner

import "sync"

// Tracker records which job slots are currently executing, keyed by the
// job's position in the runner's collection at start time.
//
// Exactly one loop mutates a given Tracker in the default setup, but
// reads may come from other goroutines (status endpoints, tests), so
// access follows a shared-read/exclusive-write discipline. A Tracker is
// never reset between runner start/stop cycles.
//
// Each Runner owns its own Tracker by default; pass one explicitly with
// WithTracker only when runners should deliberately share overlap
// state.
type Tracker struct {
	mu  sync.RWMutex
	ids map[int]struct{}
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{ids: map[int]struct{}{}}
}

// Running reports whether the slot is marked as executing.
func (t *Tracker) Running(slot int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.ids[slot]
	return ok
}

// Start marks the slot as executing (idempotent) and returns the
// resulting number of tracked slots.
func (t *Tracker) Start(slot int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ids[slot] = struct{}{}
	return len(t.ids)
}

// Stop unmarks the slot (idempotent) and returns the resulting number
// of tracked slots.
func (t *Tracker) Stop(slot int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.ids, slot)
	return len(t.ids)
}

// Len returns the number of slots currently marked as executing.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.ids)
}
