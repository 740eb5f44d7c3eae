package runner

import (
	"sync"
	"testing"
)

func TestTrackerStartStop(t *testing.T) {
	t.Parallel()
	tr := NewTracker()

	if tr.Running(0) {
		t.Fatal("fresh tracker must report nothing running")
	}
	if got := tr.Start(0); got != 1 {
		t.Fatalf("Start(0) = %d, want 1", got)
	}
	if !tr.Running(0) {
		t.Fatal("slot 0 must be running after Start")
	}
	if got := tr.Start(1); got != 2 {
		t.Fatalf("Start(1) = %d, want 2", got)
	}

	if got := tr.Stop(0); got != 1 {
		t.Fatalf("Stop(0) = %d, want 1", got)
	}
	if tr.Running(0) {
		t.Fatal("slot 0 must not be running after Stop")
	}
	if !tr.Running(1) {
		t.Fatal("slot 1 must be unaffected by Stop(0)")
	}
	if got := tr.Stop(1); got != 0 {
		t.Fatalf("Stop(1) = %d, want 0", got)
	}
}

func TestTrackerIdempotent(t *testing.T) {
	t.Parallel()
	tr := NewTracker()

	tr.Start(3)
	if got := tr.Start(3); got != 1 {
		t.Fatalf("repeated Start = %d, want 1", got)
	}
	if got := tr.Len(); got != 1 {
		t.Fatalf("Len = %d, want 1", got)
	}

	tr.Stop(3)
	if got := tr.Stop(3); got != 0 {
		t.Fatalf("repeated Stop = %d, want 0", got)
	}
	if got := tr.Stop(99); got != 0 {
		t.Fatalf("Stop of unknown slot = %d, want 0", got)
	}
}

func TestTrackerConcurrent(t *testing.T) {
	t.Parallel()
	tr := NewTracker()

	var wg sync.WaitGroup
	for slot := 0; slot < 16; slot++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				tr.Start(slot)
				tr.Running(slot)
				tr.Stop(slot)
			}
		}(slot)
	}
	wg.Wait()

	if got := tr.Len(); got != 0 {
		t.Fatalf("Len after all stops = %d, want 0", got)
	}
}
