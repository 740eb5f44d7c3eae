package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	logx "cronrun/pkg/logx"
	"cronrun/runner"
)

func report(name string, slot int) runner.RunReport {
	return runner.RunReport{
		Slot:     slot,
		Name:     name,
		Started:  time.Now(),
		Duration: 5 * time.Millisecond,
	}
}

func TestOpenDrivers(t *testing.T) {
	t.Parallel()
	log := logx.Nop()

	st, err := Open(Config{Driver: "none"}, log)
	if err != nil || st != nil {
		t.Fatalf("Open(none) = (%v, %v), want (nil, nil)", st, err)
	}

	for _, driver := range []string{"", "memory"} {
		st, err := Open(Config{Driver: driver}, log)
		if err != nil {
			t.Fatalf("Open(%q): %v", driver, err)
		}
		if st == nil {
			t.Fatalf("Open(%q) returned a nil store", driver)
		}
		_ = st.Close()
	}

	if _, err := Open(Config{Driver: "postgres"}, log); err == nil {
		t.Fatal("Open must reject unknown drivers")
	}
}

func TestMemoryAppendRecent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newMemory(Config{Capacity: 10})

	got, err := st.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("Recent on empty store: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Recent on empty store = %d reports, want 0", len(got))
	}

	for i := 0; i < 5; i++ {
		if err := st.Append(ctx, report(fmt.Sprintf("job-%d", i), i)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err = st.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Recent(3) = %d reports, want 3", len(got))
	}
	// Oldest-first within the newest three.
	for i, want := range []string{"job-2", "job-3", "job-4"} {
		if got[i].Name != want {
			t.Fatalf("Recent[%d].Name = %q, want %q", i, got[i].Name, want)
		}
	}

	// n <= 0 and n beyond size both return everything.
	for _, n := range []int{0, -1, 100} {
		got, err = st.Recent(ctx, n)
		if err != nil {
			t.Fatalf("Recent(%d): %v", n, err)
		}
		if len(got) != 5 {
			t.Fatalf("Recent(%d) = %d reports, want 5", n, len(got))
		}
	}
}

func TestMemoryCapacityTrim(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newMemory(Config{Capacity: 3})

	for i := 0; i < 10; i++ {
		if err := st.Append(ctx, report(fmt.Sprintf("job-%d", i), i)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := st.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("store kept %d reports, want 3", len(got))
	}
	for i, want := range []string{"job-7", "job-8", "job-9"} {
		if got[i].Name != want {
			t.Fatalf("Recent[%d].Name = %q, want %q", i, got[i].Name, want)
		}
	}
}

func TestSinkRecords(t *testing.T) {
	t.Parallel()
	st := newMemory(Config{})
	sink := Sink(st, logx.Nop())

	sink.Record(report("tick", 0))
	got, err := st.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 || got[0].Name != "tick" {
		t.Fatalf("sink did not append: %+v", got)
	}

	// A nil store must be a silent no-op.
	Sink(nil, logx.Nop()).Record(report("tick", 0))
}
