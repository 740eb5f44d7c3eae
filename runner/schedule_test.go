package runner

import (
	"testing"
	"time"
)

func TestParseSchedule(t *testing.T) {
	t.Parallel()

	t.Run("six field with seconds", func(t *testing.T) {
		sched, err := ParseSchedule("1/5 * * * * *")
		if err != nil {
			t.Fatalf("ParseSchedule: %v", err)
		}
		// Fires at seconds 1, 6, 11, ... of every minute.
		from := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
		want := time.Date(2026, 8, 25, 12, 0, 1, 0, time.UTC)
		if got := sched.Next(from); !got.Equal(want) {
			t.Fatalf("Next = %v, want %v", got, want)
		}
		if got := sched.Next(want); !got.Equal(want.Add(5 * time.Second)) {
			t.Fatalf("second fire = %v, want %v", got, want.Add(5*time.Second))
		}
	})

	t.Run("descriptor interval", func(t *testing.T) {
		sched, err := ParseSchedule("@every 5s")
		if err != nil {
			t.Fatalf("ParseSchedule: %v", err)
		}
		from := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
		if got := sched.Next(from); !got.Equal(from.Add(5 * time.Second)) {
			t.Fatalf("Next = %v, want %v", got, from.Add(5*time.Second))
		}
	})

	t.Run("fires four times in twenty seconds", func(t *testing.T) {
		sched := MustSchedule("1/5 * * * * *")
		from := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
		end := from.Add(20 * time.Second)
		fires := 0
		for next := sched.Next(from); !next.After(end); next = sched.Next(next) {
			fires++
		}
		if fires != 4 {
			t.Fatalf("fires = %d, want 4", fires)
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		for _, expr := range []string{"", "not a schedule", "61 * * * * *", "* * * *"} {
			if _, err := ParseSchedule(expr); err == nil {
				t.Fatalf("ParseSchedule(%q): expected error", expr)
			}
		}
	})
}

func TestMustSchedulePanics(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Fatal("MustSchedule must panic on an invalid expression")
		}
	}()
	MustSchedule("bogus")
}
