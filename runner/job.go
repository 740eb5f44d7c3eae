package runner

import (
	"context"
	"strconv"
	"time"
)

// Job is a unit of recurring work. The Runner never constructs jobs; it
// only consumes them.
//
// Embed Base to inherit the default IsActive/AllowParallelRuns
// behavior and implement Schedule and Handle:
//
//	type pingJob struct{ runner.Base }
//
//	func (pingJob) Schedule() runner.Schedule  { return runner.MustSchedule("@every 30s") }
//	func (pingJob) Handle(ctx context.Context) { /* ... */ }
type Job interface {
	// IsActive gates the job. Inactive jobs are never fired.
	IsActive() bool

	// AllowParallelRuns reports whether a new invocation may start
	// while a previous one is still running. When false (the
	// default), the loop skips the job until the running handler
	// returns.
	AllowParallelRuns() bool

	// Schedule returns the job's recurrence rule. A nil schedule
	// means the job never fires.
	Schedule() Schedule

	// Handle is the job body. It may run arbitrarily long and may
	// carry internal state across invocations. The context is
	// canceled when the Runner stops; handlers needing cleanup must
	// watch it, since the Runner does not wait for them.
	Handle(ctx context.Context)
}

// NamedJob is an optional extension; the name is used in logs and run
// reports instead of the positional "job-<n>" fallback.
type NamedJob interface {
	Job
	Name() string
}

// Base provides the default Job behavior: always active, no parallel
// runs. It also offers Now as a convenience for handlers that want to
// print the time of the run.
type Base struct{}

func (Base) IsActive() bool          { return true }
func (Base) AllowParallelRuns() bool { return false }

// Now returns the current time.
func (Base) Now() time.Time { return time.Now() }

// DefaultReadyWindow is how close a job's next fire time must be for
// the job to be considered ready. It matches DefaultPollInterval so a
// tick landing between two polls is caught by the next one.
const DefaultReadyWindow = 100 * time.Millisecond

// ShouldRun reports whether j is ready to fire at now: the job is
// active, has a schedule, and the schedule's next fire time after now
// is within DefaultReadyWindow. This is a forward-looking check, so a
// job fires slightly before its nominal tick by construction.
func ShouldRun(j Job, now time.Time) bool {
	return shouldRun(j, now, DefaultReadyWindow)
}

func shouldRun(j Job, now time.Time, window time.Duration) bool {
	if !j.IsActive() {
		return false
	}
	sched := j.Schedule()
	if sched == nil {
		return false
	}
	next := sched.Next(now)
	if next.IsZero() {
		// The schedule has no future fire times.
		return false
	}
	return next.Sub(now) <= window
}

func jobName(slot int, j Job) string {
	if n, ok := j.(NamedJob); ok {
		if name := n.Name(); name != "" {
			return name
		}
	}
	return "job-" + strconv.Itoa(slot+1)
}
