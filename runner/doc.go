// Package runner provides an in-process cron job runner for long-running
// host processes (servers, daemons) that need lightweight periodic work
// without an external scheduler.
//
// # Overview
//
// Callers implement the Job interface, register jobs on a Runner, and
// start it with Run. The Runner spawns a single background loop that
// polls every job on a fixed cadence and invokes a job's handler when
// its next scheduled fire time is imminent.
//
//	type helloJob struct{ runner.Base }
//
//	func (helloJob) Schedule() runner.Schedule { return runner.MustSchedule("1/5 * * * * *") }
//	func (helloJob) Handle(ctx context.Context) { fmt.Println("hello") }
//
//	r := runner.New().Add(helloJob{}).Run(ctx)
//	defer r.Stop()
//
// # Readiness
//
// A job is ready when it is active, has a schedule, and the schedule's
// next fire time is within the ready window (100ms by default). The
// window is matched to the poll interval so a tick landing between two
// polls is still caught by the next poll before it passes. Scheduling
// resolution is therefore bounded by the poll interval; this is not a
// millisecond-exact scheduler.
//
// # Overlap
//
// Each job slot is tracked while its handler runs. A job whose previous
// invocation has not returned is skipped, unless it reports
// AllowParallelRuns. Tracking is per slot: two jobs sharing a schedule
// never interfere with each other's overlap state.
//
// # Dispatch
//
// By default eligible handlers run sequentially on the loop goroutine,
// so a slow handler delays later jobs within the same poll cycle.
// WithConcurrentDispatch runs each eligible invocation on its own
// goroutine instead.
//
// # Stopping
//
// Stop closes a cooperative stop channel checked once per cycle and
// cancels the context passed to handlers, then returns without waiting.
// Handlers that honor their context exit promptly; Done reports when
// the loop and all dispatched handlers have drained. A stopped Runner
// is equivalent to a fresh one with an empty job list and may be
// reloaded with Add and started again.
package runner
