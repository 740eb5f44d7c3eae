package runner

import "time"

// RunReport describes one completed handler invocation.
type RunReport struct {
	// Slot is the job's position in the runner's collection at start
	// time. It is stable only within one Run invocation.
	Slot int

	// Name is the job's NamedJob name, or "job-<n>" when unnamed.
	Name string

	Started  time.Time
	Duration time.Duration

	// Panic holds the recovered panic value when the handler
	// panicked; empty otherwise.
	Panic string
}

// Panicked reports whether the invocation ended in a recovered panic.
func (r RunReport) Panicked() bool { return r.Panic != "" }

// RunSink receives a report after every handler invocation. Record is
// called from the scheduling loop (or from the invocation goroutine
// under concurrent dispatch) and must not block.
type RunSink interface {
	Record(RunReport)
}
