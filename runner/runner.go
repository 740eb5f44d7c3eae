package runner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	logx "cronrun/pkg/logx"
)

// DefaultPollInterval is the loop's sleep between poll cycles. Together
// with the matching ready window it bounds scheduling resolution.
const DefaultPollInterval = 100 * time.Millisecond

// Runner owns a set of jobs before start and the handles of the
// background scheduling loop after start.
//
// A Runner has two shapes over its lifetime. Unstarted, it holds an
// ordered job list (insertion order preserved, duplicates allowed).
// Started, the job list has been handed to the loop and is no longer
// reachable through the Runner; only control handles remain. Stopping
// returns it to the unstarted shape with an empty job list.
type Runner struct {
	mu      sync.Mutex
	jobs    []Job
	running bool

	stopCh chan struct{}
	cancel context.CancelFunc
	done   chan struct{}

	working atomic.Bool
	tracker *Tracker

	log        logx.Logger
	interval   time.Duration
	window     time.Duration
	concurrent bool
	sinks      []RunSink

	// Throttles overlap-skip warnings so a wedged handler cannot
	// flood the log while its slot stays marked.
	skipWarns *rate.Limiter
}

// New returns an unstarted Runner with an empty job list.
func New(opts ...Option) *Runner {
	r := &Runner{
		tracker:   NewTracker(),
		interval:  DefaultPollInterval,
		window:    DefaultReadyWindow,
		skipWarns: rate.NewLimiter(rate.Every(5*time.Second), 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add appends jobs to the runner. It is chainable and a silent no-op
// once the runner has started.
func (r *Runner) Add(jobs ...Job) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		r.jobs = append(r.jobs, jobs...)
	}
	return r
}

// JobsToRun returns the number of jobs waiting for Run. It is 0 once
// the runner has started, since the job list is owned by the loop.
func (r *Runner) JobsToRun() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}

// Run hands the job list to a newly spawned scheduling loop and
// returns the Runner for chaining. Running with an empty job list is a
// no-op that leaves the runner unstarted, as is calling Run twice.
//
// The loop runs until Stop is called or ctx is canceled. ctx is also
// the parent of the context handlers receive.
func (r *Runner) Run(ctx context.Context) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running || len(r.jobs) == 0 {
		return r
	}

	jobs := r.jobs
	r.jobs = nil

	loopCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.stopCh = make(chan struct{})
	r.done = make(chan struct{})
	r.running = true

	go r.loop(loopCtx, r.stopCh, r.done, jobs)
	return r
}

// Stop stops the scheduling loop: it closes the cooperative stop
// channel the loop checks once per cycle, then cancels the handler
// context so in-flight handlers are interrupted rather than waited
// for. It returns promptly without joining the loop; use Done to
// observe the drain. Stopping a runner that is not running is a no-op,
// as is a second Stop.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	r.running = false
	close(r.stopCh)
	r.cancel()
	r.stopCh = nil
	r.cancel = nil
}

// IsRunning reports whether the scheduling loop is live. It turns
// false on Stop, and also when the loop exits because the Run context
// was canceled.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// IsWorking reports whether at least one job handler is currently
// executing. It is advisory status, not a gate.
func (r *Runner) IsWorking() bool {
	return r.working.Load()
}

// Done returns a channel closed once the loop and every dispatched
// handler invocation have returned. For a runner that was never
// started it returns an already-closed channel.
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return r.done
}

// Tracker returns the tracker recording which job slots are currently
// executing.
func (r *Runner) Tracker() *Tracker { return r.tracker }
