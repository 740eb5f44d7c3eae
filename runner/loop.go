package runner

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	logx "cronrun/pkg/logx"
)

// loop is the scheduling core. It owns the jobs slice for its entire
// lifetime; nothing else may touch it after Run hands it over.
//
// Every cycle it evaluates all jobs in registration order, runs the
// eligible ones, then sleeps the poll interval. The stop channel is
// checked without blocking at the top of each cycle; context
// cancellation covers the forced-stop path and mid-sleep wakeup.
func (r *Runner) loop(ctx context.Context, stopCh <-chan struct{}, done chan struct{}, jobs []Job) {
	var inflight sync.WaitGroup

	defer func() {
		// Concurrent dispatch may still have handlers running when
		// the loop exits; Done must not close until they return.
		inflight.Wait()
		r.working.Store(false)
		r.mu.Lock()
		// Only reset control state if it still belongs to this loop;
		// the runner may already have been stopped and restarted.
		if r.done == done {
			r.running = false
			r.stopCh = nil
			r.cancel = nil
		}
		r.mu.Unlock()
		close(done)
		r.log.Debug("runner loop exited")
	}()

	r.log.Debug("runner loop started",
		logx.Int("jobs", len(jobs)),
		logx.Duration("poll", r.interval),
	)

	for {
		select {
		case <-stopCh:
			r.log.Info("runner loop stopping")
			return
		case <-ctx.Done():
			return
		default:
		}

		for slot, job := range jobs {
			now := time.Now()
			if !shouldRun(job, now, r.window) {
				continue
			}
			if !job.AllowParallelRuns() && r.tracker.Running(slot) {
				if r.skipWarns.Allow() {
					r.log.Warn("job still running; skipping this tick",
						logx.String("job", jobName(slot, job)))
				}
				continue
			}

			// Mark the slot before dispatch, not inside the invocation
			// goroutine: the next poll cycle may arrive before that
			// goroutine has been scheduled, and it must already see the
			// slot as running.
			r.tracker.Start(slot)
			r.working.Store(true)

			if r.concurrent {
				inflight.Add(1)
				go func(slot int, job Job) {
					defer inflight.Done()
					r.invoke(ctx, slot, job)
				}(slot, job)
			} else {
				r.invoke(ctx, slot, job)
			}
		}

		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-time.After(r.interval):
		}
	}
}

// invoke runs one handler invocation to completion. The loop has
// already marked the slot in the tracker and raised the working flag;
// invoke runs the handler under panic capture, then unmarks the slot
// and lowers the flag if no other slot is still marked.
func (r *Runner) invoke(ctx context.Context, slot int, job Job) {
	name := jobName(slot, job)

	started := time.Now()
	r.log.Debug("job started", logx.String("job", name), logx.Time("at", started))

	report := RunReport{Slot: slot, Name: name, Started: started}

	func() {
		// A handler fault must not kill scheduling for every other
		// job, so each invocation recovers its own panics.
		defer func() {
			if p := recover(); p != nil {
				report.Panic = fmt.Sprint(p)
				r.log.Error("job panicked",
					logx.String("job", name),
					logx.Any("panic", p),
					logx.String("stack", string(debug.Stack())),
				)
			}
		}()
		job.Handle(ctx)
	}()

	left := r.tracker.Stop(slot)
	r.working.Store(left != 0)

	report.Duration = time.Since(started)
	r.log.Debug("job finished",
		logx.String("job", name),
		logx.Duration("dur", report.Duration),
	)

	for _, s := range r.sinks {
		s.Record(report)
	}
}
