package runner

import (
	"time"

	logx "cronrun/pkg/logx"
)

// Option configures a Runner at construction time.
type Option func(*Runner)

// WithLogger sets the logger used by the loop. The zero logx.Logger is
// a safe no-op, so omitting this is fine.
func WithLogger(log logx.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// WithPollInterval sets how long the loop sleeps between poll cycles.
// The readiness window is set to the same value so jobs whose tick
// lands between two polls are still caught. Non-positive values are
// ignored.
func WithPollInterval(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.interval = d
			r.window = d
		}
	}
}

// WithTracker makes the Runner use a shared Tracker instead of its own.
// Use this only when multiple runners should deliberately share overlap
// state.
func WithTracker(t *Tracker) Option {
	return func(r *Runner) {
		if t != nil {
			r.tracker = t
		}
	}
}

// WithConcurrentDispatch runs each eligible handler invocation on its
// own goroutine instead of sequentially on the loop goroutine. The
// Tracker entry is released by that goroutine when the handler
// returns.
func WithConcurrentDispatch() Option {
	return func(r *Runner) { r.concurrent = true }
}

// WithSink registers a RunSink to receive a report after every handler
// invocation. May be given multiple times.
func WithSink(s RunSink) Option {
	return func(r *Runner) {
		if s != nil {
			r.sinks = append(r.sinks, s)
		}
	}
}
