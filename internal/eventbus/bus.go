// Package eventbus is a small in-memory fanout bus carrying job run
// events. It decouples the runner's sink callbacks from whatever wants
// to observe runs (status logging, future endpoints).
package eventbus

import (
	"sync"
	"sync/atomic"
	"time"

	"cronrun/runner"
)

// Event types published by the daemon.
const (
	TypeJobFinished = "job.finished"
	TypeJobPanicked = "job.panicked"
)

// Event is one job run observation.
//
// Contract:
//   - Publish MUST be non-blocking.
//   - Subscribers MUST use buffered channels.
//   - Slow subscribers may drop events (bounded backpressure).
type Event struct {
	Type   string
	Time   time.Time
	Report runner.RunReport
}

type Bus interface {
	Publish(e Event)
	Subscribe(buffer int) (ch <-chan Event, unsubscribe func())
}

// New returns a simple in-memory fanout bus. It owns no background
// goroutines.
func New() Bus {
	return &memBus{subs: map[uint64]chan Event{}}
}

type memBus struct {
	mu   sync.RWMutex
	subs map[uint64]chan Event
	seq  atomic.Uint64
}

func (b *memBus) Publish(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	// Snapshot subscribers so Publish doesn't hold locks while
	// attempting sends.
	b.mu.RLock()
	chs := make([]chan Event, 0, len(b.subs))
	for _, ch := range b.subs {
		chs = append(chs, ch)
	}
	b.mu.RUnlock()

	for _, ch := range chs {
		// Non-blocking delivery; if a subscriber unsubscribes
		// concurrently and the channel closes, recover from the send
		// panic.
		func() {
			defer func() { _ = recover() }()
			select {
			case ch <- e:
			default:
			}
		}()
	}
}

func (b *memBus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 8
	}
	ch := make(chan Event, buffer)
	id := b.seq.Add(1)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			// Closing is safe because Publish recovers from send
			// panics.
			close(ch)
		})
	}
	return ch, unsub
}

// SinkFor adapts the bus into a runner.RunSink, classifying each
// report as finished or panicked.
func SinkFor(b Bus) runner.RunSink { return busSink{b} }

type busSink struct{ bus Bus }

func (s busSink) Record(rep runner.RunReport) {
	typ := TypeJobFinished
	if rep.Panicked() {
		typ = TypeJobPanicked
	}
	s.bus.Publish(Event{Type: typ, Report: rep})
}
