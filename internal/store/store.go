// Package store keeps a bounded history of job runs for the daemon's
// observability. The default backend is an in-memory ring; a sqlite
// backend is available behind the "sqlite" build tag. Scheduler state
// is never persisted here; these are run reports only.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	logx "cronrun/pkg/logx"
	"cronrun/runner"
)

// DefaultCapacity bounds in-memory history so long-running daemons
// don't slowly retain memory.
const DefaultCapacity = 200

// Config configures run-history storage.
//
// Driver values:
//   - "" or "memory": bounded in-memory ring (default)
//   - "none": history disabled
//   - "sqlite": SQLite database file (requires the sqlite build tag)
type Config struct {
	Driver      string
	Path        string
	Capacity    int
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Store is the minimal run-history API used by the daemon.
type Store interface {
	Append(ctx context.Context, rep runner.RunReport) error
	Recent(ctx context.Context, n int) ([]runner.RunReport, error)
	Close() error
}

// Open initializes the configured store. It returns (nil, nil) when
// history is disabled.
func Open(cfg Config, log logx.Logger) (Store, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "none":
		return nil, nil
	case "", "memory":
		return newMemory(cfg), nil
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown history driver: " + cfg.Driver)
	}
}

// Sink adapts a Store into a runner.RunSink. Append errors are logged,
// never propagated into the scheduling loop.
func Sink(st Store, log logx.Logger) runner.RunSink {
	return storeSink{st: st, log: log}
}

type storeSink struct {
	st  Store
	log logx.Logger
}

func (s storeSink) Record(rep runner.RunReport) {
	if s.st == nil {
		return
	}
	if err := s.st.Append(context.Background(), rep); err != nil {
		s.log.Warn("run history append failed",
			logx.String("job", rep.Name), logx.Err(err))
	}
}
