// cronrund is a small daemon hosting the cronrun runner: it loads jobs
// from a config file, runs them, and reports to systemd when present.
//
// Example config (YAML):
//
//	log:
//	  level: debug
//	runner:
//	  poll: 100ms
//	history:
//	  driver: memory
//	  capacity: 200
//	jobs:
//	  - name: hello
//	    schedule: "1/5 * * * * *"
//	    message: "hello from cronrund"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"cronrun/internal/config"
	"cronrun/internal/eventbus"
	"cronrun/internal/store"
	logx "cronrun/pkg/logx"
	"cronrun/runner"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "./cronrund.yaml", "path to config file (yaml or json)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	mgr := config.NewManager(cfgPath)
	cfg, err := mgr.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}

	logSvc, log := logx.New(cfg.LogxConfig())
	defer logSvc.Close()
	mgr.SetLogger(log)

	hist, err := store.Open(cfg.StoreConfig(), log)
	if err != nil {
		log.Error("run history init failed", logx.Err(err))
		os.Exit(1)
	}

	jobs, err := buildJobs(cfg, log)
	if err != nil {
		log.Error("job config rejected", logx.Err(err))
		os.Exit(1)
	}
	if wd, ok := newWatchdogJob(log); ok {
		jobs = append(jobs, wd)
		log.Info("systemd watchdog detected; feeding it from the runner")
	}

	bus := eventbus.New()

	opts := []runner.Option{
		runner.WithLogger(log),
		runner.WithPollInterval(cfg.PollInterval(runner.DefaultPollInterval)),
		runner.WithSink(eventbus.SinkFor(bus)),
	}
	if hist != nil {
		opts = append(opts, runner.WithSink(store.Sink(hist, log)))
	}
	if cfg.Runner.Concurrent {
		opts = append(opts, runner.WithConcurrentDispatch())
	}

	r := runner.New(opts...).Add(jobs...).Run(ctx)
	if !r.IsRunning() {
		log.Error("nothing to run; add jobs to the config")
		os.Exit(1)
	}
	log.Info("cronrund started", logx.Int("jobs", len(jobs)))

	// Run observations from the bus; panics are elevated.
	events, unsub := bus.Subscribe(64)
	go func() {
		for ev := range events {
			switch ev.Type {
			case eventbus.TypeJobPanicked:
				log.Warn("job run panicked",
					logx.String("job", ev.Report.Name),
					logx.String("panic", ev.Report.Panic))
			default:
				log.Debug("job run finished",
					logx.String("job", ev.Report.Name),
					logx.Duration("dur", ev.Report.Duration))
			}
		}
	}()

	// Config hot reload. Only the log section can change live; the job
	// set is owned by the running loop (restart to change it).
	sub := mgr.Subscribe(1)
	go func() { _ = mgr.Watch(ctx) }()
	go func() {
		for c := range sub {
			logSvc.Apply(c.LogxConfig())
			log.Info("log config applied; job changes require a restart")
		}
	}()

	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)

	<-ctx.Done()
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	log.Info("shutting down")

	r.Stop()
	select {
	case <-r.Done():
	case <-time.After(5 * time.Second):
		log.Warn("runner did not drain in time")
	}

	unsub()
	mgr.Unsubscribe(sub)
	if hist != nil {
		_ = hist.Close()
	}
}
