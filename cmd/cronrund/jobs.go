package main

import (
	"context"
	"fmt"

	"github.com/coreos/go-systemd/v22/daemon"

	"cronrun/internal/config"
	logx "cronrun/pkg/logx"
	"cronrun/runner"
)

// messageJob logs a configured message on its schedule. It is the
// daemon's demonstration workload.
type messageJob struct {
	runner.Base

	name     string
	sched    runner.Schedule
	msg      string
	active   bool
	parallel bool
	log      logx.Logger
}

func (j *messageJob) Name() string              { return j.name }
func (j *messageJob) IsActive() bool            { return j.active }
func (j *messageJob) AllowParallelRuns() bool   { return j.parallel }
func (j *messageJob) Schedule() runner.Schedule { return j.sched }

func (j *messageJob) Handle(ctx context.Context) {
	j.log.Info(j.msg, logx.String("job", j.name), logx.Time("at", j.Now()))
}

func buildJobs(cfg *config.Config, log logx.Logger) ([]runner.Job, error) {
	jobs := make([]runner.Job, 0, len(cfg.Jobs))
	for i, jc := range cfg.Jobs {
		sched, err := runner.ParseSchedule(jc.Schedule)
		if err != nil {
			return nil, fmt.Errorf("jobs[%d] (%s): %w", i, jc.Name, err)
		}
		active := true
		if jc.Active != nil {
			active = *jc.Active
		}
		msg := jc.Message
		if msg == "" {
			msg = "job tick"
		}
		jobs = append(jobs, &messageJob{
			name:     jc.Name,
			sched:    sched,
			msg:      msg,
			active:   active,
			parallel: jc.AllowParallel,
			log:      log,
		})
	}
	return jobs, nil
}

// watchdogJob keeps systemd's watchdog fed. It is scheduled on the
// runner like any other job, at half the configured watchdog interval.
type watchdogJob struct {
	runner.Base

	sched runner.Schedule
	log   logx.Logger
}

func (j *watchdogJob) Name() string              { return "systemd-watchdog" }
func (j *watchdogJob) Schedule() runner.Schedule { return j.sched }

func (j *watchdogJob) Handle(ctx context.Context) {
	if _, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog); err != nil {
		j.log.Warn("systemd watchdog notify failed", logx.Err(err))
	}
}

// newWatchdogJob returns a watchdog job when the process runs under a
// systemd unit with WatchdogSec set; otherwise ok is false.
func newWatchdogJob(log logx.Logger) (runner.Job, bool) {
	wd, err := daemon.SdWatchdogEnabled(false)
	if err != nil || wd <= 0 {
		return nil, false
	}
	sched, err := runner.ParseSchedule("@every " + (wd / 2).String())
	if err != nil {
		log.Warn("systemd watchdog schedule rejected", logx.Err(err))
		return nil, false
	}
	return &watchdogJob{sched: sched, log: log}, true
}
