// Package config loads and watches the cronrund daemon configuration.
//
// Files may be YAML or JSON; YAML is coerced to JSON so both formats go
// through the same strict decoder (unknown fields are rejected).
package config

import (
	"fmt"
	"strings"
	"time"

	"cronrun/internal/store"
	logx "cronrun/pkg/logx"
)

type Config struct {
	Log     LogConfig     `json:"log"`
	Runner  RunnerConfig  `json:"runner"`
	History HistoryConfig `json:"history"`
	Jobs    []JobConfig   `json:"jobs"`
}

type LogConfig struct {
	Level   string     `json:"level"`
	Console *bool      `json:"console"` // default true
	File    FileConfig `json:"file"`
}

type FileConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type RunnerConfig struct {
	Poll       string `json:"poll"`       // Go duration; default 100ms
	Concurrent bool   `json:"concurrent"` // goroutine per invocation
}

type HistoryConfig struct {
	Driver      string `json:"driver"` // "", "memory", "none", "sqlite"
	Path        string `json:"path"`
	Capacity    int    `json:"capacity"`
	BusyTimeout string `json:"busy_timeout"` // sqlite only
}

type JobConfig struct {
	Name          string `json:"name"`
	Schedule      string `json:"schedule"` // six-field cron or descriptor
	Message       string `json:"message"`
	Active        *bool  `json:"active"`         // default true
	AllowParallel bool   `json:"allow_parallel"` // default false
}

// Validate checks the fields that cannot be verified by decoding alone.
func (c *Config) Validate() error {
	if _, err := ParseDurationField("runner.poll", c.Runner.Poll); err != nil {
		return err
	}
	if _, err := ParseDurationField("history.busy_timeout", c.History.BusyTimeout); err != nil {
		return err
	}
	for i, j := range c.Jobs {
		if strings.TrimSpace(j.Name) == "" {
			return fmt.Errorf("jobs[%d]: name required", i)
		}
		if strings.TrimSpace(j.Schedule) == "" {
			return fmt.Errorf("jobs[%d] (%s): schedule required", i, j.Name)
		}
	}
	return nil
}

// LogxConfig converts the log section into the logx form.
func (c *Config) LogxConfig() logx.Config {
	console := true
	if c.Log.Console != nil {
		console = *c.Log.Console
	}
	return logx.Config{
		Level:   c.Log.Level,
		Console: console,
		File: logx.FileConfig{
			Enabled: c.Log.File.Enabled,
			Path:    c.Log.File.Path,
		},
	}
}

// PollInterval returns the configured poll interval, defaulting to def.
func (c *Config) PollInterval(def time.Duration) time.Duration {
	d, err := ParseDurationOrDefault("runner.poll", c.Runner.Poll, def)
	if err != nil {
		return def
	}
	return d
}

// StoreConfig converts the history section into the store form.
func (c *Config) StoreConfig() store.Config {
	busy, _ := ParseDurationField("history.busy_timeout", c.History.BusyTimeout)
	return store.Config{
		Driver:      c.History.Driver,
		Path:        c.History.Path,
		Capacity:    c.History.Capacity,
		BusyTimeout: busy,
	}
}
