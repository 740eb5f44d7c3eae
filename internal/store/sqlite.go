//go:build sqlite
// +build sqlite

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	logx "cronrun/pkg/logx"
	"cronrun/runner"
)

const schema = `
CREATE TABLE IF NOT EXISTS job_runs (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	slot     INTEGER NOT NULL,
	name     TEXT    NOT NULL,
	started  INTEGER NOT NULL, -- unix micros
	duration INTEGER NOT NULL, -- nanos
	panic    TEXT    NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS job_runs_started ON job_runs (started);
`

type sqliteStore struct {
	db  *sql.DB
	log logx.Logger
	cap int
}

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite history path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if cfg.BusyTimeout > 0 {
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &sqliteStore{db: db, log: log, cap: capacity}, nil
}

func (s *sqliteStore) Append(ctx context.Context, rep runner.RunReport) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO job_runs (slot, name, started, duration, panic) VALUES (?, ?, ?, ?, ?)`,
		rep.Slot, rep.Name, rep.Started.UnixMicro(), int64(rep.Duration), rep.Panic,
	)
	if err != nil {
		return err
	}
	// Keep the table bounded; best-effort prune of the oldest rows.
	_, err = s.db.ExecContext(ctx,
		`DELETE FROM job_runs WHERE id NOT IN (SELECT id FROM job_runs ORDER BY id DESC LIMIT ?)`,
		s.cap,
	)
	return err
}

func (s *sqliteStore) Recent(ctx context.Context, n int) ([]runner.RunReport, error) {
	if n <= 0 {
		n = s.cap
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT slot, name, started, duration, panic FROM job_runs ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []runner.RunReport
	for rows.Next() {
		var rep runner.RunReport
		var started, dur int64
		if err := rows.Scan(&rep.Slot, &rep.Name, &started, &dur, &rep.Panic); err != nil {
			return nil, err
		}
		rep.Started = time.UnixMicro(started)
		rep.Duration = time.Duration(dur)
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Oldest first, matching the memory backend.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
