package logx

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newBufLogger(buf *bytes.Buffer, level string) Logger {
	zl := zerolog.New(buf).Level(parseLevel(level, zerolog.InfoLevel))
	return Logger{base: zl, hasBase: true}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestLevelsAndFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := newBufLogger(&buf, "info")

	log.Trace("t")
	log.Debug("d")
	log.Info("i")
	log.Warn("w")
	log.Error("e")

	lines := decodeLines(t, &buf)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (trace/debug filtered)", len(lines))
	}
	for i, want := range []string{"info", "warn", "error"} {
		if lines[i]["level"] != want {
			t.Fatalf("lines[%d].level = %v, want %s", i, lines[i]["level"], want)
		}
	}
}

func TestTraceLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := newBufLogger(&buf, "trace")

	log.Trace("fine grained")
	lines := decodeLines(t, &buf)
	if len(lines) != 1 || lines[0]["message"] != "fine grained" {
		t.Fatalf("trace line missing: %v", lines)
	}
}

func TestFields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := newBufLogger(&buf, "debug")

	log.Info("fields",
		String("s", "v"),
		Int("i", 7),
		Int64("i64", int64(1<<40)),
		Bool("b", true),
		Duration("dur", 250*time.Millisecond),
		Time("at", time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)),
		Any("any", []string{"x"}),
		Err(errors.New("boom")),
	)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	m := lines[0]
	if m["s"] != "v" {
		t.Fatalf("s = %v", m["s"])
	}
	if m["i"] != float64(7) {
		t.Fatalf("i = %v", m["i"])
	}
	if m["i64"] != float64(1<<40) {
		t.Fatalf("i64 = %v", m["i64"])
	}
	if m["b"] != true {
		t.Fatalf("b = %v", m["b"])
	}
	for _, key := range []string{"dur", "at", "any"} {
		if _, ok := m[key]; !ok {
			t.Fatalf("missing field %q in %v", key, m)
		}
	}
	if m[zerolog.ErrorFieldName] != "boom" {
		t.Fatalf("err field = %v", m[zerolog.ErrorFieldName])
	}
	if _, ok := m[zerolog.CallerFieldName]; !ok {
		t.Fatalf("missing caller field in %v", m)
	}
}

func TestErrNilIsOmitted(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := newBufLogger(&buf, "debug")

	log.Info("no error", Err(nil))
	m := decodeLines(t, &buf)[0]
	if _, ok := m[zerolog.ErrorFieldName]; ok {
		t.Fatalf("nil error must not be logged: %v", m)
	}
}

func TestWithCarriesFixedFields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := newBufLogger(&buf, "debug").With(String("svc", "runner"))

	log.Info("one")
	log.Info("two", Int("n", 2))

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	for i, m := range lines {
		if m["svc"] != "runner" {
			t.Fatalf("lines[%d] missing fixed field: %v", i, m)
		}
	}
	if lines[1]["n"] != float64(2) {
		t.Fatalf("call-site field lost: %v", lines[1])
	}
}

func TestEnabled(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := newBufLogger(&buf, "warn")

	if log.Enabled(LevelDebug) || log.Enabled(LevelInfo) {
		t.Fatal("debug/info must be disabled at warn level")
	}
	if !log.Enabled(LevelWarn) || !log.Enabled(LevelError) {
		t.Fatal("warn/error must be enabled at warn level")
	}
}

func TestZeroAndNop(t *testing.T) {
	t.Parallel()

	var zero Logger
	if !zero.IsZero() {
		t.Fatal("zero Logger must report IsZero")
	}
	// Must not panic, must not write anywhere.
	zero.Info("dropped", String("k", "v"))

	nop := Nop()
	if nop.IsZero() {
		t.Fatal("Nop is configured, not zero")
	}
	nop.Error("dropped")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{" info ", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tc := range tests {
		if got := parseLevel(tc.in, zerolog.InfoLevel); got != tc.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
