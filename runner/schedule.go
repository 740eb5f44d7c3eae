package runner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// Schedule is the recurrence capability consumed by the Runner: given
// an instant, it answers the next fire time after it. It is the
// robfig/cron Schedule interface, re-exported so most callers never
// import the cron package directly.
type Schedule = cron.Schedule

// specParser accepts six-field cron expressions with seconds
// granularity ("1/5 * * * * *") plus descriptors ("@hourly",
// "@every 5s").
var specParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseSchedule parses a cron expression into a Schedule. Parse
// failures are a construction-time error, surfaced before the job is
// ever registered; they carry the offending expression.
func ParseSchedule(expr string) (Schedule, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return nil, errors.New("schedule expression required")
	}
	sched, err := specParser.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", expr, err)
	}
	return sched, nil
}

// MustSchedule is ParseSchedule for expressions known to be valid at
// compile time; it panics on error.
func MustSchedule(expr string) Schedule {
	sched, err := ParseSchedule(expr)
	if err != nil {
		panic(err)
	}
	return sched
}
