// Package check defines the result types of a self-check pass: individual
// failures, the per-check outcome and the ordered report for a whole pass.
package check

import (
	"fmt"
	"time"
)

// Cause classifies why a failure was recorded. Messages stay human-readable;
// the cause lets callers group failures without parsing text.
type Cause int

const (
	// CauseAbsent means a signal or service was not observed within its
	// timeout, or the subsystem reported it is not connected.
	CauseAbsent Cause = iota
	// CauseOutOfTolerance means a value was observed but outside the
	// acceptable range.
	CauseOutOfTolerance
	// CauseInvalid means a value was observed but could not be decoded.
	CauseInvalid
	// CauseCanceled means the pass was canceled while the check was waiting.
	CauseCanceled
	// CauseInternal means the probe itself failed (returned an error or
	// panicked). It indicates a defect in the check, not in the vehicle.
	CauseInternal
)

// String returns the lowercase name used in logs and metrics.
func (c Cause) String() string {
	switch c {
	case CauseAbsent:
		return "absent"
	case CauseOutOfTolerance:
		return "out_of_tolerance"
	case CauseInvalid:
		return "invalid"
	case CauseCanceled:
		return "canceled"
	case CauseInternal:
		return "internal"
	default:
		return fmt.Sprintf("cause(%d)", int(c))
	}
}

// Severity is the level a reporter renders a line at.
type Severity int

const (
	// SeverityInfo is used for passing checks.
	SeverityInfo Severity = iota
	// SeverityWarning is used for every failure message of a failing check.
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "info"
}

// Failure is one detected problem. Message is the operator-facing text and is
// never modified after creation.
type Failure struct {
	Message string
	Cause   Cause
	// Err is the underlying error, if any. It is logged but never replaces
	// Message in reports.
	Err error
}

// Outcome is the result of running one check.
type Outcome struct {
	Name      string
	Passed    bool
	Failures  []Failure
	StartedAt time.Time
	Duration  time.Duration
}

// NewOutcome builds an Outcome. Passed is derived from failures so the two
// can never disagree.
func NewOutcome(name string, failures []Failure, startedAt time.Time, d time.Duration) Outcome {
	if failures == nil {
		failures = []Failure{}
	}
	return Outcome{
		Name:      name,
		Passed:    len(failures) == 0,
		Failures:  failures,
		StartedAt: startedAt,
		Duration:  d,
	}
}

// Messages returns the failure messages in the order they were recorded.
func (o Outcome) Messages() []string {
	msgs := make([]string, len(o.Failures))
	for i, f := range o.Failures {
		msgs[i] = f.Message
	}
	return msgs
}

// Report is the ordered set of outcomes for one pass. Outcomes are always in
// registration order regardless of how the checks were scheduled.
type Report struct {
	RunID     string
	Outcomes  []Outcome
	StartedAt time.Time
	Duration  time.Duration
}

// Len returns the number of outcomes in the report.
func (r Report) Len() int {
	return len(r.Outcomes)
}

// Passed reports whether every check in the pass passed. An empty report
// passes.
func (r Report) Passed() bool {
	for _, o := range r.Outcomes {
		if !o.Passed {
			return false
		}
	}
	return true
}

// Failed returns the failing outcomes in registration order.
func (r Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if !o.Passed {
			failed = append(failed, o)
		}
	}
	return failed
}

// Summary returns a one-line account of the pass, for example
// "8 checks: 6 passed, 2 failed in 3.1s".
func (r Report) Summary() string {
	failed := len(r.Failed())
	noun := "checks"
	if r.Len() == 1 {
		noun = "check"
	}
	return fmt.Sprintf("%d %s: %d passed, %d failed in %s",
		r.Len(), noun, r.Len()-failed, failed, r.Duration.Round(100*time.Millisecond))
}
