package check_test

import (
	"testing"
	"time"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain/check"
)

func TestNewOutcome_NoFailuresPasses(t *testing.T) {
	t.Parallel()

	o := check.NewOutcome("IMU", nil, time.Now(), time.Millisecond)

	if !o.Passed {
		t.Error("Passed = false, want true")
	}
	if o.Failures == nil {
		t.Error("Failures = nil, want empty non-nil slice")
	}
	if got := o.Messages(); len(got) != 0 {
		t.Errorf("Messages() = %v, want empty", got)
	}
}

func TestNewOutcome_FailuresFail(t *testing.T) {
	t.Parallel()

	o := check.NewOutcome("Camera", []check.Failure{
		{Message: "No main_camera camera images", Cause: check.CauseAbsent},
		{Message: "No main_camera camera info", Cause: check.CauseAbsent},
	}, time.Now(), time.Second)

	if o.Passed {
		t.Error("Passed = true, want false")
	}
	want := []string{"No main_camera camera images", "No main_camera camera info"}
	got := o.Messages()
	if len(got) != len(want) {
		t.Fatalf("len(Messages()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Messages()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReport_PassedAndFailed(t *testing.T) {
	t.Parallel()

	ok := check.NewOutcome("IMU", nil, time.Now(), 0)
	bad := check.NewOutcome("FCU", []check.Failure{{Message: "No connection to the FCU"}}, time.Now(), 0)

	tests := []struct {
		name       string
		outcomes   []check.Outcome
		wantPassed bool
		wantFailed int
	}{
		{name: "empty", outcomes: nil, wantPassed: true, wantFailed: 0},
		{name: "all passing", outcomes: []check.Outcome{ok, ok}, wantPassed: true, wantFailed: 0},
		{name: "one failing", outcomes: []check.Outcome{ok, bad, ok}, wantPassed: false, wantFailed: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := check.Report{Outcomes: tt.outcomes}
			if r.Passed() != tt.wantPassed {
				t.Errorf("Passed() = %v, want %v", r.Passed(), tt.wantPassed)
			}
			if got := len(r.Failed()); got != tt.wantFailed {
				t.Errorf("len(Failed()) = %d, want %d", got, tt.wantFailed)
			}
			if r.Len() != len(tt.outcomes) {
				t.Errorf("Len() = %d, want %d", r.Len(), len(tt.outcomes))
			}
		})
	}
}

func TestCause_String(t *testing.T) {
	t.Parallel()

	tests := map[check.Cause]string{
		check.CauseAbsent:         "absent",
		check.CauseOutOfTolerance: "out_of_tolerance",
		check.CauseInvalid:        "invalid",
		check.CauseCanceled:       "canceled",
		check.CauseInternal:       "internal",
		check.Cause(42):           "cause(42)",
	}
	for c, want := range tests {
		if got := c.String(); got != want {
			t.Errorf("Cause(%d).String() = %q, want %q", int(c), got, want)
		}
	}
}

func TestReport_Summary(t *testing.T) {
	t.Parallel()

	r := check.Report{
		Outcomes: []check.Outcome{
			check.NewOutcome("FCU", nil, time.Now(), 0),
			check.NewOutcome("IMU", []check.Failure{{Message: "No IMU data"}}, time.Now(), 0),
			check.NewOutcome("Camera", nil, time.Now(), 0),
		},
		Duration: 3140 * time.Millisecond,
	}

	want := "3 checks: 2 passed, 1 failed in 3.1s"
	if got := r.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestReport_SummarySingular(t *testing.T) {
	t.Parallel()

	r := check.Report{Outcomes: []check.Outcome{check.NewOutcome("FCU", nil, time.Now(), 0)}}

	want := "1 check: 1 passed, 0 failed in 0s"
	if got := r.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}
