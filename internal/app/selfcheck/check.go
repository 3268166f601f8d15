// Package selfcheck runs vehicle self-check passes. It owns the check
// isolation wrapper, the ordered check registry, the sequential and
// concurrent runners, and the timeout-bounded signal query helpers probes
// are written with.
package selfcheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain/check"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/logging"
)

// AbandonGrace is how long the wrapper waits for a probe to return after its
// context is done before abandoning it.
const AbandonGrace = 250 * time.Millisecond

// errCheckTimeout is the cause attached to a probe context whose check
// timeout elapsed, as opposed to a canceled pass.
var errCheckTimeout = errors.New("check timeout")

// Definition is a named, immutable check registration.
type Definition struct {
	// Name is the operator-facing check name, unique within a registry.
	Name string
	// Probe is the check logic. Parameters are bound at construction.
	Probe Probe
	// Timeout bounds the whole probe. Zero leaves the probe bounded only by
	// its own queries and the pass context.
	Timeout time.Duration
	// Labels are display parameters (such as the camera name) attached to
	// logs and spans.
	Labels map[string]string
}

// panicError carries a recovered probe panic.
type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprint(e.value)
}

// RunIsolated runs def's probe against a fresh buffer and returns exactly one
// outcome. A probe error or panic becomes a single internal failure. A probe
// that has not returned within AbandonGrace after its context is done is
// abandoned with a timeout or cancellation failure; its later writes are
// dropped.
func RunIsolated(ctx context.Context, def Definition) check.Outcome {
	start := time.Now()
	buf := NewBuffer()
	ctx = logging.WithAttrs(ctx, slog.String("check", def.Name))
	logger := logging.FromContext(ctx)

	parent := ctx
	if def.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, def.Timeout, errCheckTimeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- &panicError{value: r, stack: debug.Stack()}
			}
		}()
		done <- def.Probe.Probe(ctx, buf)
	}()

	select {
	case err := <-done:
		recordProbeError(ctx, parent, def.Timeout, logger, buf, err)
	case <-ctx.Done():
		grace := time.NewTimer(AbandonGrace)
		defer grace.Stop()

		select {
		case err := <-done:
			recordProbeError(ctx, parent, def.Timeout, logger, buf, err)
		case <-grace.C:
			f := interruptFailure(parent, def.Timeout)
			logger.WarnContext(ctx, "abandoning check",
				slog.String("operation", "RunIsolated"),
				slog.String("reason", f.Message),
			)
			buf.Add(f)
		}
	}

	return check.NewOutcome(def.Name, buf.seal(), start, time.Since(start))
}

// recordProbeError converts a probe defect into one internal failure. A probe
// that merely propagates its own context error is reported as interrupted.
func recordProbeError(
	ctx, parent context.Context, timeout time.Duration, logger *slog.Logger, buf *Buffer, err error,
) {
	if err == nil {
		return
	}

	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		if buf.Len() == 0 {
			buf.Add(interruptFailure(parent, timeout))
		}
		return
	}

	attrs := []any{
		slog.String("operation", "RunIsolated"),
		slog.Any("error", err),
	}
	var perr *panicError
	if errors.As(err, &perr) {
		attrs = append(attrs, slog.String("stack", string(perr.stack)))
	}
	logger.ErrorContext(ctx, "check probe failed", attrs...)

	buf.Add(check.Failure{
		Message: fmt.Sprintf("Internal check error: %v", err),
		Cause:   check.CauseInternal,
		Err:     err,
	})
}

// interruptFailure describes why an unresponsive probe was abandoned. The
// check's own timeout applies only when the pass context is still live.
func interruptFailure(parent context.Context, timeout time.Duration) check.Failure {
	if parent.Err() == nil && timeout > 0 {
		return check.Failure{
			Message: fmt.Sprintf("Check timed out after %s", timeout),
			Cause:   check.CauseAbsent,
			Err:     context.DeadlineExceeded,
		}
	}
	return check.Failure{Message: "Check canceled", Cause: check.CauseCanceled, Err: parent.Err()}
}

// canceledOutcome is the outcome of a check that never started because the
// pass was canceled first.
func canceledOutcome(name string, err error) check.Outcome {
	return check.NewOutcome(name, []check.Failure{{
		Message: "Check canceled",
		Cause:   check.CauseCanceled,
		Err:     err,
	}}, time.Now(), 0)
}
