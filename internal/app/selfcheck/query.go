package selfcheck

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain/check"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain/signal"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/ports"
)

// AwaitValue queries src for a sample on topic id, waiting at most timeout.
//
// The bound holds even when src ignores its context: the query runs in its
// own goroutine and AwaitValue returns as soon as the deadline passes. It
// returns an error wrapping signal.ErrTimeout when the query deadline passed,
// the context error when ctx itself was canceled, or the source error.
// A non-positive timeout leaves the query bounded by ctx alone.
func AwaitValue(ctx context.Context, src ports.SignalSource, id string, timeout time.Duration) (signal.Sample, error) {
	type result struct {
		sample signal.Sample
		err    error
	}

	qctx, cancel := queryContext(ctx, timeout)
	defer cancel()

	ch := make(chan result, 1)
	go func() {
		s, err := src.AwaitValue(qctx, id)
		ch <- result{sample: s, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return signal.Sample{}, queryError(ctx, qctx, id, r.err)
		}
		return r.sample, nil
	case <-qctx.Done():
		return signal.Sample{}, queryError(ctx, qctx, id, qctx.Err())
	}
}

// AwaitService queries src for the availability of service id, waiting at
// most timeout. Errors follow AwaitValue.
func AwaitService(ctx context.Context, src ports.SignalSource, id string, timeout time.Duration) error {
	qctx, cancel := queryContext(ctx, timeout)
	defer cancel()

	ch := make(chan error, 1)
	go func() {
		ch <- src.AwaitService(qctx, id)
	}()

	select {
	case err := <-ch:
		if err != nil {
			return queryError(ctx, qctx, id, err)
		}
		return nil
	case <-qctx.Done():
		return queryError(ctx, qctx, id, qctx.Err())
	}
}

// ExpectValue awaits a sample on topic id. When none arrives it records
// exactly one failure in buf and returns false. The failure is msg, unless
// the check was interrupted, in which case it says so.
func ExpectValue(
	ctx context.Context, buf *Buffer, src ports.SignalSource, id string, timeout time.Duration, msg string,
) (signal.Sample, bool) {
	s, err := AwaitValue(ctx, src, id, timeout)
	if err != nil {
		recordQueryFailure(ctx, buf, id, err, msg)
		return signal.Sample{}, false
	}
	return s, true
}

// ExpectValuef is ExpectValue with a formatted failure message.
func ExpectValuef(
	ctx context.Context, buf *Buffer, src ports.SignalSource, id string, timeout time.Duration,
	format string, args ...any,
) (signal.Sample, bool) {
	return ExpectValue(ctx, buf, src, id, timeout, fmt.Sprintf(format, args...))
}

// ExpectService awaits service id. When it is not offered in time it records
// exactly one failure in buf and returns false.
func ExpectService(
	ctx context.Context, buf *Buffer, src ports.SignalSource, id string, timeout time.Duration, msg string,
) bool {
	if err := AwaitService(ctx, src, id, timeout); err != nil {
		recordQueryFailure(ctx, buf, id, err, msg)
		return false
	}
	return true
}

// DecodeSample unmarshals s into v. A malformed payload is recorded in buf as
// an invalid-value failure and DecodeSample returns false.
func DecodeSample(buf *Buffer, s signal.Sample, v any) bool {
	if err := s.Decode(v); err != nil {
		buf.Add(check.Failure{
			Message: fmt.Sprintf("Malformed %s sample", s.ID),
			Cause:   check.CauseInvalid,
			Err:     err,
		})
		return false
	}
	return true
}

func queryContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// queryError classifies err. Cancellation of the caller's context wins over
// the query deadline, which wins over whatever the source reported.
func queryError(ctx, qctx context.Context, id string, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return fmt.Errorf("awaiting %s: %w", id, cerr)
	}
	if qctx.Err() != nil && (errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)) {
		return fmt.Errorf("awaiting %s: %w", id, signal.ErrTimeout)
	}
	return fmt.Errorf("awaiting %s: %w", id, err)
}

// recordQueryFailure records msg for a query that found nothing. When the
// check's own deadline ran out the signal is still reported absent; only a
// canceled pass is reported as a cancellation.
func recordQueryFailure(ctx context.Context, buf *Buffer, id string, err error, msg string) {
	if ctx.Err() != nil && !errors.Is(context.Cause(ctx), errCheckTimeout) {
		buf.Add(check.Failure{
			Message: "Check canceled while waiting for " + id,
			Cause:   check.CauseCanceled,
			Err:     err,
		})
		return
	}
	buf.Add(check.Failure{Message: msg, Cause: check.CauseAbsent, Err: err})
}
