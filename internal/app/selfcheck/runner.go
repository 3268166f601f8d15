package selfcheck

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/app/fanout"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain/check"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/logging"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/telemetry"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/ports"
)

// Mode selects how a runner schedules the checks of a pass.
type Mode string

// Scheduling modes.
const (
	// ModeSequential runs checks one after another in registration order.
	ModeSequential Mode = "sequential"
	// ModeConcurrent runs checks on a bounded worker pool.
	ModeConcurrent Mode = "concurrent"
)

// ParseMode converts a configured mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSequential, ModeConcurrent:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown scheduling mode %q", s)
	}
}

const defaultMaxWorkers = 4

// Option configures a Runner.
type Option func(*Runner)

// WithMode sets the scheduling mode. Defaults to ModeSequential.
func WithMode(m Mode) Option {
	return func(r *Runner) {
		r.mode = m
	}
}

// WithMaxWorkers bounds the number of checks running at once in
// ModeConcurrent. Values below 1 are ignored.
func WithMaxWorkers(n int) Option {
	return func(r *Runner) {
		if n >= 1 {
			r.maxWorkers = n
		}
	}
}

// WithCheckTimeout bounds every check that has no timeout of its own.
func WithCheckTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.checkTimeout = d
	}
}

// WithMetrics records check and pass metrics. A nil value disables them.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// Runner executes every check in a registry and reports each outcome as soon
// as it completes. It never stops early: a pass over N checks always yields N
// outcomes.
type Runner struct {
	registry     *Registry
	reporter     ports.Reporter
	logger       *slog.Logger
	mode         Mode
	maxWorkers   int
	checkTimeout time.Duration
	metrics      *telemetry.Metrics
	tracer       trace.Tracer

	// emitMu keeps the lines of one outcome contiguous when checks finish
	// concurrently.
	emitMu sync.Mutex
}

// NewRunner creates a Runner over registry that streams outcomes to reporter.
func NewRunner(registry *Registry, reporter ports.Reporter, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		registry:   registry,
		reporter:   reporter,
		logger:     logger,
		mode:       ModeSequential,
		maxWorkers: defaultMaxWorkers,
		tracer:     otel.GetTracerProvider().Tracer(telemetry.InstrumentationName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Mode returns the configured scheduling mode.
func (r *Runner) Mode() Mode {
	return r.mode
}

// Run executes one full pass and returns its report. Outcomes in the report
// are in registration order in both modes. When ctx is canceled, checks that
// are waiting on a signal report the cancellation and checks that have not
// started report "Check canceled".
func (r *Runner) Run(ctx context.Context) check.Report {
	runID := uuid.NewString()
	start := time.Now()
	defs := r.registry.Definitions()

	logger := r.logger.With(slog.String("run_id", runID))
	ctx = logging.WithLogger(ctx, logger)

	ctx, span := r.tracer.Start(ctx, "selfcheck.pass",
		trace.WithAttributes(
			telemetry.AttrRunID.String(runID),
			telemetry.AttrMode.String(string(r.mode)),
			attribute.Int("selfcheck.checks", len(defs)),
		),
	)
	defer span.End()

	logger.InfoContext(ctx, "starting self-check pass",
		slog.String("mode", string(r.mode)),
		slog.Int("checks", len(defs)),
	)

	var outcomes []check.Outcome
	if r.mode == ModeConcurrent {
		outcomes = r.runConcurrent(ctx, defs)
	} else {
		outcomes = r.runSequential(ctx, defs)
	}

	report := check.Report{
		RunID:     runID,
		Outcomes:  outcomes,
		StartedAt: start,
		Duration:  time.Since(start),
	}

	failed := len(report.Failed())
	span.SetAttributes(
		attribute.Bool("selfcheck.passed", report.Passed()),
		attribute.Int("selfcheck.failed", failed),
	)
	if !report.Passed() {
		span.SetStatus(codes.Error, fmt.Sprintf("%d of %d checks failed", failed, report.Len()))
	}
	r.recordPass(ctx, report)

	logger.InfoContext(ctx, "self-check pass finished",
		slog.Bool("passed", report.Passed()),
		slog.Int("checks", report.Len()),
		slog.Int("failed", failed),
		slog.Duration("duration", report.Duration),
	)

	return report
}

func (r *Runner) runSequential(ctx context.Context, defs []Definition) []check.Outcome {
	outcomes := make([]check.Outcome, len(defs))
	for i, def := range defs {
		if err := ctx.Err(); err != nil {
			outcomes[i] = r.finish(ctx, canceledOutcome(def.Name, err))
			continue
		}
		outcomes[i] = r.runOne(ctx, def)
	}
	return outcomes
}

func (r *Runner) runConcurrent(ctx context.Context, defs []Definition) []check.Outcome {
	results := fanout.Run(ctx, r.maxWorkers, defs, func(ctx context.Context, def Definition) (check.Outcome, error) {
		return r.runOne(ctx, def), nil
	})

	// Checks that never got a worker slot are emitted after the ones that
	// ran, in registration order.
	outcomes := make([]check.Outcome, len(defs))
	for i, res := range results {
		if res.Err != nil {
			outcomes[i] = r.finish(ctx, canceledOutcome(defs[i].Name, res.Err))
			continue
		}
		outcomes[i] = res.Value
	}
	return outcomes
}

// runOne runs a single check inside its own span and emits the outcome.
func (r *Runner) runOne(ctx context.Context, def Definition) check.Outcome {
	if def.Timeout == 0 {
		def.Timeout = r.checkTimeout
	}

	attrs := []attribute.KeyValue{telemetry.AttrCheck.String(def.Name)}
	for k, v := range def.Labels {
		attrs = append(attrs, attribute.String("selfcheck.label."+k, v))
	}

	ctx, span := r.tracer.Start(ctx, "selfcheck.check "+def.Name, trace.WithAttributes(attrs...))
	defer span.End()

	o := RunIsolated(ctx, def)

	span.SetAttributes(
		attribute.Bool("selfcheck.passed", o.Passed),
		attribute.Int("selfcheck.failures", len(o.Failures)),
	)
	if !o.Passed {
		span.SetStatus(codes.Error, o.Failures[0].Message)
	}

	return r.finish(ctx, o)
}

// finish records metrics and logs for o and emits it to the reporter.
func (r *Runner) finish(ctx context.Context, o check.Outcome) check.Outcome {
	r.recordCheck(ctx, o)

	logger := logging.FromContext(ctx)
	if o.Passed {
		logger.DebugContext(ctx, "check passed",
			slog.String("check", o.Name),
			slog.Duration("duration", o.Duration),
		)
	} else {
		for _, f := range o.Failures {
			logger.DebugContext(ctx, "check failure",
				slog.String("check", o.Name),
				slog.String("cause", f.Cause.String()),
				slog.String("message", f.Message),
				slog.Any("error", f.Err),
			)
		}
	}

	r.emit(ctx, o)
	return o
}

// emit reports o. A panicking reporter is logged and the pass continues.
func (r *Runner) emit(ctx context.Context, o check.Outcome) {
	r.emitMu.Lock()
	defer r.emitMu.Unlock()

	defer func() {
		if v := recover(); v != nil {
			logging.FromContext(ctx).ErrorContext(ctx, "reporter panicked",
				slog.String("operation", "Runner.emit"),
				slog.String("check", o.Name),
				slog.Any("panic", v),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()
	EmitOutcome(ctx, r.reporter, o)
}

func (r *Runner) recordCheck(ctx context.Context, o check.Outcome) {
	if r.metrics == nil {
		return
	}

	attrs := metric.WithAttributes(
		telemetry.AttrCheck.String(o.Name),
		telemetry.AttrResult.String(result(o.Passed)),
	)
	r.metrics.CheckDuration.Record(ctx, o.Duration.Seconds(), attrs)
	r.metrics.CheckTotal.Add(ctx, 1, attrs)

	for _, f := range o.Failures {
		r.metrics.CheckFailureTotal.Add(ctx, 1, metric.WithAttributes(
			telemetry.AttrCheck.String(o.Name),
			telemetry.AttrCause.String(f.Cause.String()),
		))
	}
}

func (r *Runner) recordPass(ctx context.Context, report check.Report) {
	if r.metrics == nil {
		return
	}
	r.metrics.PassTotal.Add(ctx, 1, metric.WithAttributes(
		telemetry.AttrMode.String(string(r.mode)),
		telemetry.AttrResult.String(result(report.Passed())),
	))
}

func result(passed bool) string {
	if passed {
		return telemetry.ResultPass
	}
	return telemetry.ResultFail
}
