// Package reporter renders check results for operators. LogReporter writes
// structured log records, ConsoleReporter writes plain lines to a terminal
// and Multi fans out to several reporters.
package reporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain/check"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/logging"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/ports"
)

// LogReporter emits one slog record per line. Passing checks are logged at
// info, failure messages at warn.
type LogReporter struct {
	logger *slog.Logger
}

// NewLog creates a LogReporter. A nil logger defers to the logger carried by
// the Emit context.
func NewLog(logger *slog.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

// Emit implements ports.Reporter.
func (r *LogReporter) Emit(ctx context.Context, name string, severity check.Severity, message string) {
	logger := r.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	level := slog.LevelInfo
	if severity == check.SeverityWarning {
		level = slog.LevelWarn
	}

	logger.LogAttrs(ctx, level, name+": "+message,
		slog.String("check", name),
		slog.String("severity", severity.String()),
	)
}

// ConsoleReporter writes "LEVEL check: message" lines to w. Lines from
// concurrent callers never interleave.
type ConsoleReporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole creates a ConsoleReporter writing to w.
func NewConsole(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{w: w}
}

// Emit implements ports.Reporter. Write errors are dropped: there is nowhere
// left to report them.
func (r *ConsoleReporter) Emit(_ context.Context, name string, severity check.Severity, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintf(r.w, "%-5s %s: %s\n", consoleLevel(severity), name, message)
}

func consoleLevel(s check.Severity) string {
	if s == check.SeverityWarning {
		return "WARN"
	}
	return strings.ToUpper(s.String())
}

// Multi forwards every line to each reporter in order.
type Multi []ports.Reporter

// Emit implements ports.Reporter.
func (m Multi) Emit(ctx context.Context, name string, severity check.Severity, message string) {
	for _, r := range m {
		r.Emit(ctx, name, severity, message)
	}
}
