package selfcheck_test

import (
	"context"
	"sync"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain/check"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain/signal"
)

// blockingSource never resolves and ignores its context.
type blockingSource struct {
	release chan struct{}
}

func newBlockingSource() *blockingSource {
	return &blockingSource{release: make(chan struct{})}
}

func (s *blockingSource) AwaitValue(context.Context, string) (signal.Sample, error) {
	<-s.release
	return signal.Sample{}, nil
}

func (s *blockingSource) AwaitService(context.Context, string) error {
	<-s.release
	return nil
}

func (s *blockingSource) Close() { close(s.release) }

type line struct {
	name     string
	severity check.Severity
	message  string
}

// recorder is a concurrency-safe Reporter that keeps every emitted line.
type recorder struct {
	mu    sync.Mutex
	lines []line
}

func (r *recorder) Emit(_ context.Context, name string, severity check.Severity, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line{name: name, severity: severity, message: message})
}

func (r *recorder) Lines() []line {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]line(nil), r.lines...)
}
