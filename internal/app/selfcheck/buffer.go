package selfcheck

import (
	"fmt"
	"sync"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain/check"
)

// Buffer accumulates the failures recorded by one probe invocation, in the
// order they were recorded. A probe may record from several goroutines.
//
// Once the check wrapper seals the buffer, further writes are dropped: a probe
// that keeps running after it was abandoned can never change an outcome that
// has already been built.
type Buffer struct {
	mu       sync.Mutex
	failures []check.Failure
	sealed   bool
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Fail records one failure with message msg.
func (b *Buffer) Fail(cause check.Cause, msg string) {
	b.Add(check.Failure{Message: msg, Cause: cause})
}

// Failf records one failure with a formatted message.
func (b *Buffer) Failf(cause check.Cause, format string, args ...any) {
	b.Fail(cause, fmt.Sprintf(format, args...))
}

// Add records f.
func (b *Buffer) Add(f check.Failure) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sealed {
		return
	}
	b.failures = append(b.failures, f)
}

// Len returns the number of recorded failures.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.failures)
}

// Failures returns a copy of the recorded failures.
func (b *Buffer) Failures() []check.Failure {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]check.Failure(nil), b.failures...)
}

// Sealed reports whether the buffer no longer accepts failures.
func (b *Buffer) Sealed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sealed
}

// seal stops accepting failures and returns the final snapshot.
func (b *Buffer) seal() []check.Failure {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sealed = true
	return append([]check.Failure(nil), b.failures...)
}
