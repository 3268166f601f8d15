package selfcheck

import "context"

// Probe is one unit of check logic. It queries signal sources and records a
// failure in buf for every fact that does not hold.
//
// Expected conditions (absent data, timeouts, values out of tolerance) are
// recorded in buf and never returned. A returned error means the probe itself
// is broken; the check wrapper turns it into a single internal failure.
type Probe interface {
	Probe(ctx context.Context, buf *Buffer) error
}

// ProbeFunc adapts an ordinary function to the Probe interface.
type ProbeFunc func(ctx context.Context, buf *Buffer) error

// Probe calls f(ctx, buf).
func (f ProbeFunc) Probe(ctx context.Context, buf *Buffer) error {
	return f(ctx, buf)
}
