// Package health runs the readiness checks of the telemetry bridge. Any
// ports.Pinger can be registered under a name: the simulator reports its
// last tick, the Kafka mirror reports broker reachability.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/ports"
)

// Compile-time interface check.
var _ ports.HealthRegistry = (*Registry)(nil)

const defaultCheckTimeout = 2 * time.Second

type entry struct {
	name string
	p    ports.Pinger
}

// Registry is a thread-safe implementation of [ports.HealthRegistry].
type Registry struct {
	mu      sync.RWMutex
	entries []entry
	timeout time.Duration
}

// New creates an empty registry. Each check gets at most timeout; zero
// selects two seconds.
func New(timeout time.Duration) *Registry {
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}
	return &Registry{timeout: timeout}
}

// Register adds a named check. Registering a name twice replaces the
// earlier check.
func (r *Registry) Register(name string, p ports.Pinger) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.entries {
		if r.entries[i].name == name {
			r.entries[i].p = p
			return
		}
	}
	r.entries = append(r.entries, entry{name: name, p: p})
}

// CheckAll runs all checks concurrently, each under its own timeout, and
// returns results keyed by name. The entries are copied under a read lock
// so checks run without holding it.
func (r *Registry) CheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	entries := make([]entry, len(r.entries))
	copy(entries, r.entries)
	r.mu.RUnlock()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]error, len(entries))
	)
	for _, e := range entries {
		wg.Add(1)
		go func() {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()
			err := e.p.Ping(checkCtx)

			mu.Lock()
			results[e.name] = err
			mu.Unlock()
		}()
	}
	wg.Wait()
	return results
}
