package selfcheck

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Registration errors.
var (
	ErrInvalidDefinition = errors.New("invalid check definition")
	ErrDuplicateCheck    = errors.New("duplicate check name")
)

// Registry holds check definitions in registration order. It is safe for
// concurrent use; runners take a snapshot at the start of each pass, so
// registrations made while a pass is running apply to the next pass.
type Registry struct {
	mu    sync.RWMutex
	defs  []Definition
	names map[string]struct{}
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Register appends def. It rejects definitions without a name or probe and
// names that are already registered.
func (r *Registry) Register(def Definition) error {
	if strings.TrimSpace(def.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidDefinition)
	}
	if def.Probe == nil {
		return fmt.Errorf("%w: check %q has no probe", ErrInvalidDefinition, def.Name)
	}
	if def.Timeout < 0 {
		return fmt.Errorf("%w: check %q has negative timeout", ErrInvalidDefinition, def.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.names[def.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateCheck, def.Name)
	}
	r.names[def.Name] = struct{}{}
	r.defs = append(r.defs, cloneDefinition(def))
	return nil
}

// Definitions returns a snapshot of the registered definitions in
// registration order.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Definition, len(r.defs))
	for i, d := range r.defs {
		out[i] = cloneDefinition(d)
	}
	return out
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

func cloneDefinition(d Definition) Definition {
	if d.Labels != nil {
		labels := make(map[string]string, len(d.Labels))
		for k, v := range d.Labels {
			labels[k] = v
		}
		d.Labels = labels
	}
	return d
}
