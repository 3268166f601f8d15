// Package memory provides an in-process signal store. It is both the
// SignalSink the simulator publishes into and the SignalSource the bridge
// server answers queries from.
package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain/signal"
)

var errEmptyID = errors.New("empty id")

// Store retains the latest sample per topic and the set of offered services.
// Waiters are woken by closing a broadcast channel that is replaced on every
// change.
type Store struct {
	mu       sync.Mutex
	maxAge   time.Duration
	now      func() time.Time
	samples  map[string]signal.Sample
	services map[string]struct{}
	changed  chan struct{}
}

// Option configures a Store.
type Option func(*Store)

// WithMaxAge sets how old a retained sample may be and still answer
// AwaitValue immediately. Zero accepts any retained sample.
func WithMaxAge(d time.Duration) Option {
	return func(s *Store) {
		s.maxAge = d
	}
}

// WithClock overrides the time source used to stamp and age samples.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		now:      time.Now,
		samples:  make(map[string]signal.Sample),
		services: make(map[string]struct{}),
		changed:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish stores payload as the latest sample on topic id and wakes waiters.
func (s *Store) Publish(_ context.Context, id string, payload any) error {
	sample, err := signal.NewSample(id, s.now(), payload)
	if err != nil {
		return err
	}
	return s.Put(sample)
}

// Put stores an already encoded sample and wakes waiters. A zero Stamp is
// replaced with the current time.
func (s *Store) Put(sample signal.Sample) error {
	if sample.ID == "" {
		return fmt.Errorf("storing sample: %w", errEmptyID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sample.Stamp.IsZero() {
		sample.Stamp = s.now()
	}
	s.samples[sample.ID] = sample
	s.broadcastLocked()
	return nil
}

// Clear drops the retained sample on topic id. It reports whether one was
// retained.
func (s *Store) Clear(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.samples[id]
	delete(s.samples, id)
	return ok
}

// Offer marks service id as available and wakes waiters.
func (s *Store) Offer(_ context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("offering service: %w", errEmptyID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.services[id] = struct{}{}
	s.broadcastLocked()
	return nil
}

// Withdraw marks service id as no longer available.
func (s *Store) Withdraw(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.services, id)
	return nil
}

// AwaitValue returns the retained sample on topic id when it is fresh enough,
// otherwise it waits for the next publish on that topic. It returns an error
// wrapping signal.ErrNoSignal and the context error once ctx is done.
func (s *Store) AwaitValue(ctx context.Context, id string) (signal.Sample, error) {
	for {
		s.mu.Lock()
		sample, ok := s.samples[id]
		fresh := ok && (s.maxAge <= 0 || s.now().Sub(sample.Stamp) <= s.maxAge)
		changed := s.changed
		s.mu.Unlock()

		if fresh {
			return sample, nil
		}

		select {
		case <-ctx.Done():
			return signal.Sample{}, fmt.Errorf("%w on %s: %w", signal.ErrNoSignal, id, ctx.Err())
		case <-changed:
		}
	}
}

// AwaitService returns nil once service id is offered. It returns an error
// wrapping signal.ErrServiceUnavailable and the context error once ctx is
// done.
func (s *Store) AwaitService(ctx context.Context, id string) error {
	for {
		s.mu.Lock()
		_, ok := s.services[id]
		changed := s.changed
		s.mu.Unlock()

		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s: %w", signal.ErrServiceUnavailable, id, ctx.Err())
		case <-changed:
		}
	}
}

// Topics returns the ids of all retained samples, sorted.
func (s *Store) Topics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.samples))
	for id := range s.samples {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Services returns the ids of all offered services, sorted.
func (s *Store) Services() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.services))
	for id := range s.services {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *Store) broadcastLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}
