// Package simulator publishes the telemetry of a stationary, healthy vehicle
// so the self-check can be exercised without hardware. Individual topics and
// services can be withheld, and velocity drift or a lost FCU link injected,
// to reproduce each failure the checks detect.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/app/probes"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain/signal"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/config"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/telemetry"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/ports"
)

// Simulator publishes one round of vehicle telemetry into every sink per
// tick.
type Simulator struct {
	cfg      config.SimulatorConfig
	sinks    []ports.SignalSink
	metrics  *telemetry.Metrics
	logger   *slog.Logger
	suppress map[string]struct{}
	now      func() time.Time

	mu       sync.Mutex
	lastTick time.Time
	lastErr  error
}

var _ ports.Pinger = (*Simulator)(nil)

// errNotTicked is reported by Ping before the first tick completed.
var errNotTicked = errors.New("simulator has not published yet")

// New creates a Simulator publishing into sinks. If metrics is nil, metric
// recording is skipped.
func New(
	cfg config.SimulatorConfig, metrics *telemetry.Metrics, logger *slog.Logger, sinks ...ports.SignalSink,
) *Simulator {
	suppress := make(map[string]struct{}, len(cfg.Suppress))
	for _, id := range cfg.Suppress {
		suppress[id] = struct{}{}
	}
	return &Simulator{
		cfg:      cfg,
		sinks:    sinks,
		metrics:  metrics,
		logger:   logger,
		suppress: suppress,
		now:      time.Now,
	}
}

// Run publishes immediately and then on every cfg.Rate tick until ctx is
// done. Publish failures are logged and do not stop the loop.
func (s *Simulator) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "simulator started",
		slog.Duration("rate", s.cfg.Rate),
		slog.Int("sinks", len(s.sinks)),
		slog.Any("suppress", s.cfg.Suppress),
	)

	known := s.Suppressible()
	for _, id := range s.cfg.Suppress {
		if !slices.Contains(known, id) {
			s.logger.WarnContext(ctx, "suppressed id is never published", slog.String("signal", id))
		}
	}

	if err := s.withdrawSuppressed(ctx); err != nil {
		s.logger.WarnContext(ctx, "withdrawing suppressed services failed", slog.Any("error", err))
	}

	ticker := time.NewTicker(s.cfg.Rate)
	defer ticker.Stop()

	for {
		if err := s.Tick(ctx); err != nil && ctx.Err() == nil {
			s.logger.WarnContext(ctx, "simulator tick failed", slog.Any("error", err))
		}

		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "simulator stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Tick publishes one round of samples and service heartbeats, skipping
// suppressed ids. The outcome is what Ping reports.
func (s *Simulator) Tick(ctx context.Context) error {
	err := s.tick(ctx)

	s.mu.Lock()
	s.lastTick, s.lastErr = s.now(), err
	s.mu.Unlock()

	return err
}

// Ping reports the simulator unhealthy before its first tick, when the
// last tick failed, or when ticks stopped for more than three periods.
func (s *Simulator) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.lastTick.IsZero():
		return errNotTicked
	case s.lastErr != nil:
		return fmt.Errorf("last tick failed: %w", s.lastErr)
	}
	if age := s.now().Sub(s.lastTick); s.cfg.Rate > 0 && age > 3*s.cfg.Rate {
		return fmt.Errorf("last tick %s ago", age.Truncate(time.Millisecond))
	}
	return nil
}

func (s *Simulator) tick(ctx context.Context) error {
	var errs []error

	for _, t := range s.topics() {
		if s.suppressed(t.id) {
			continue
		}
		if err := s.publish(ctx, t.id, t.payload); err != nil {
			errs = append(errs, err)
		}
	}

	for _, id := range probes.OffboardServices {
		if s.suppressed(id) {
			continue
		}
		for _, sink := range s.sinks {
			if err := sink.Offer(ctx, id); err != nil {
				errs = append(errs, fmt.Errorf("offering %s: %w", id, err))
			}
		}
	}

	return errors.Join(errs...)
}

type topic struct {
	id      string
	payload any
}

// topics is the telemetry profile of a vehicle standing on the ground.
func (s *Simulator) topics() []topic {
	camera := signal.Image{Width: 320, Height: 240, Encoding: "bgr8"}

	return []topic{
		{probes.TopicState, signal.State{Connected: s.cfg.FCUConnected, Mode: "STABILIZED"}},
		{probes.TopicImu, signal.Imu{
			Orientation:        signal.Quaternion{W: 1},
			LinearAcceleration: signal.Vector3{Z: 9.81},
		}},
		{probes.TopicLocalPose, signal.Pose{Orientation: signal.Quaternion{W: 1}}},
		{probes.TopicLocalVelocity, signal.Twist{
			Linear: signal.Vector3{X: s.cfg.HorizontalDrift, Z: s.cfg.VerticalDrift},
		}},
		{probes.TopicGlobalPosition, signal.NavSatFix{Latitude: 55.7039, Longitude: 37.7249, Altitude: 150}},
		{probes.CameraImageTopic(s.cfg.Camera), camera},
		{probes.CameraInfoTopic(s.cfg.Camera), signal.CameraInfo{
			Width:  camera.Width,
			Height: camera.Height,
			Model:  "plumb_bob",
			K:      []float64{332.1, 0, 160, 0, 332.1, 120, 0, 0, 1},
			D:      []float64{0, 0, 0, 0, 0},
		}},
		{probes.TopicArucoDebug, camera},
	}
}

func (s *Simulator) publish(ctx context.Context, id string, payload any) error {
	var errs []error
	for _, sink := range s.sinks {
		err := sink.Publish(ctx, id, payload)
		s.recordPublish(ctx, id, err)
		if err != nil {
			errs = append(errs, fmt.Errorf("publishing %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Simulator) withdrawSuppressed(ctx context.Context) error {
	var errs []error
	for _, id := range probes.OffboardServices {
		if !s.suppressed(id) {
			continue
		}
		for _, sink := range s.sinks {
			if err := sink.Withdraw(ctx, id); err != nil {
				errs = append(errs, fmt.Errorf("withdrawing %s: %w", id, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Simulator) suppressed(id string) bool {
	_, ok := s.suppress[id]
	return ok
}

func (s *Simulator) recordPublish(ctx context.Context, id string, err error) {
	if s.metrics == nil {
		return
	}
	result := telemetry.ResultPass
	if err != nil {
		result = telemetry.ResultFail
	}
	s.metrics.SignalPublishTotal.Add(ctx, 1, metric.WithAttributes(
		telemetry.AttrSignal.String(id),
		telemetry.AttrResult.String(result),
	))
}

// Suppressible lists every id the simulator can withhold.
func (s *Simulator) Suppressible() []string {
	ids := make([]string, 0, len(s.topics())+len(probes.OffboardServices))
	for _, t := range s.topics() {
		ids = append(ids, t.id)
	}
	ids = append(ids, probes.OffboardServices...)
	slices.Sort(ids)
	return ids
}
