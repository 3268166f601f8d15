package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain/signal"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/config"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.SignalSource = (*Source)(nil)
	_ ports.Pinger       = (*Source)(nil)
)

// Source answers signal queries by reading the tail of the mapped topics.
type Source struct {
	brokers       []string
	prefix        string
	servicesTopic string
	logger        *slog.Logger
	newReader     func(topic string) (messageReader, error)
	dial          dialFunc
}

// NewSource creates a Source for the configured brokers.
func NewSource(cfg config.KafkaConfig, logger *slog.Logger) *Source {
	return &Source{
		brokers:       cfg.Brokers,
		prefix:        cfg.TopicPrefix,
		servicesTopic: cfg.ServicesTopic,
		logger:        logger,
		newReader:     tailReader(cfg),
		dial:          kafka.DialContext,
	}
}

// AwaitValue returns the next sample published on topic id. It returns an
// error wrapping signal.ErrNoSignal once ctx is done.
func (s *Source) AwaitValue(ctx context.Context, id string) (signal.Sample, error) {
	topic := TopicName(s.prefix, id)

	r, err := s.newReader(topic)
	if err != nil {
		return signal.Sample{}, fmt.Errorf("opening reader for %s: %w", topic, err)
	}
	defer s.close(ctx, r, topic)

	for {
		msg, err := r.ReadMessage(ctx)
		if err != nil {
			return signal.Sample{}, s.readError(ctx, signal.ErrNoSignal, id, err)
		}

		sample, err := decodeSample(id, msg)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping malformed kafka message",
				slog.String("signal", id),
				slog.Int64("offset", msg.Offset),
				slog.Any("error", err),
			)
			continue
		}
		return sample, nil
	}
}

// AwaitService reads the services topic until a heartbeat keyed by id
// arrives. Tombstones for id mean it was withdrawn and are skipped.
func (s *Source) AwaitService(ctx context.Context, id string) error {
	r, err := s.newReader(s.servicesTopic)
	if err != nil {
		return fmt.Errorf("opening reader for %s: %w", s.servicesTopic, err)
	}
	defer s.close(ctx, r, s.servicesTopic)

	for {
		msg, err := r.ReadMessage(ctx)
		if err != nil {
			return s.readError(ctx, signal.ErrServiceUnavailable, id, err)
		}
		if string(msg.Key) == id && len(msg.Value) > 0 {
			return nil
		}
	}
}

// Ping succeeds when any broker accepts a connection.
func (s *Source) Ping(ctx context.Context) error {
	return pingBrokers(ctx, s.dial, s.brokers)
}

func (s *Source) readError(ctx context.Context, absent error, id string, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %s: %w", absent, id, ctx.Err())
	}
	s.logger.ErrorContext(ctx, "kafka read failed",
		slog.String("operation", "ReadMessage"),
		slog.String("signal", id),
		slog.Any("error", err),
	)
	return fmt.Errorf("reading %s: %w", id, err)
}

func (s *Source) close(ctx context.Context, r messageReader, topic string) {
	if err := r.Close(); err != nil {
		s.logger.WarnContext(ctx, "failed to close kafka reader",
			slog.String("topic", topic),
			slog.Any("error", err),
		)
	}
}

func decodeSample(id string, msg kafka.Message) (signal.Sample, error) {
	var sample signal.Sample
	if err := json.Unmarshal(msg.Value, &sample); err != nil {
		return signal.Sample{}, err
	}
	if sample.ID == "" {
		sample.ID = id
	}
	if sample.Stamp.IsZero() {
		sample.Stamp = msg.Time
	}
	return sample, nil
}
