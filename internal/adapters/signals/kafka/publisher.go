package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain/signal"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/config"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.SignalSink = (*Publisher)(nil)
	_ ports.Pinger     = (*Publisher)(nil)
)

// Publisher writes samples and service heartbeats to Kafka.
type Publisher struct {
	writer        messageWriter
	brokers       []string
	dial          dialFunc
	prefix        string
	servicesTopic string
	now           func() time.Time
	logger        *slog.Logger
}

// NewPublisher creates a Publisher for the configured brokers. Topics are
// created on first write when the broker allows it.
func NewPublisher(cfg config.KafkaConfig, logger *slog.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		brokers:       cfg.Brokers,
		dial:          kafka.DialContext,
		prefix:        cfg.TopicPrefix,
		servicesTopic: cfg.ServicesTopic,
		now:           time.Now,
		logger:        logger,
	}
}

// Publish writes payload as a sample on the topic mapped from id.
func (p *Publisher) Publish(ctx context.Context, id string, payload any) error {
	sample, err := signal.NewSample(id, p.now(), payload)
	if err != nil {
		return err
	}
	value, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("encoding %s sample: %w", id, err)
	}

	return p.write(ctx, kafka.Message{
		Topic: TopicName(p.prefix, id),
		Key:   []byte(id),
		Value: value,
		Time:  sample.Stamp,
	})
}

// Offer writes a heartbeat for service id.
func (p *Publisher) Offer(ctx context.Context, id string) error {
	value, err := json.Marshal(serviceHeartbeat{Service: id, Available: true})
	if err != nil {
		return fmt.Errorf("encoding %s heartbeat: %w", id, err)
	}
	return p.write(ctx, kafka.Message{Topic: p.servicesTopic, Key: []byte(id), Value: value, Time: p.now()})
}

// Withdraw writes a tombstone for service id.
func (p *Publisher) Withdraw(ctx context.Context, id string) error {
	return p.write(ctx, kafka.Message{Topic: p.servicesTopic, Key: []byte(id), Time: p.now()})
}

// Ping succeeds when any broker accepts a connection. The bridge registers
// it as a readiness check when mirroring to Kafka.
func (p *Publisher) Ping(ctx context.Context) error {
	return pingBrokers(ctx, p.dial, p.brokers)
}

// Close flushes pending writes and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) write(ctx context.Context, msg kafka.Message) error {
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish message",
			slog.String("operation", "WriteMessages"),
			slog.String("topic", msg.Topic),
			slog.String("key", string(msg.Key)),
			slog.Any("error", err),
		)
		return fmt.Errorf("publishing to %s: %w", msg.Topic, err)
	}
	return nil
}

type serviceHeartbeat struct {
	Service   string `json:"service"`
	Available bool   `json:"available"`
}
