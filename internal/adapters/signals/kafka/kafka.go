// Package kafka is the Kafka signal transport. Every vehicle topic maps to
// its own Kafka topic carrying JSON-encoded samples; service availability is
// a shared heartbeat topic keyed by service id.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/segmentio/kafka-go"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/config"
)

// TopicName maps a signal id to its Kafka topic: "mavros/state" with prefix
// "vehicle." becomes "vehicle.mavros.state".
func TopicName(prefix, id string) string {
	return prefix + strings.ReplaceAll(strings.Trim(id, "/"), "/", ".")
}

// messageReader is the part of *kafka.Reader the source uses.
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// tailReader opens a reader on partition 0 of topic positioned after the
// last message, so only samples published from now on are read.
func tailReader(cfg config.KafkaConfig) func(topic string) (messageReader, error) {
	return func(topic string) (messageReader, error) {
		r := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.Brokers,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 10e6, // 10MB
			MaxWait:  cfg.MaxWait,
		})
		if err := r.SetOffset(kafka.LastOffset); err != nil {
			_ = r.Close()
			return nil, err
		}
		return r, nil
	}
}

// dialFunc opens a broker connection; kafka.DialContext in production.
type dialFunc func(ctx context.Context, network, address string) (*kafka.Conn, error)

// pingBrokers succeeds when any broker accepts a connection.
func pingBrokers(ctx context.Context, dial dialFunc, brokers []string) error {
	errs := make([]error, 0, len(brokers))
	for _, broker := range brokers {
		conn, err := dial(ctx, "tcp", broker)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		errs = append(errs, err)
	}
	return fmt.Errorf("all kafka brokers unreachable: %w", errors.Join(errs...))
}
