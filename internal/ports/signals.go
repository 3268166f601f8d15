package ports

import (
	"context"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain/signal"
)

// SignalSource answers one-shot queries about vehicle subsystems. The query
// deadline is carried by ctx; implementations must return once ctx is done.
type SignalSource interface {
	// AwaitValue returns the latest sample on the topic id, waiting for one
	// to arrive if none is available yet.
	// Returns signal.ErrNoSignal (wrapped) when nothing arrived in time.
	AwaitValue(ctx context.Context, id string) (signal.Sample, error)

	// AwaitService returns nil once the service id is offered.
	// Returns signal.ErrServiceUnavailable (wrapped) when it was not
	// offered in time.
	AwaitService(ctx context.Context, id string) error
}

// Pinger is implemented by sources that reach the vehicle through an
// endpoint whose reachability can be tested on its own.
type Pinger interface {
	// Ping returns nil when the transport endpoint is reachable.
	Ping(ctx context.Context) error
}

// SignalSink publishes vehicle signals. Implemented by the in-memory store
// and the Kafka publisher; used by the simulator and the bridge server.
type SignalSink interface {
	// Publish stores payload as the latest sample on topic id.
	Publish(ctx context.Context, id string, payload any) error

	// Offer marks the service id as available.
	Offer(ctx context.Context, id string) error

	// Withdraw marks the service id as no longer available.
	Withdraw(ctx context.Context, id string) error
}
