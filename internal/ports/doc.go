// Package ports defines interfaces between layers in the hexagonal architecture.
// Source ports (SignalSource, Pinger) are implemented by outbound transport
// adapters and consumed by probes. Sink ports (SignalSink, Reporter) are
// implemented by adapters that publish vehicle signals or render check
// results.
package ports
