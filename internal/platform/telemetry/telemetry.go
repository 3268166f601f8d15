// Package telemetry provides OpenTelemetry tracer and meter initialization
// with support for stdout (development), OTLP/HTTP (production) and
// Prometheus pull exporters.
//
// Tracer initialization:
//
//	tp, err := telemetry.InitTracer(ctx, "vehicle-selfcheck", telemetry.ExporterStdout, "")
//	defer tp.Shutdown(ctx)
//
// Meter initialization:
//
//	mp, err := telemetry.InitMeter(ctx, "vehicle-selfcheck", telemetry.ExporterPrometheus, "",
//	    telemetry.WithRegisterer(reg))
//	defer mp.Shutdown(ctx)
//
// Pre-registered metrics:
//
//	metrics, err := telemetry.NewMetrics(mp, "vehicle-selfcheck")
//	metrics.CheckTotal.Add(ctx, 1, metric.WithAttributes(telemetry.AttrCheck.String("FCU")))
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

// Exporter names accepted by InitTracer and InitMeter.
const (
	ExporterStdout     = "stdout"
	ExporterOTLP       = "otlp"
	ExporterPrometheus = "prometheus"
)

// InstrumentationName scopes tracers and meters created by this module.
const InstrumentationName = "github.com/jsamuelsen11/vehicle-selfcheck"

// Attribute keys for metric labels and span attributes.
var (
	AttrHTTPMethod  = attribute.Key("http.method")
	AttrHTTPStatus  = attribute.Key("http.status_code")
	AttrHTTPURL     = attribute.Key("http.url")
	AttrPeerService = attribute.Key("peer.service")
	AttrResult      = attribute.Key("result")
	AttrCheck       = attribute.Key("selfcheck.check")
	AttrCause       = attribute.Key("selfcheck.cause")
	AttrRunID       = attribute.Key("selfcheck.run_id")
	AttrMode        = attribute.Key("selfcheck.mode")
	AttrSignal      = attribute.Key("signal.id")
)

// Result values recorded under AttrResult.
const (
	ResultPass = "pass"
	ResultFail = "fail"
)

var errUnsupportedExporter = errors.New("unsupported exporter")

// Metrics holds pre-registered OpenTelemetry metric instruments.
type Metrics struct {
	ServerRequestDuration metric.Float64Histogram
	ServerRequestTotal    metric.Int64Counter
	ClientRequestDuration metric.Float64Histogram
	ClientRequestTotal    metric.Int64Counter

	CheckDuration      metric.Float64Histogram
	CheckTotal         metric.Int64Counter
	CheckFailureTotal  metric.Int64Counter
	PassTotal          metric.Int64Counter
	SignalPublishTotal metric.Int64Counter
}

// InitTracer creates and registers a global TracerProvider.
//
// The exporter parameter selects the span exporter: "otlp" uses OTLP/HTTP
// with the given endpoint and "stdout" uses a pretty-printed stdout exporter.
// The prometheus exporter has no span counterpart, so traces fall back to
// stdout for it.
//
// The returned TracerProvider must be shut down when the application exits.
func InitTracer(ctx context.Context, serviceName, exporter, endpoint string) (*sdktrace.TracerProvider, error) {
	res, err := newResource(serviceName)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	spanExporter, err := newSpanExporter(ctx, exporter, endpoint)
	if err != nil {
		return nil, fmt.Errorf("creating span exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp, nil
}

// MeterOption configures InitMeter.
type MeterOption func(*meterOptions)

type meterOptions struct {
	registerer prometheus.Registerer
}

// WithRegisterer sets the Prometheus registerer used by the prometheus
// exporter. Defaults to prometheus.DefaultRegisterer.
func WithRegisterer(reg prometheus.Registerer) MeterOption {
	return func(o *meterOptions) {
		o.registerer = reg
	}
}

// InitMeter creates and registers a global MeterProvider.
//
// The exporter parameter selects the metric reader: "otlp" pushes over
// OTLP/HTTP to the given endpoint, "stdout" pushes to stdout and
// "prometheus" registers a pull collector that a promhttp handler serves.
//
// The returned MeterProvider must be shut down when the application exits.
func InitMeter(
	ctx context.Context, serviceName, exporter, endpoint string, opts ...MeterOption,
) (*sdkmetric.MeterProvider, error) {
	o := &meterOptions{registerer: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(o)
	}

	res, err := newResource(serviceName)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	reader, err := newMetricReader(ctx, exporter, endpoint, o)
	if err != nil {
		return nil, fmt.Errorf("creating metric reader: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	return mp, nil
}

// NewMetrics creates and registers all metric instruments using the given
// MeterProvider. The meter is scoped to the module path and tagged with the
// service name.
func NewMetrics(mp metric.MeterProvider, serviceName string) (*Metrics, error) {
	meter := mp.Meter(InstrumentationName,
		metric.WithInstrumentationAttributes(semconv.ServiceName(serviceName)),
	)

	var (
		m    Metrics
		errs []error
	)

	histogram := func(name, desc, unit string) metric.Float64Histogram {
		h, err := meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			errs = append(errs, fmt.Errorf("creating %s: %w", name, err))
		}
		return h
	}
	counter := func(name, desc, unit string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			errs = append(errs, fmt.Errorf("creating %s: %w", name, err))
		}
		return c
	}

	m.ServerRequestDuration = histogram("http.server.request.duration",
		"Duration of incoming HTTP requests", "s")
	m.ServerRequestTotal = counter("http.server.request.total",
		"Total number of incoming HTTP requests", "{request}")
	m.ClientRequestDuration = histogram("http.client.request.duration",
		"Duration of outgoing HTTP requests", "s")
	m.ClientRequestTotal = counter("http.client.request.total",
		"Total number of outgoing HTTP requests", "{request}")

	m.CheckDuration = histogram("selfcheck.check.duration",
		"Duration of a single check execution", "s")
	m.CheckTotal = counter("selfcheck.check.total",
		"Total number of executed checks by result", "{check}")
	m.CheckFailureTotal = counter("selfcheck.check.failure.total",
		"Total number of recorded check failures by cause", "{failure}")
	m.PassTotal = counter("selfcheck.pass.total",
		"Total number of completed self-check passes by result", "{pass}")
	m.SignalPublishTotal = counter("selfcheck.signal.publish.total",
		"Total number of signal samples published by the bridge", "{sample}")

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &m, nil
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

func newSpanExporter(ctx context.Context, exporter, endpoint string) (sdktrace.SpanExporter, error) {
	switch exporter {
	case ExporterOTLP:
		if endpoint == "" {
			return nil, errors.New("otlp exporter requires an endpoint")
		}
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(hostPort(endpoint))}
		if !isHTTPS(endpoint) {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	case ExporterStdout, ExporterPrometheus:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, fmt.Errorf("%w: %q", errUnsupportedExporter, exporter)
	}
}

func newMetricReader(ctx context.Context, exporter, endpoint string, o *meterOptions) (sdkmetric.Reader, error) {
	switch exporter {
	case ExporterOTLP:
		if endpoint == "" {
			return nil, errors.New("otlp exporter requires an endpoint")
		}
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(hostPort(endpoint))}
		if !isHTTPS(endpoint) {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		exp, err := otlpmetrichttp.New(ctx, opts...)
		if err != nil {
			return nil, err
		}
		return sdkmetric.NewPeriodicReader(exp), nil
	case ExporterStdout:
		exp, err := stdoutmetric.New()
		if err != nil {
			return nil, err
		}
		return sdkmetric.NewPeriodicReader(exp), nil
	case ExporterPrometheus:
		return otelprom.New(otelprom.WithRegisterer(o.registerer))
	default:
		return nil, fmt.Errorf("%w: %q", errUnsupportedExporter, exporter)
	}
}

// hostPort extracts the host:port from a URL string
// (e.g., "http://otel-collector:4318" -> "otel-collector:4318").
func hostPort(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}

// isHTTPS returns true if the endpoint URL uses the https scheme.
func isHTTPS(endpoint string) bool {
	u, err := url.Parse(endpoint)
	if err != nil {
		return false
	}
	return u.Scheme == "https"
}
