package telemetry_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/telemetry"
)

func TestSetup_Disabled(t *testing.T) {
	t.Parallel()

	p, err := telemetry.Setup(context.Background(), telemetry.Settings{Enabled: false})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if p.Tracer != nil || p.Meter != nil || p.Metrics != nil {
		t.Errorf("Setup(disabled) = %+v, want empty providers", p)
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() on empty providers error = %v", err)
	}
}

// Not parallel: Setup replaces the global providers.
func TestSetup_Prometheus(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()

	p, err := telemetry.Setup(ctx, telemetry.Settings{
		Enabled:     true,
		ServiceName: "simbridge-test",
		Exporter:    telemetry.ExporterPrometheus,
	}, telemetry.WithRegisterer(reg))
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	t.Cleanup(func() { _ = p.Shutdown(ctx) })

	if p.Metrics == nil || p.Metrics.SignalPublishTotal == nil {
		t.Fatal("Setup() did not create metrics")
	}

	p.Metrics.SignalPublishTotal.Add(ctx, 1)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(families) == 0 {
		t.Error("prometheus registry gathered no metric families")
	}
}

func TestSetup_UnsupportedExporter(t *testing.T) {
	t.Parallel()

	_, err := telemetry.Setup(context.Background(), telemetry.Settings{
		Enabled:     true,
		ServiceName: "selfcheck-test",
		Exporter:    "zipkin",
	})
	if err == nil {
		t.Error("Setup() error = nil, want unsupported exporter")
	}
}
