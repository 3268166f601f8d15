// Package main is the simulated telemetry bridge. It serves a retained-value
// signal store over HTTP, keeps it fed with the telemetry of a simulated
// vehicle and optionally mirrors that telemetry to Kafka. Dependencies are
// wired with samber/do v2; the server and the simulator share an errgroup
// and stop together on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do/v2"
	"golang.org/x/sync/errgroup"

	adapthttp "github.com/jsamuelsen11/vehicle-selfcheck/internal/adapters/http"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/adapters/signals/kafka"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/adapters/signals/memory"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/app/simulator"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/config"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/health"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/logging"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/telemetry"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/ports"
)

const otelShutdownTimeout = 5 * time.Second

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("simbridge", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configDir := fs.String("config-dir", "configs", "directory holding base.yaml and the profile files")
	override := fs.String("config", "", "optional YAML file applied after the profile")
	if err := fs.Parse(args); err != nil {
		return err
	}

	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, sim, prod)")
	}

	cfg, err := config.Load(profile, config.WithConfigDir(*configDir), config.WithOverrideFile(*override))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, stderr)

	promRegistry := prometheus.NewRegistry()
	otel, err := telemetry.Setup(context.Background(), telemetry.Settings{
		Enabled:     cfg.Telemetry.Enabled,
		ServiceName: cfg.Telemetry.ServiceName,
		Exporter:    cfg.Telemetry.Exporter,
		Endpoint:    cfg.Telemetry.Endpoint,
	}, telemetry.WithRegisterer(promRegistry))
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer flushTelemetry(otel, logger)

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.Metrics)
	do.ProvideValue(injector, promRegistry)
	registerDependencies(injector, cfg, logger)

	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}
	if err := server.Listen(); err != nil {
		return err
	}

	// Readiness checks are registered once the graph is wired.
	registry := do.MustInvoke[*health.Registry](injector)
	var sim *simulator.Simulator
	if cfg.Simulator.Enabled {
		sim = do.MustInvoke[*simulator.Simulator](injector)
		registry.Register("simulator", sim)
		logger.Debug("simulator configured",
			slog.Any("suppressed", cfg.Simulator.Suppress),
			slog.Any("suppressible", sim.Suppressible()),
		)
	}
	if cfg.Simulator.MirrorKafka {
		publisher := do.MustInvoke[*kafka.Publisher](injector)
		registry.Register("kafka", publisher)
		defer closePublisher(publisher, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx)
	})
	if sim != nil {
		g.Go(func() error {
			return sim.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("shutdown complete")
	return nil
}

func flushTelemetry(otel *telemetry.Providers, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer cancel()

	if err := otel.Shutdown(ctx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}
}

func closePublisher(p *kafka.Publisher, logger *slog.Logger) {
	if err := p.Close(); err != nil {
		logger.Error("kafka publisher close error", slog.Any("error", err))
	}
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(_ do.Injector) (*memory.Store, error) {
		return memory.NewStore(memory.WithMaxAge(cfg.Simulator.MaxAge)), nil
	})

	do.Provide(injector, func(_ do.Injector) (*kafka.Publisher, error) {
		return kafka.NewPublisher(cfg.Signals.Kafka, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*simulator.Simulator, error) {
		sinks := []ports.SignalSink{do.MustInvoke[*memory.Store](i)}
		if cfg.Simulator.MirrorKafka {
			sinks = append(sinks, do.MustInvoke[*kafka.Publisher](i))
		}
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return simulator.New(cfg.Simulator, metrics, logger, sinks...), nil
	})

	do.Provide(injector, func(_ do.Injector) (*health.Registry, error) {
		return health.New(0), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.SignalHandler, error) {
		return handlers.NewSignalHandler(do.MustInvoke[*memory.Store](i), cfg.Server.MaxWait), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		return handlers.NewHealthHandler(do.MustInvoke[*health.Registry](i), do.MustInvoke[*memory.Store](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		var metricsHandler nethttp.Handler
		if cfg.Telemetry.Enabled && cfg.Telemetry.Exporter == telemetry.ExporterPrometheus {
			reg := do.MustInvoke[*prometheus.Registry](i)
			metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
		}

		return adapthttp.NewRouter(
			do.MustInvoke[*handlers.SignalHandler](i),
			do.MustInvoke[*handlers.HealthHandler](i),
			metricsHandler,
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.Timeout(cfg.Server.WriteTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		return adapthttp.NewServer(cfg.Server, do.MustInvoke[nethttp.Handler](i), logger), nil
	})
}
