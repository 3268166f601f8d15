// Package main is the one-shot vehicle self-check. It wires the signal
// transport, the vehicle checks and the reporters using samber/do v2, runs a
// single pass and exits with 0 when every check passed, 1 when any failed
// and 2 when bootstrap failed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/adapters/reporter"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/adapters/signals/bridge"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/adapters/signals/kafka"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/app/probes"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/app/selfcheck"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/config"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/httpclient"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/logging"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/telemetry"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/ports"
)

const (
	exitPassed    = 0
	exitFailed    = 1
	exitBootstrap = 2

	otelShutdownTimeout = 5 * time.Second
	bridgeServiceName   = "telemetry-bridge"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("selfcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configDir := fs.String("config-dir", "configs", "directory holding base.yaml and the profile files")
	override := fs.String("config", "", "optional YAML file applied after the profile")
	if err := fs.Parse(args); err != nil {
		return exitBootstrap
	}

	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		fmt.Fprintln(stderr, "error: APP_PROFILE environment variable is required (e.g. local, sim, prod)")
		return exitBootstrap
	}

	cfg, err := config.Load(profile, config.WithConfigDir(*configDir), config.WithOverrideFile(*override))
	if err != nil {
		fmt.Fprintf(stderr, "error: loading config: %v\n", err)
		return exitBootstrap
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, stderr)

	otel, err := telemetry.Setup(context.Background(), telemetry.Settings{
		Enabled:     cfg.Telemetry.Enabled,
		ServiceName: cfg.Telemetry.ServiceName,
		Exporter:    cfg.Telemetry.Exporter,
		Endpoint:    cfg.Telemetry.Endpoint,
	})
	if err != nil {
		logger.Error("initializing telemetry", slog.Any("error", err))
		return exitBootstrap
	}
	defer flushTelemetry(otel, logger)

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.Metrics)
	registerDependencies(injector, cfg, logger, stdout)

	runner, err := do.Invoke[*selfcheck.Runner](injector)
	if err != nil {
		logger.Error("wiring self-check", slog.Any("error", err))
		return exitBootstrap
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.SelfCheck.PassTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.SelfCheck.PassTimeout)
		defer cancel()
	}

	logger.Info("starting self-check",
		slog.String("mode", string(runner.Mode())),
		slog.String("transport", cfg.Signals.Transport),
	)
	report := runner.Run(ctx)

	logger.Info("self-check finished",
		slog.String("run_id", report.RunID),
		slog.String("summary", report.Summary()),
		slog.Bool("passed", report.Passed()),
	)
	if cfg.Report.Format != config.ReportLog {
		fmt.Fprintln(stdout, report.Summary())
	}

	if !report.Passed() {
		return exitFailed
	}
	return exitPassed
}

func flushTelemetry(otel *telemetry.Providers, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer cancel()

	if err := otel.Shutdown(ctx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger, stdout io.Writer) {
	do.Provide(injector, func(i do.Injector) (ports.SignalSource, error) {
		switch cfg.Signals.Transport {
		case config.TransportBridge:
			metrics := do.MustInvoke[*telemetry.Metrics](i)
			var opts []httpclient.Option
			if cfg.Signals.Bridge.Token != "" {
				opts = append(opts, httpclient.WithBearerToken(cfg.Signals.Bridge.Token))
			}
			client := httpclient.New(&cfg.Client, bridgeServiceName, metrics, logger, opts...)
			return bridge.New(client, logger), nil
		case config.TransportKafka:
			return kafka.NewSource(cfg.Signals.Kafka, logger), nil
		default:
			return nil, fmt.Errorf("unknown signal transport %q", cfg.Signals.Transport)
		}
	})

	do.Provide(injector, func(_ do.Injector) (ports.Reporter, error) {
		return newReporter(cfg.Report.Format, logger, stdout)
	})

	do.Provide(injector, func(i do.Injector) (*selfcheck.Registry, error) {
		src := do.MustInvoke[ports.SignalSource](i)
		reg := selfcheck.NewRegistry()
		if err := probes.Register(reg, src, probes.OptionsFromConfig(cfg.SelfCheck)); err != nil {
			return nil, fmt.Errorf("registering checks: %w", err)
		}
		return reg, nil
	})

	do.Provide(injector, func(i do.Injector) (*selfcheck.Runner, error) {
		mode, err := selfcheck.ParseMode(cfg.SelfCheck.Mode)
		if err != nil {
			return nil, err
		}
		return selfcheck.NewRunner(
			do.MustInvoke[*selfcheck.Registry](i),
			do.MustInvoke[ports.Reporter](i),
			logger,
			selfcheck.WithMode(mode),
			selfcheck.WithMaxWorkers(cfg.SelfCheck.MaxWorkers),
			selfcheck.WithCheckTimeout(cfg.SelfCheck.CheckTimeout),
			selfcheck.WithMetrics(do.MustInvoke[*telemetry.Metrics](i)),
		), nil
	})
}

func newReporter(format string, logger *slog.Logger, stdout io.Writer) (ports.Reporter, error) {
	switch format {
	case config.ReportLog:
		return reporter.NewLog(logger), nil
	case config.ReportConsole:
		return reporter.NewConsole(stdout), nil
	case config.ReportBoth:
		return reporter.Multi{reporter.NewLog(logger), reporter.NewConsole(stdout)}, nil
	default:
		return nil, errors.New("unknown report format " + format)
	}
}
