package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/telemetry"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Log.validate(),
		c.Telemetry.validate(),
		c.Client.validate(),
		c.Signals.validate(),
		c.SelfCheck.validate(),
		c.Report.validate(),
		c.Server.validate(),
		c.Simulator.validate(),
	)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case telemetry.ExporterStdout, telemetry.ExporterOTLP, telemetry.ExporterPrometheus:
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp, prometheus; got %q", t.Exporter))
	}

	if t.Exporter == telemetry.ExporterOTLP && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}
	if t.ServiceName == "" {
		errs = append(errs, errors.New("telemetry.service_name must not be empty"))
	}

	return errors.Join(errs...)
}

func (cl *ClientConfig) validate() error {
	var errs []error

	if cl.BaseURL == "" {
		errs = append(errs, errors.New("client.base_url must not be empty"))
	} else if u, err := url.Parse(cl.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("client.base_url must be an absolute URL, got %q", cl.BaseURL))
	}
	if cl.Timeout <= 0 {
		errs = append(errs, errors.New("client.timeout must be positive"))
	}
	if cl.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("client.retry.max_attempts must be >= 1, got %d", cl.Retry.MaxAttempts))
	}
	if cl.Retry.Multiplier <= 0 {
		errs = append(errs, fmt.Errorf("client.retry.multiplier must be positive, got %f", cl.Retry.Multiplier))
	}
	if cl.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("client.circuit_breaker.max_failures must be >= 1, got %d",
			cl.CircuitBreaker.MaxFailures))
	}
	if cl.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("client.rate_limit.requests_per_second must be >= 0, got %f",
			cl.RateLimit.RequestsPerSecond))
	}
	if cl.RateLimit.RequestsPerSecond > 0 && cl.RateLimit.BurstSize < 1 {
		errs = append(errs, fmt.Errorf("client.rate_limit.burst_size must be >= 1 when rate limiting is enabled, got %d",
			cl.RateLimit.BurstSize))
	}

	return errors.Join(errs...)
}

func (s *SignalsConfig) validate() error {
	switch s.Transport {
	case TransportBridge:
		return nil
	case TransportKafka:
		return s.Kafka.validate()
	default:
		return fmt.Errorf("signals.transport must be one of: bridge, kafka; got %q", s.Transport)
	}
}

func (k *KafkaConfig) validate() error {
	var errs []error

	if len(k.Brokers) == 0 {
		errs = append(errs, errors.New("signals.kafka.brokers must not be empty"))
	}
	for _, b := range k.Brokers {
		if strings.TrimSpace(b) == "" {
			errs = append(errs, errors.New("signals.kafka.brokers must not contain empty entries"))
			break
		}
	}
	if k.ServicesTopic == "" {
		errs = append(errs, errors.New("signals.kafka.services_topic must not be empty"))
	}
	if k.MaxWait <= 0 {
		errs = append(errs, errors.New("signals.kafka.max_wait must be positive"))
	}

	return errors.Join(errs...)
}

func (sc *SelfCheckConfig) validate() error {
	var errs []error

	switch sc.Mode {
	case ModeSequential, ModeConcurrent:
		// Valid modes.
	default:
		errs = append(errs, fmt.Errorf("selfcheck.mode must be one of: sequential, concurrent; got %q", sc.Mode))
	}

	if sc.MaxWorkers < 1 {
		errs = append(errs, fmt.Errorf("selfcheck.max_workers must be >= 1, got %d", sc.MaxWorkers))
	}
	if sc.PassTimeout < 0 {
		errs = append(errs, errors.New("selfcheck.pass_timeout must not be negative"))
	}
	if sc.CheckTimeout < 0 {
		errs = append(errs, errors.New("selfcheck.check_timeout must not be negative"))
	}
	if sc.ShortTimeout <= 0 {
		errs = append(errs, errors.New("selfcheck.short_timeout must be positive"))
	}
	if sc.LongTimeout <= 0 {
		errs = append(errs, errors.New("selfcheck.long_timeout must be positive"))
	}
	if strings.TrimSpace(sc.Camera) == "" {
		errs = append(errs, errors.New("selfcheck.camera must not be empty"))
	}
	if sc.VelocityTolerance <= 0 {
		errs = append(errs, fmt.Errorf("selfcheck.velocity_tolerance must be positive, got %f", sc.VelocityTolerance))
	}

	return errors.Join(errs...)
}

func (r *ReportConfig) validate() error {
	switch r.Format {
	case ReportLog, ReportConsole, ReportBoth:
		return nil
	default:
		return fmt.Errorf("report.format must be one of: log, console, both; got %q", r.Format)
	}
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}
	if s.MaxWait <= 0 {
		errs = append(errs, errors.New("server.max_wait must be positive"))
	}
	if s.MaxWait >= s.WriteTimeout && s.WriteTimeout > 0 {
		errs = append(errs, fmt.Errorf("server.max_wait (%s) must be shorter than server.write_timeout (%s)",
			s.MaxWait, s.WriteTimeout))
	}

	return errors.Join(errs...)
}

func (sim *SimulatorConfig) validate() error {
	if !sim.Enabled {
		return nil
	}

	var errs []error

	if sim.Rate <= 0 {
		errs = append(errs, errors.New("simulator.rate must be positive"))
	}
	if sim.MaxAge < 0 {
		errs = append(errs, errors.New("simulator.max_age must not be negative"))
	}
	if strings.TrimSpace(sim.Camera) == "" {
		errs = append(errs, errors.New("simulator.camera must not be empty"))
	}

	return errors.Join(errs...)
}
