package config

import "github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/telemetry"

const (
	defaultServerPort = 8090

	defaultRetryMaxAttempts = 3
	defaultRetryMultiplier  = 2.0

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1

	defaultMaxWorkers        = 4
	defaultVelocityTolerance = 0.1
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML,
// the override file and env vars.
func defaults() map[string]any {
	return map[string]any{
		"log.level":  "info",
		"log.format": "json",

		"telemetry.enabled":      false,
		"telemetry.exporter":     telemetry.ExporterStdout,
		"telemetry.endpoint":     "",
		"telemetry.service_name": "vehicle-selfcheck",

		"client.base_url":                        "http://localhost:8090",
		"client.timeout":                         "30s",
		"client.retry.max_attempts":              defaultRetryMaxAttempts,
		"client.retry.initial_interval":          "100ms",
		"client.retry.max_interval":              "1s",
		"client.retry.multiplier":                defaultRetryMultiplier,
		"client.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"client.circuit_breaker.timeout":         "30s",
		"client.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,
		"client.rate_limit.requests_per_second":  0,
		"client.rate_limit.burst_size":           0,

		"signals.transport":            TransportBridge,
		"signals.bridge.token":         "",
		"signals.kafka.brokers":        []string{"localhost:9092"},
		"signals.kafka.topic_prefix":   "vehicle.",
		"signals.kafka.services_topic": "vehicle.services",
		"signals.kafka.max_wait":       "250ms",

		"selfcheck.mode":               ModeSequential,
		"selfcheck.max_workers":        defaultMaxWorkers,
		"selfcheck.pass_timeout":       "0s",
		"selfcheck.check_timeout":      "0s",
		"selfcheck.short_timeout":      "1s",
		"selfcheck.long_timeout":       "3s",
		"selfcheck.camera":             "main_camera",
		"selfcheck.velocity_tolerance": defaultVelocityTolerance,
		"selfcheck.bridge_check":       true,

		"report.format": ReportLog,

		"server.host":          "0.0.0.0",
		"server.port":          defaultServerPort,
		"server.read_timeout":  "5s",
		"server.write_timeout": "15s",
		"server.idle_timeout":  "120s",
		"server.max_wait":      "10s",

		"simulator.enabled":          true,
		"simulator.rate":             "100ms",
		"simulator.max_age":          "2s",
		"simulator.camera":           "main_camera",
		"simulator.fcu_connected":    true,
		"simulator.horizontal_drift": 0.0,
		"simulator.vertical_drift":   0.0,
		"simulator.suppress":         []string{},
		"simulator.mirror_kafka":     false,
	}
}
