// Package config provides configuration loading and validation for the
// self-check runner and the simulated telemetry bridge. Configuration is
// loaded from YAML files with environment variable overrides using a layered
// system: defaults -> base.yaml -> {profile}.yaml -> override file -> env vars.
package config

import "time"

// Config holds all configuration for both binaries. Sections that a binary
// does not use are still validated so one profile can drive both.
type Config struct {
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Client    ClientConfig    `koanf:"client"`
	Signals   SignalsConfig   `koanf:"signals"`
	SelfCheck SelfCheckConfig `koanf:"selfcheck"`
	Report    ReportConfig    `koanf:"report"`
	Server    ServerConfig    `koanf:"server"`
	Simulator SimulatorConfig `koanf:"simulator"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}

// ClientConfig holds the HTTP client settings used to reach the telemetry
// bridge.
type ClientConfig struct {
	BaseURL        string               `koanf:"base_url"`
	Timeout        time.Duration        `koanf:"timeout"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// RetryConfig holds retry policy settings with exponential backoff.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// RateLimitConfig holds client-side rate limiting. Zero RequestsPerSecond
// disables the limiter.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

// Transport names accepted by signals.transport.
const (
	TransportBridge = "bridge"
	TransportKafka  = "kafka"
)

// SignalsConfig selects and configures the signal source transport.
type SignalsConfig struct {
	Transport string       `koanf:"transport"`
	Bridge    BridgeConfig `koanf:"bridge"`
	Kafka     KafkaConfig  `koanf:"kafka"`
}

// BridgeConfig holds settings specific to the HTTP telemetry bridge. The
// connection itself is configured by ClientConfig.
type BridgeConfig struct {
	Token string `koanf:"token"`
}

// KafkaConfig holds settings for the Kafka signal transport.
type KafkaConfig struct {
	Brokers       []string      `koanf:"brokers"`
	TopicPrefix   string        `koanf:"topic_prefix"`
	ServicesTopic string        `koanf:"services_topic"`
	MaxWait       time.Duration `koanf:"max_wait"`
}

// Scheduling modes accepted by selfcheck.mode.
const (
	ModeSequential = "sequential"
	ModeConcurrent = "concurrent"
)

// SelfCheckConfig holds the pass scheduling options and the parameters
// compiled into the vehicle check registrations.
type SelfCheckConfig struct {
	Mode              string        `koanf:"mode"`
	MaxWorkers        int           `koanf:"max_workers"`
	PassTimeout       time.Duration `koanf:"pass_timeout"`
	CheckTimeout      time.Duration `koanf:"check_timeout"`
	ShortTimeout      time.Duration `koanf:"short_timeout"`
	LongTimeout       time.Duration `koanf:"long_timeout"`
	Camera            string        `koanf:"camera"`
	VelocityTolerance float64       `koanf:"velocity_tolerance"`
	BridgeCheck       bool          `koanf:"bridge_check"`
}

// Report formats accepted by report.format.
const (
	ReportLog     = "log"
	ReportConsole = "console"
	ReportBoth    = "both"
)

// ReportConfig selects how check results are rendered.
type ReportConfig struct {
	Format string `koanf:"format"`
}

// ServerConfig holds HTTP server settings for the telemetry bridge.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
	MaxWait      time.Duration `koanf:"max_wait"`
}

// SimulatorConfig controls the simulated vehicle published by the bridge.
type SimulatorConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Rate            time.Duration `koanf:"rate"`
	MaxAge          time.Duration `koanf:"max_age"`
	Camera          string        `koanf:"camera"`
	FCUConnected    bool          `koanf:"fcu_connected"`
	HorizontalDrift float64       `koanf:"horizontal_drift"`
	VerticalDrift   float64       `koanf:"vertical_drift"`
	Suppress        []string      `koanf:"suppress"`
	MirrorKafka     bool          `koanf:"mirror_kafka"`
}
