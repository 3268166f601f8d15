package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/config"
)

func TestLoad_LocalProfile(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load(\"local\") error: %v", err)
	}

	if cfg.Server.Port != 8090 {
		t.Errorf("Server.Port = %d, want 8090", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want \"debug\"", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want \"text\"", cfg.Log.Format)
	}
	if cfg.Report.Format != config.ReportConsole {
		t.Errorf("Report.Format = %q, want %q", cfg.Report.Format, config.ReportConsole)
	}
	if cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = true, want false for local")
	}
}

func TestLoad_SimProfile(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("sim")
	if err != nil {
		t.Fatalf("Load(\"sim\") error: %v", err)
	}

	if cfg.SelfCheck.Mode != config.ModeConcurrent {
		t.Errorf("SelfCheck.Mode = %q, want %q", cfg.SelfCheck.Mode, config.ModeConcurrent)
	}
	if cfg.SelfCheck.PassTimeout != 10*time.Second {
		t.Errorf("SelfCheck.PassTimeout = %v, want 10s", cfg.SelfCheck.PassTimeout)
	}
	want := []string{"main_camera/image_raw", "main_camera/camera_info"}
	if !reflect.DeepEqual(cfg.Simulator.Suppress, want) {
		t.Errorf("Simulator.Suppress = %v, want %v", cfg.Simulator.Suppress, want)
	}
	if cfg.Simulator.HorizontalDrift != 0.4 {
		t.Errorf("Simulator.HorizontalDrift = %v, want 0.4", cfg.Simulator.HorizontalDrift)
	}
}

func TestLoad_ProdProfile(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("prod")
	if err != nil {
		t.Fatalf("Load(\"prod\") error: %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want \"info\"", cfg.Log.Level)
	}
	if !cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = false, want true for prod")
	}
	if cfg.Telemetry.Exporter != "otlp" {
		t.Errorf("Telemetry.Exporter = %q, want \"otlp\"", cfg.Telemetry.Exporter)
	}
	if cfg.Telemetry.Endpoint == "" {
		t.Error("Telemetry.Endpoint is empty, want non-empty for prod")
	}
	if cfg.Signals.Transport != config.TransportKafka {
		t.Errorf("Signals.Transport = %q, want %q", cfg.Signals.Transport, config.TransportKafka)
	}
	if !reflect.DeepEqual(cfg.Signals.Kafka.Brokers, []string{"kafka:9092"}) {
		t.Errorf("Signals.Kafka.Brokers = %v, want [kafka:9092]", cfg.Signals.Kafka.Brokers)
	}
	if cfg.Simulator.Enabled {
		t.Error("Simulator.Enabled = true, want false for prod")
	}
}

func TestLoad_BaseConfigInheritance(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load(\"local\") error: %v", err)
	}

	// These come from base.yaml, not overridden by local.yaml.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want \"0.0.0.0\" (from base)", cfg.Server.Host)
	}
	if cfg.Client.Retry.MaxAttempts != 3 {
		t.Errorf("Client.Retry.MaxAttempts = %d, want 3 (from base)", cfg.Client.Retry.MaxAttempts)
	}
	if cfg.SelfCheck.ShortTimeout != time.Second {
		t.Errorf("SelfCheck.ShortTimeout = %v, want 1s (from base)", cfg.SelfCheck.ShortTimeout)
	}
	if cfg.SelfCheck.LongTimeout != 3*time.Second {
		t.Errorf("SelfCheck.LongTimeout = %v, want 3s (from base)", cfg.SelfCheck.LongTimeout)
	}
	if cfg.SelfCheck.Camera != "main_camera" {
		t.Errorf("SelfCheck.Camera = %q, want \"main_camera\" (from base)", cfg.SelfCheck.Camera)
	}
}

func TestLoad_DefaultsFillMissingKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.yaml"), "log:\n  level: warn\n")
	writeFile(t, filepath.Join(dir, "bare.yaml"), "{}\n")

	cfg, err := config.Load("bare", config.WithConfigDir(dir))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want \"warn\"", cfg.Log.Level)
	}
	if cfg.SelfCheck.VelocityTolerance != 0.1 {
		t.Errorf("SelfCheck.VelocityTolerance = %v, want 0.1 (default)", cfg.SelfCheck.VelocityTolerance)
	}
	if cfg.Server.MaxWait != 10*time.Second {
		t.Errorf("Server.MaxWait = %v, want 10s (default)", cfg.Server.MaxWait)
	}
}

func TestLoad_OverrideFile(t *testing.T) {
	t.Chdir("../../..")

	override := filepath.Join(t.TempDir(), "override.yaml")
	writeFile(t, override, "selfcheck:\n  camera: down_camera\n  velocity_tolerance: 0.25\n")

	cfg, err := config.Load("local", config.WithOverrideFile(override))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.SelfCheck.Camera != "down_camera" {
		t.Errorf("SelfCheck.Camera = %q, want \"down_camera\"", cfg.SelfCheck.Camera)
	}
	if cfg.SelfCheck.VelocityTolerance != 0.25 {
		t.Errorf("SelfCheck.VelocityTolerance = %v, want 0.25", cfg.SelfCheck.VelocityTolerance)
	}
}

func TestLoad_MissingOverrideFile(t *testing.T) {
	t.Chdir("../../..")

	_, err := config.Load("local", config.WithOverrideFile("does-not-exist.yaml"))
	if err == nil {
		t.Fatal("Load() returned nil error, want error for missing override file")
	}
}

func TestLoad_EnvOverrideSimpleKey(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_SERVER_PORT", "9090")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090 (env override)", cfg.Server.Port)
	}
}

func TestLoad_EnvOverrideSnakeCaseKey(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_SELFCHECK_VELOCITY_TOLERANCE", "0.3")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.SelfCheck.VelocityTolerance != 0.3 {
		t.Errorf("SelfCheck.VelocityTolerance = %v, want 0.3 (env override)", cfg.SelfCheck.VelocityTolerance)
	}
}

func TestLoad_EnvOverrideDeeplyNestedKey(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_SIGNALS_KAFKA_TOPIC_PREFIX", "drone7.")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Signals.Kafka.TopicPrefix != "drone7." {
		t.Errorf("Signals.Kafka.TopicPrefix = %q, want \"drone7.\" (env override)", cfg.Signals.Kafka.TopicPrefix)
	}
}

func TestLoad_EnvOverrideList(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_SIGNALS_KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	want := []string{"k1:9092", "k2:9092"}
	if !reflect.DeepEqual(cfg.Signals.Kafka.Brokers, want) {
		t.Errorf("Signals.Kafka.Brokers = %v, want %v", cfg.Signals.Kafka.Brokers, want)
	}
}

func TestLoad_MissingProfile(t *testing.T) {
	t.Chdir("../../..")

	_, err := config.Load("nonexistent")
	if err == nil {
		t.Fatal("Load(\"nonexistent\") returned nil error, want error")
	}
}

func TestLoad_InvalidProfileName(t *testing.T) {
	t.Parallel()

	for _, profile := range []string{"", "  ", "../etc", `a\b`, "a/b"} {
		if _, err := config.Load(profile); err == nil {
			t.Errorf("Load(%q) returned nil error, want error", profile)
		}
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error for valid config: %v", err)
	}
}

func TestValidate_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"port zero", func(c *config.Config) { c.Server.Port = 0 }},
		{"log level", func(c *config.Config) { c.Log.Level = "verbose" }},
		{"log format", func(c *config.Config) { c.Log.Format = "xml" }},
		{"otlp without endpoint", func(c *config.Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.Exporter = "otlp"
			c.Telemetry.Endpoint = ""
		}},
		{"unknown exporter", func(c *config.Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.Exporter = "zipkin"
		}},
		{"relative base url", func(c *config.Config) { c.Client.BaseURL = "localhost:8090" }},
		{"retry attempts", func(c *config.Config) { c.Client.Retry.MaxAttempts = 0 }},
		{"burst without size", func(c *config.Config) { c.Client.RateLimit.RequestsPerSecond = 5 }},
		{"transport", func(c *config.Config) { c.Signals.Transport = "ros" }},
		{"kafka without brokers", func(c *config.Config) {
			c.Signals.Transport = config.TransportKafka
			c.Signals.Kafka.Brokers = nil
		}},
		{"mode", func(c *config.Config) { c.SelfCheck.Mode = "parallel" }},
		{"workers", func(c *config.Config) { c.SelfCheck.MaxWorkers = 0 }},
		{"short timeout", func(c *config.Config) { c.SelfCheck.ShortTimeout = 0 }},
		{"negative pass timeout", func(c *config.Config) { c.SelfCheck.PassTimeout = -time.Second }},
		{"camera", func(c *config.Config) { c.SelfCheck.Camera = " " }},
		{"tolerance", func(c *config.Config) { c.SelfCheck.VelocityTolerance = 0 }},
		{"report format", func(c *config.Config) { c.Report.Format = "html" }},
		{"max wait exceeds write timeout", func(c *config.Config) { c.Server.MaxWait = time.Minute }},
		{"simulator rate", func(c *config.Config) { c.Simulator.Rate = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validBaseConfig()
			tt.mutate(cfg)

			if err := cfg.Validate(); err == nil {
				t.Fatal("Validate() returned nil, want error")
			}
		})
	}
}

func TestValidate_DisabledSectionsSkipped(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Telemetry.Enabled = false
	cfg.Telemetry.Exporter = "bogus"
	cfg.Simulator.Enabled = false
	cfg.Simulator.Rate = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error for disabled sections: %v", err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// validBaseConfig returns a Config with all fields set to valid values.
func validBaseConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:         "0.0.0.0",
			Port:         8090,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  120 * time.Second,
			MaxWait:      10 * time.Second,
		},
		Log: config.LogConfig{
			Level:  "info",
			Format: "json",
		},
		Client: config.ClientConfig{
			BaseURL: "http://localhost:8090",
			Timeout: 30 * time.Second,
			Retry: config.RetryConfig{
				MaxAttempts:     3,
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     time.Second,
				Multiplier:      2.0,
			},
			CircuitBreaker: config.CircuitBreakerConfig{
				MaxFailures:   5,
				Timeout:       30 * time.Second,
				HalfOpenLimit: 1,
			},
		},
		Telemetry: config.TelemetryConfig{
			Enabled:     false,
			Exporter:    "stdout",
			ServiceName: "vehicle-selfcheck",
		},
		Signals: config.SignalsConfig{
			Transport: config.TransportBridge,
			Kafka: config.KafkaConfig{
				Brokers:       []string{"localhost:9092"},
				TopicPrefix:   "vehicle.",
				ServicesTopic: "vehicle.services",
				MaxWait:       250 * time.Millisecond,
			},
		},
		SelfCheck: config.SelfCheckConfig{
			Mode:              config.ModeSequential,
			MaxWorkers:        4,
			ShortTimeout:      time.Second,
			LongTimeout:       3 * time.Second,
			Camera:            "main_camera",
			VelocityTolerance: 0.1,
			BridgeCheck:       true,
		},
		Report: config.ReportConfig{Format: config.ReportLog},
		Simulator: config.SimulatorConfig{
			Enabled: true,
			Rate:    100 * time.Millisecond,
			MaxAge:  2 * time.Second,
			Camera:  "main_camera",
		},
	}
}
