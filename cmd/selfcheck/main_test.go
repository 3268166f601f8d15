package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	adapthttp "github.com/jsamuelsen11/vehicle-selfcheck/internal/adapters/http"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/adapters/signals/memory"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/app/probes"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/app/selfcheck"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/app/simulator"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/config"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/ports"
	"github.com/jsamuelsen11/vehicle-selfcheck/mocks"
)

// startBridge serves a memory store over the bridge routes. When healthy is
// set, one round of simulated telemetry is published first.
func startBridge(t *testing.T, healthy bool) string {
	t.Helper()

	store := memory.NewStore()
	if healthy {
		sim := simulator.New(config.SimulatorConfig{
			Rate: time.Second, Camera: "main_camera", FCUConnected: true,
		}, nil, slog.New(slog.DiscardHandler), store)
		if err := sim.Tick(context.Background()); err != nil {
			t.Fatalf("Tick() error = %v", err)
		}
	}

	registry := mocks.NewMockHealthRegistry(t)
	registry.EXPECT().CheckAll(mock.Anything).Return(map[string]error{}).Maybe()

	ts := httptest.NewServer(adapthttp.NewRouter(
		handlers.NewSignalHandler(store, time.Second),
		handlers.NewHealthHandler(registry, store),
		nil,
	))
	t.Cleanup(ts.Close)
	return ts.URL
}

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()

	dir := t.TempDir()
	base := fmt.Sprintf(`log:
  level: error
  format: text
client:
  base_url: %s
  timeout: 2s
  retry:
    max_attempts: 1
selfcheck:
  short_timeout: 100ms
  long_timeout: 100ms
report:
  format: console
`, baseURL)
	if err := os.WriteFile(filepath.Join(dir, "base.yaml"), []byte(base), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "test.yaml"), []byte("selfcheck:\n  mode: sequential\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

// registeredChecks counts the checks a bridge-backed run registers.
func registeredChecks(t *testing.T) int {
	t.Helper()

	src := struct {
		ports.SignalSource
		ports.Pinger
	}{memory.NewStore(), mocks.NewMockPinger(t)}

	reg := selfcheck.NewRegistry()
	if err := probes.Register(reg, src, probes.DefaultOptions()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return reg.Len()
}

// Not parallel: run reads APP_PROFILE.

func TestRun_HealthyVehicle(t *testing.T) {
	t.Setenv("APP_PROFILE", "test")
	dir := writeConfig(t, startBridge(t, true))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config-dir", dir}, &stdout, &stderr)

	if code != exitPassed {
		t.Fatalf("exit code = %d, want %d; stdout = %s; stderr = %s", code, exitPassed, stdout.String(), stderr.String())
	}
	n := registeredChecks(t)
	if n != 9 {
		t.Errorf("registered checks = %d, want 9 (bridge plus eight vehicle checks)", n)
	}
	out := stdout.String()
	summary := fmt.Sprintf("%d checks: %d passed, 0 failed", n, n)
	for _, want := range []string{"INFO  Telemetry bridge: OK", "INFO  FCU: OK", "INFO  Simple offboard node: OK", summary} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
}

func TestRun_SilentVehicle(t *testing.T) {
	t.Setenv("APP_PROFILE", "test")
	dir := writeConfig(t, startBridge(t, false))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config-dir", dir}, &stdout, &stderr)

	if code != exitFailed {
		t.Fatalf("exit code = %d, want %d; stdout = %s", code, exitFailed, stdout.String())
	}
	out := stdout.String()
	for _, want := range []string{
		"INFO  Telemetry bridge: OK",
		"WARN  FCU: No MAVROS state",
		"WARN  Camera: No main_camera camera images",
		"WARN  Camera: No main_camera camera info",
		"WARN  Simple offboard node: No simple_offboard services",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
}

func TestRun_BootstrapFailures(t *testing.T) {
	tests := []struct {
		name    string
		profile string
		args    []string
	}{
		{name: "missing profile", profile: ""},
		{name: "unknown profile", profile: "nope"},
		{name: "bad flag", profile: "test", args: []string{"-unknown"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_PROFILE", tt.profile)
			dir := writeConfig(t, "http://127.0.0.1:1")

			var stdout, stderr bytes.Buffer
			args := append([]string{"-config-dir", dir}, tt.args...)
			if code := run(args, &stdout, &stderr); code != exitBootstrap {
				t.Errorf("exit code = %d, want %d; stderr = %s", code, exitBootstrap, stderr.String())
			}
		})
	}
}
