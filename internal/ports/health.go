package ports

import "context"

// HealthRegistry runs the readiness checks of the telemetry bridge.
type HealthRegistry interface {
	// CheckAll runs every registered check and returns results keyed by
	// name. Nil values indicate healthy components.
	CheckAll(ctx context.Context) map[string]error
}
