package ports

import (
	"context"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain/check"
)

// Reporter renders check results as they complete. Implementations must be
// safe for concurrent use.
type Reporter interface {
	// Emit renders one line for the named check: "OK" at info for a passing
	// check, or one failure message at warning.
	Emit(ctx context.Context, name string, severity check.Severity, message string)
}
