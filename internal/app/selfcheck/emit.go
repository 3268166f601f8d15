package selfcheck

import (
	"context"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain/check"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/ports"
)

// PassMessage is the message emitted for a passing check.
const PassMessage = "OK"

// EmitOutcome renders o to reporter: one "OK" line at info when it passed,
// otherwise one warning line per failure message, in recorded order.
func EmitOutcome(ctx context.Context, reporter ports.Reporter, o check.Outcome) {
	if o.Passed {
		reporter.Emit(ctx, o.Name, check.SeverityInfo, PassMessage)
		return
	}
	for _, f := range o.Failures {
		reporter.Emit(ctx, o.Name, check.SeverityWarning, f.Message)
	}
}
