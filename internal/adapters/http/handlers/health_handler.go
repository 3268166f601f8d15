package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/adapters/http/dto"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/ports"
)

// Inventory lists what the bridge currently retains.
type Inventory interface {
	Topics() []string
	Services() []string
}

// HealthHandler serves the bridge health endpoints.
type HealthHandler struct {
	registry  ports.HealthRegistry
	inventory Inventory
}

// NewHealthHandler returns a handler that reports the components in registry
// and the signals held by inventory.
func NewHealthHandler(registry ports.HealthRegistry, inventory Inventory) *HealthHandler {
	return &HealthHandler{registry: registry, inventory: inventory}
}

// Liveness handles GET /health/live. It always answers 200; the self-check
// uses it to test bridge reachability.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.status(dto.StatusLive))
}

// Readiness handles GET /health/ready. It answers 503 while any registered
// component (a simulator that has not ticked recently, an unreachable Kafka
// mirror) is failing.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	results := h.registry.CheckAll(r.Context())

	body := h.status(dto.StatusReady)
	body.Components = make(map[string]dto.ComponentStatus, len(results))

	code := http.StatusOK
	for name, err := range results {
		c := dto.ComponentStatus{Ready: err == nil}
		if err != nil {
			c.Error = err.Error()
			body.Status = dto.StatusNotReady
			code = http.StatusServiceUnavailable
		}
		body.Components[name] = c
	}

	writeJSON(w, code, body)
}

func (h *HealthHandler) status(s string) dto.BridgeStatus {
	return dto.BridgeStatus{
		Status:   s,
		Topics:   len(h.inventory.Topics()),
		Services: len(h.inventory.Services()),
	}
}
