package dto

// Bridge health states reported in BridgeStatus.Status.
const (
	StatusLive     = "live"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
)

// BridgeStatus is the body of the bridge health endpoints. Topics and
// Services count what the bridge currently retains, so an operator can tell
// a reachable but empty bridge from one that is serving a vehicle.
type BridgeStatus struct {
	Status     string                     `json:"status"`
	Topics     int                        `json:"topics"`
	Services   int                        `json:"services"`
	Components map[string]ComponentStatus `json:"components,omitempty"`
}

// ComponentStatus is the readiness of one bridge component, such as the
// simulator or the Kafka mirror.
type ComponentStatus struct {
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}
