// Package signal holds the values exchanged with vehicle signal sources: the
// generic Sample envelope, the payload types probes decode, and the sentinel
// errors sources return for expected unavailability.
package signal

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for errors.Is() checking.
var (
	// ErrNoSignal is returned when no sample arrived on a topic.
	ErrNoSignal = errors.New("no signal")
	// ErrServiceUnavailable is returned when a service is not offered.
	ErrServiceUnavailable = errors.New("service unavailable")
	// ErrTimeout is returned when a query did not resolve before its deadline.
	ErrTimeout = errors.New("signal query timed out")
)

// Sample is one value observed on a topic. Data holds the JSON-encoded
// payload; use Decode to unmarshal it into one of the payload types.
type Sample struct {
	ID    string          `json:"id"`
	Stamp time.Time       `json:"stamp"`
	Data  json.RawMessage `json:"data"`
}

// NewSample encodes payload into a Sample stamped with the given time.
func NewSample(id string, stamp time.Time, payload any) (Sample, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Sample{}, fmt.Errorf("encoding %s payload: %w", id, err)
	}
	return Sample{ID: id, Stamp: stamp, Data: data}, nil
}

// Decode unmarshals the sample payload into v.
func (s Sample) Decode(v any) error {
	if len(s.Data) == 0 {
		return fmt.Errorf("decoding %s: empty payload", s.ID)
	}
	if err := json.Unmarshal(s.Data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", s.ID, err)
	}
	return nil
}
