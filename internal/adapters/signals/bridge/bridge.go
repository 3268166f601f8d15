// Package bridge is the HTTP signal transport. Source queries a telemetry
// bridge for samples and services, and can also publish into it, so the same
// client drives both the self-check and remote fault injection.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain/signal"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/httpclient"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.SignalSource = (*Source)(nil)
	_ ports.SignalSink   = (*Source)(nil)
	_ ports.Pinger       = (*Source)(nil)
)

const (
	topicsPath   = "/v1/topics/"
	servicesPath = "/v1/services/"
	livePath     = "/health/live"

	// maxWaitMargin is the most time reserved for the round trip when a
	// context deadline is turned into a server-side wait.
	maxWaitMargin = 100 * time.Millisecond
)

// waitParams is the query string of long-poll requests.
type waitParams struct {
	Wait string `url:"wait,omitempty"`
}

// ServiceStatus is the bridge answer to a service query.
type ServiceStatus struct {
	Service   string `json:"service"`
	Available bool   `json:"available"`
}

// Source is the bridge-backed signal source. Every call goes through
// httpclient.Client and therefore its circuit breaker, rate limiter and
// retry policy.
type Source struct {
	client *httpclient.Client
	req    *requester
}

// New creates a Source sending requests through client.
func New(client *httpclient.Client, logger *slog.Logger) *Source {
	return &Source{
		client: client,
		req:    &requester{client: client, logger: logger.With(slog.String("peer", client.Name()))},
	}
}

// AwaitValue long-polls GET /v1/topics/{id}. The server-side wait is derived
// from the ctx deadline. A 404 means nothing arrived and maps to
// signal.ErrNoSignal.
func (s *Source) AwaitValue(ctx context.Context, id string) (signal.Sample, error) {
	path, err := waitPath(ctx, topicsPath, id)
	if err != nil {
		return signal.Sample{}, err
	}

	var sample signal.Sample
	if err := s.req.do(ctx, http.MethodGet, path, http.StatusOK, nil, &sample); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return signal.Sample{}, fmt.Errorf("%w on %s: %w", signal.ErrNoSignal, id, err)
		}
		return signal.Sample{}, fmt.Errorf("awaiting %s: %w", id, err)
	}
	return sample, nil
}

// AwaitService long-polls GET /v1/services/{id}. A 404 maps to
// signal.ErrServiceUnavailable.
func (s *Source) AwaitService(ctx context.Context, id string) error {
	path, err := waitPath(ctx, servicesPath, id)
	if err != nil {
		return err
	}

	var status ServiceStatus
	if err := s.req.do(ctx, http.MethodGet, path, http.StatusOK, nil, &status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: %s: %w", signal.ErrServiceUnavailable, id, err)
		}
		return fmt.Errorf("awaiting service %s: %w", id, err)
	}
	if !status.Available {
		return fmt.Errorf("%w: %s", signal.ErrServiceUnavailable, id)
	}
	return nil
}

// Ping reports whether the bridge is reachable. An open circuit breaker
// fails fast without a request; otherwise GET /health/live must answer 200.
func (s *Source) Ping(ctx context.Context) error {
	if err := s.client.BreakerCheck(); err != nil {
		return fmt.Errorf("pinging bridge: %w", err)
	}
	if err := s.req.do(ctx, http.MethodGet, livePath, http.StatusOK, nil, nil); err != nil {
		return fmt.Errorf("pinging bridge: %w", err)
	}
	return nil
}

// Publish stores payload as the latest sample on topic id via
// PUT /v1/topics/{id}.
func (s *Source) Publish(ctx context.Context, id string, payload any) error {
	if err := s.req.do(ctx, http.MethodPut, topicsPath+escapeID(id), http.StatusOK, payload, nil); err != nil {
		return fmt.Errorf("publishing %s: %w", id, err)
	}
	return nil
}

// Offer marks service id as available via PUT /v1/services/{id}.
func (s *Source) Offer(ctx context.Context, id string) error {
	if err := s.req.do(ctx, http.MethodPut, servicesPath+escapeID(id), http.StatusNoContent, nil, nil); err != nil {
		return fmt.Errorf("offering %s: %w", id, err)
	}
	return nil
}

// Withdraw marks service id as unavailable via DELETE /v1/services/{id}.
func (s *Source) Withdraw(ctx context.Context, id string) error {
	if err := s.req.do(ctx, http.MethodDelete, servicesPath+escapeID(id), http.StatusNoContent, nil, nil); err != nil {
		return fmt.Errorf("withdrawing %s: %w", id, err)
	}
	return nil
}

func waitPath(ctx context.Context, prefix, id string) (string, error) {
	v, err := query.Values(waitParams{Wait: waitFor(ctx)})
	if err != nil {
		return "", fmt.Errorf("encoding query for %s: %w", id, err)
	}

	path := prefix + escapeID(id)
	if q := v.Encode(); q != "" {
		path += "?" + q
	}
	return path, nil
}

// waitFor turns the ctx deadline into the server-side wait, keeping a
// margin so the 404 arrives before the deadline does. No deadline leaves
// the wait to the server's own cap.
func waitFor(ctx context.Context) string {
	deadline, ok := ctx.Deadline()
	if !ok {
		return ""
	}

	remaining := time.Until(deadline)
	margin := min(remaining/10, maxWaitMargin)
	wait := remaining - margin
	if wait <= 0 {
		return "0s"
	}
	return wait.Truncate(time.Millisecond).String()
}

// escapeID escapes each segment of a slash-separated id.
func escapeID(id string) string {
	segs := strings.Split(id, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
