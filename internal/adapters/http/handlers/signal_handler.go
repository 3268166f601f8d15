package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/adapters/http/dto"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain/signal"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/platform/logging"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/ports"
)

// SignalStore is the retained-value store the bridge serves from.
type SignalStore interface {
	ports.SignalSource
	ports.SignalSink

	// Put stores an already encoded sample.
	Put(sample signal.Sample) error
	// Clear drops the retained sample on topic id and reports whether
	// there was one.
	Clear(id string) bool
	// Topics returns the ids of retained samples, sorted.
	Topics() []string
	// Services returns the ids of offered services, sorted.
	Services() []string
}

// SignalHandler serves the topic and service routes of the telemetry bridge.
type SignalHandler struct {
	store   SignalStore
	maxWait time.Duration
	now     func() time.Time
}

// NewSignalHandler creates a SignalHandler. maxWait caps the wait query
// parameter and is the wait used when none is given.
func NewSignalHandler(store SignalStore, maxWait time.Duration) *SignalHandler {
	return &SignalHandler{store: store, maxWait: maxWait, now: time.Now}
}

// ListTopics handles GET /v1/topics.
func (h *SignalHandler) ListTopics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dto.TopicList{Topics: h.store.Topics()})
}

// GetTopic handles GET /v1/topics/{id...}?wait=. It answers with the
// retained sample, or waits up to wait for one and answers 404 otherwise.
func (h *SignalHandler) GetTopic(w http.ResponseWriter, r *http.Request) {
	id, wait, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), wait)
	defer cancel()

	sample, err := h.store.AwaitValue(ctx, id)
	if err != nil {
		h.writeAwaitError(w, r, fmt.Errorf("%w on %s within %s", signal.ErrNoSignal, id, wait), err)
		return
	}
	writeJSON(w, http.StatusOK, sample)
}

// PutTopic handles PUT and POST /v1/topics/{id...}. The body is the raw
// JSON payload; it is stored as the latest sample, stamped now.
func (h *SignalHandler) PutTopic(w http.ResponseWriter, r *http.Request) {
	id, err := signalID(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var payload json.RawMessage
	if !decodeJSONBody(w, r, &payload) {
		return
	}

	sample := signal.Sample{ID: id, Stamp: h.now().UTC(), Data: payload}
	if err := h.store.Put(sample); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "failed to store sample",
			slog.String("operation", "PutTopic"),
			slog.String("signal", id),
			slog.Any("error", err),
		)
		dto.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sample)
}

// DeleteTopic handles DELETE /v1/topics/{id...}.
func (h *SignalHandler) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	id, err := signalID(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if !h.store.Clear(id) {
		dto.WriteErrorResponse(w, r, fmt.Errorf("topic %s: %w", id, domain.ErrNotFound))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListServices handles GET /v1/services.
func (h *SignalHandler) ListServices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dto.ServiceList{Services: h.store.Services()})
}

// GetService handles GET /v1/services/{id...}?wait=. It answers once the
// service is offered, or 404 after wait.
func (h *SignalHandler) GetService(w http.ResponseWriter, r *http.Request) {
	id, wait, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), wait)
	defer cancel()

	if err := h.store.AwaitService(ctx, id); err != nil {
		h.writeAwaitError(w, r, fmt.Errorf("%w: %s not offered within %s", signal.ErrServiceUnavailable, id, wait), err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ServiceStatus{Service: id, Available: true})
}

// OfferService handles PUT /v1/services/{id...}.
func (h *SignalHandler) OfferService(w http.ResponseWriter, r *http.Request) {
	h.updateService(w, r, h.store.Offer)
}

// WithdrawService handles DELETE /v1/services/{id...}.
func (h *SignalHandler) WithdrawService(w http.ResponseWriter, r *http.Request) {
	h.updateService(w, r, h.store.Withdraw)
}

func (h *SignalHandler) updateService(
	w http.ResponseWriter, r *http.Request, apply func(context.Context, string) error,
) {
	id, err := signalID(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	if err := apply(r.Context(), id); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SignalHandler) parseQuery(w http.ResponseWriter, r *http.Request) (string, time.Duration, bool) {
	id, err := signalID(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return "", 0, false
	}
	wait, err := dto.ParseWait(r, h.maxWait)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return "", 0, false
	}
	return id, wait, true
}

// writeAwaitError answers a long-poll that ran out. A client that went away
// gets nothing; an unexpected store error is a 500.
func (h *SignalHandler) writeAwaitError(w http.ResponseWriter, r *http.Request, absent, err error) {
	if r.Context().Err() != nil {
		logging.FromContext(r.Context()).DebugContext(r.Context(), "client gone during long-poll",
			slog.String("path", r.URL.Path),
		)
		return
	}
	if errors.Is(err, signal.ErrNoSignal) || errors.Is(err, signal.ErrServiceUnavailable) {
		dto.WriteErrorResponse(w, r, absent)
		return
	}
	dto.WriteErrorResponse(w, r, err)
}
