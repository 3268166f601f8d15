// Package http is the inbound HTTP adapter of the telemetry bridge: routing,
// handlers and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/adapters/http/handlers"
)

// NewRouter creates an HTTP handler with all bridge routes registered.
// Middleware is applied globally in the order given. A nil metrics handler
// leaves /metrics unrouted.
func NewRouter(
	signalHandler *handlers.SignalHandler,
	healthHandler *handlers.HealthHandler,
	metrics http.Handler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		// Topic ids contain slashes, so they are matched by the wildcard.
		r.Get("/topics", signalHandler.ListTopics)
		r.Get("/topics/*", signalHandler.GetTopic)
		r.Put("/topics/*", signalHandler.PutTopic)
		r.Post("/topics/*", signalHandler.PutTopic)
		r.Delete("/topics/*", signalHandler.DeleteTopic)

		r.Get("/services", signalHandler.ListServices)
		r.Get("/services/*", signalHandler.GetService)
		r.Put("/services/*", signalHandler.OfferService)
		r.Delete("/services/*", signalHandler.WithdrawService)
	})

	return r
}
