package middleware

import "net/http"

// Chain composes middlewares so that the first argument is the outermost:
// Chain(Recovery, RequestID, Logging)(h) is Recovery(RequestID(Logging(h))).
func Chain(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(handler http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler)
		}
		return handler
	}
}
