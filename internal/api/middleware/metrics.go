package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/profitbridge/platform-api/internal/observability"
)

// MetricsMiddleware records request duration and status per route pattern.
// The chi pattern ("/v1/deposits/{id}") keeps label cardinality bounded;
// unmatched requests fall back to the raw path.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			observability.ObserveHTTP(r.Method, route, rw.status, time.Since(start))
		}()

		next.ServeHTTP(rw, r)
	})
}
