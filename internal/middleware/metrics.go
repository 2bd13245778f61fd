package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// HTTPObserver records served requests. *metrics.Metrics satisfies it.
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
}

// NewMetricsHandler reports every request to obs labelled by its chi route
// pattern, so path parameters do not explode label cardinality.
func NewMetricsHandler(obs HTTPObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			obs.ObserveHTTP(r.Method, route, status, time.Since(start))
		})
	}
}
