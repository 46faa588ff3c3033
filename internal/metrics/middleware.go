package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Label values for requests that carry no route or no session.
const (
	RouteUnmatched = "unmatched"
	RoleAnonymous  = "anonymous"
)

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds by route",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route", "status_class"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, status class and session role",
		},
		[]string{"method", "route", "status_class", "role"},
	)
)

// RoleFunc names the access tier of the request's session, or "" when anonymous.
type RoleFunc func(r *http.Request) string

// Middleware records request duration and count. It must run after the
// session middleware for role to be filled; a nil role labels every request
// anonymous.
func Middleware(role RoleFunc) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := routeLabel(r)
			class := statusClass(ww.Status())

			httpRequestDuration.WithLabelValues(r.Method, route, class).Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(r.Method, route, class, roleLabel(role, r)).Inc()
		})
	}
}

// routeLabel uses the chi pattern so path parameters never become labels.
func routeLabel(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.RoutePattern() == "" {
		return RouteUnmatched
	}
	return rctx.RoutePattern()
}

func roleLabel(role RoleFunc, r *http.Request) string {
	if role == nil {
		return RoleAnonymous
	}
	if v := role(r); v != "" {
		return v
	}
	return RoleAnonymous
}

// statusClass maps 404 to "4xx". A handler that never writes reports 200.
func statusClass(status int) string {
	if status == 0 {
		status = http.StatusOK
	}
	return strconv.Itoa(status/100) + "xx"
}
