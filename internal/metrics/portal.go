package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every portal metric.
const Namespace = "pfin"

// Portal Prometheus metrics.
var (
	SearchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_queries_total",
			Help:      "Total number of executed searches",
		},
		[]string{"kind", "status"}, // kind: search / random / users
	)

	SearchActiveFacets = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_active_facets",
			Help:      "Number of applied facets per search",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 11},
		},
		[]string{"kind"},
	)

	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_results",
			Help:      "Number of records returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
		},
		[]string{"kind"},
	)

	LoginAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome",
		},
		[]string{"outcome"}, // success / unknown_user / bad_password / error
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "active_sessions",
			Help:      "Sessions currently held by this process",
		},
	)
)

var registerPortalOnce sync.Once

// RegisterPortalMetrics registers the HTTP and portal metrics. Safe to call
// more than once.
func RegisterPortalMetrics() {
	registerPortalOnce.Do(func() {
		prometheus.MustRegister(httpRequestDuration)
		prometheus.MustRegister(httpRequestsTotal)
		prometheus.MustRegister(SearchQueriesTotal)
		prometheus.MustRegister(SearchActiveFacets)
		prometheus.MustRegister(SearchResults)
		prometheus.MustRegister(LoginAttemptsTotal)
		prometheus.MustRegister(ActiveSessions)
	})
}

// ObserveSearch records one search outcome.
func ObserveSearch(kind string, facets, results int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	SearchQueriesTotal.WithLabelValues(kind, status).Inc()
	if err != nil {
		return
	}
	SearchActiveFacets.WithLabelValues(kind).Observe(float64(facets))
	SearchResults.WithLabelValues(kind).Observe(float64(results))
}
