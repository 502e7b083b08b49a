// Package metrics holds the Prometheus collectors exposed by the dispatch
// pipeline. Collectors register against the default registry; serve them
// with promhttp.Handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// DispatchedRequests counts completed transactions by verb and final
	// status.
	DispatchedRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jooby_dispatch_requests_total",
			Help: "The number of dispatched requests by verb and status",
		},
		[]string{"verb", "status"},
	)

	// DispatchDuration observes wall time per transaction.
	DispatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "jooby_dispatch_duration_seconds",
			Help: "The time it took to dispatch a request",
		},
	)

	// FallbackResponses counts requests answered by a synthetic fallback
	// route, by status.
	FallbackResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jooby_dispatch_fallbacks_total",
			Help: "The number of requests answered by a synthetic fallback route",
		},
		[]string{"status"},
	)

	// PanicRecoveries counts handler panics converted into error responses.
	PanicRecoveries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jooby_dispatch_panic_recoveries_total",
			Help: "The number of panics recovered from route handlers",
		},
	)
)

func init() {
	prometheus.MustRegister(DispatchedRequests)
	prometheus.MustRegister(DispatchDuration)
	prometheus.MustRegister(FallbackResponses)
	prometheus.MustRegister(PanicRecoveries)
}
