package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	responseTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "response_time",
			Help:    "connection time from accept to close, in seconds.",
			Buckets: []float64{0.005, 0.05, 0.5, 1, 5, 10, 30, 60},
		},
	)

	totalHttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests", Help: "http requests by code, and method"},
		[]string{"code", "method"},
	)

	// route is the handler name, never the raw target, to keep cardinality bounded.
	totalHttpRequestsToRoute = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests_to_route", Help: "http requests by handler"},
		[]string{"code", "route", "method"},
	)

	rejectedRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "rejected_http_requests", Help: "requests rejected before dispatch"},
		[]string{"reason"},
	)

	openConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "open_connections", Help: "connections currently in a pipeline"},
	)

	registeredRoutes = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "registered_routes", Help: "route keys registered by the last scan"},
	)

	scanErrors = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "scan_errors", Help: "controller and duplicate-route errors seen while scanning"},
	)

	totalAdminRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_admin_http_requests", Help: "admin http requests by code, uri, method, and role"},
		[]string{"code", "uri", "method", "role"},
	)
)

func init() {
	prometheus.MustRegister(
		responseTime,
		totalHttpRequests,
		totalHttpRequestsToRoute,
		rejectedRequests,
		openConnections,
		registeredRoutes,
		scanErrors,
		totalAdminRequests,
	)
}
