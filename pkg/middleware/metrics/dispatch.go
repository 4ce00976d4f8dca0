package metrics

import (
	"strconv"
	"time"
)

const unmatchedRoute = "unmatched"

// ObserveScan records the size of the route table and the errors seen building it.
func ObserveScan(routes, errs int) {
	registeredRoutes.Set(float64(routes))
	if errs > 0 {
		scanErrors.Add(float64(errs))
	}
}

// ObserveRequest records one finished pipeline. An empty route means no
// handler matched (or the request never reached dispatch).
func ObserveRequest(code int, route, method string, lat time.Duration) {
	if route == "" {
		route = unmatchedRoute
	}
	c := strconv.Itoa(code)
	totalHttpRequests.WithLabelValues(c, method).Inc()
	totalHttpRequestsToRoute.WithLabelValues(c, route, method).Inc()
	responseTime.Observe(lat.Seconds())
}

// ObserveRejected counts requests refused by the decoder ("oversized", "malformed").
func ObserveRejected(reason string) {
	rejectedRequests.WithLabelValues(reason).Inc()
}

func ConnOpened() { openConnections.Inc() }
func ConnClosed() { openConnections.Dec() }
