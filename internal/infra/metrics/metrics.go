package metrics

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(httpRequestsTotal, httpRequestDuration) }

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Admin API requests by route pattern, method and status code.",
		},
		[]string{"route", "method", "code"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_ms",
			Help:    "Admin API latency distribution in milliseconds.",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"route", "method"},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func ObserveHTTPRequest(route, method string, code int, latencyMs int64) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(route, norm(method), strconv.Itoa(code)).Inc()
	httpRequestDuration.WithLabelValues(route, norm(method)).Observe(float64(latencyMs))
}
