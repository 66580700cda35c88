package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// HTTP request totals by endpoint and status class
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "api_requests_total",
		Help: "Total HTTP requests by endpoint and status code.",
	}, []string{"endpoint", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "api_request_latency_seconds",
		Help:    "Latency of API endpoints.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	ABAssignmentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ab_assignments_total",
		Help: "A/B arm assignments by endpoint and arm.",
	}, []string{"endpoint", "arm"})
)

func Init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ABAssignmentsTotal,
	)
}
