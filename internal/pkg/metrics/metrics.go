// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts handled requests by route template, method and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "researchdesk_http_requests_total",
		Help: "The total number of handled HTTP requests",
	}, []string{"route", "method", "status"})

	// HTTPDuration observes request latency by route template and method.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "researchdesk_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	// AttachmentCleanupFailures counts stored files that could not be removed
	// after the record no longer referenced them.
	AttachmentCleanupFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "researchdesk_attachment_cleanup_failures_total",
		Help: "Orphaned attachment files that could not be deleted",
	}, []string{"dir"})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
