// Package metrics exposes Prometheus counters for the dashboard.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "offerplan_http_requests_total",
		Help: "HTTP requests served, by method, route and status code.",
	}, []string{"method", "route", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "offerplan_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	PlanEditsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "offerplan_plan_edits_total",
		Help: "Plan mutations, by operation.",
	}, []string{"operation"})

	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "offerplan_exports_total",
		Help: "Exports rendered, by format.",
	}, []string{"format"})

	SummaryCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "offerplan_summary_cache_hits_total",
		Help: "Summary cache hits.",
	})

	SummaryCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "offerplan_summary_cache_misses_total",
		Help: "Summary cache misses.",
	})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
