package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "practicelink"

// Enrichment Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Total number of search provider requests",
		},
		[]string{"status"},
	)

	SearchRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_request_duration_seconds",
			Help:      "Search provider request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8},
		},
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_cache_total",
			Help:      "Search cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	ProbesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "link_probes_total",
			Help:      "Link reachability probes",
		},
		[]string{"method", "result"},
	)

	ModelRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_requests_total",
			Help:      "Total number of generative model requests",
		},
		[]string{"operation", "model", "status"},
	)

	ModelRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_request_duration_seconds",
			Help:      "Generative model request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"operation", "model"},
	)

	ModelTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_tokens_total",
			Help:      "Total generative model tokens consumed",
		},
		[]string{"operation", "model", "type"},
	)

	TierLinksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrichment_links_total",
			Help:      "Links emitted by enrichment, by resolving tier",
		},
		[]string{"tier"},
	)

	ExternalCallFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "external_call_failures_total",
			Help:      "External calls absorbed as empty results",
		},
		[]string{"operation", "reason"},
	)

	EnrichmentDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "enrichment_duration_seconds",
			Help:      "End-to-end enrichment duration in seconds",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"bundle_source"},
	)

	PublishTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_total",
			Help:      "Publish pipeline runs by outcome",
		},
		[]string{"status"},
	)
)

var registerOnce sync.Once

// RegisterEnrichmentMetrics registers enrichment metrics with the default registry.
// Must be called once from main; repeated calls are no-ops.
func RegisterEnrichmentMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			SearchRequestsTotal,
			SearchRequestDuration,
			SearchCacheTotal,
			ProbesTotal,
			ModelRequestsTotal,
			ModelRequestDuration,
			ModelTokensTotal,
			TierLinksTotal,
			ExternalCallFailuresTotal,
			EnrichmentDuration,
			PublishTotal,
		)
	})
}
