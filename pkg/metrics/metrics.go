// Package metrics exposes the Prometheus registry used by the catalog service.
// Metrics are defined with promauto next to the code that updates them
// (cache, catalog, storage, ratelimit, httpapi); this package serves them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the catalog service.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer Handler serves from.
var Gatherer = prometheus.DefaultGatherer

// BuildInfo is set to 1 for the running version.
var BuildInfo = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "catalog_build_info",
		Help: "Build information of the running catalog service",
	},
	[]string{"version"},
)

// SetVersion records the running version in BuildInfo.
func SetVersion(version string) {
	BuildInfo.Reset()
	BuildInfo.WithLabelValues(version).Set(1)
}

// Handler serves all registered metrics in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Query Metrics (pkg/catalog):
//   - catalog_queries_total{outcome} (Counter): Queries by outcome (cached, computed, invalid, store_error)
//   - catalog_query_duration_seconds{outcome} (Histogram): Query latency by outcome
//
// Result Cache Metrics (pkg/cache):
//   - catalog_cache_lookups_total{result} (Counter): Lookups by result (hit, miss, error, corrupt)
//   - catalog_cache_writes_total{result} (Counter): Writes by result (stored, error)
//   - catalog_cache_payload_bytes (Histogram): Size of cached pages
//
// Store Metrics (pkg/storage):
//   - catalog_store_retries_total{op} (Counter): Store retry attempts
//   - catalog_store_retry_backoff_seconds (Histogram): Backoff before retries
//   - catalog_store_retry_exhausted_total{op} (Counter): Calls that exhausted retries
//
// HTTP Metrics (internal/httpapi, pkg/ratelimit):
//   - catalog_http_requests_total{route, status} (Counter): Requests by route and status
//   - catalog_http_request_duration_seconds{route} (Histogram): Request latency by route
//   - catalog_rate_limited_total (Counter): Requests rejected by the per-client limiter
//   - catalog_rate_limit_clients (Gauge): Clients currently tracked by the limiter
//
// Example Prometheus Queries:
//
//   # Result Cache Hit Rate
//   sum(rate(catalog_cache_lookups_total{result="hit"}[5m])) /
//   sum(rate(catalog_cache_lookups_total[5m]))
//
//   # Degraded cache (errors instead of misses)
//   rate(catalog_cache_lookups_total{result="error"}[5m]) > 0
//
//   # P95 Computed Query Latency
//   histogram_quantile(0.95, rate(catalog_query_duration_seconds_bucket{outcome="computed"}[5m]))
