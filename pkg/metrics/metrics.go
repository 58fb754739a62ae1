// Package metrics exposes the Prometheus registry used by the selector.
// Metrics are defined in their own packages (catalog, cache, ratelimit,
// pagecache, selection) and registered there through promauto.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry all packages register with.
var Registry = prometheus.DefaultRegisterer

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Catalog requests (pkg/catalog):
//   - artic_requests_total{status} (Counter): page requests by HTTP status or error class
//   - artic_request_duration_seconds (Histogram): page request duration
//   - artic_errors_total{class} (Counter): fetch errors by class
//
// Response store (pkg/cache):
//   - artic_cache_revalidated_total (Counter): 304 answers served from Redis
//   - artic_cache_misses_total (Counter): lookups without a stored response
//   - artic_cache_stored_bytes (Gauge): size of the last stored response
//   - artic_cache_errors_total{operation} (Counter): Redis errors
//
// Rate limit (pkg/ratelimit):
//   - artic_rate_limit_remaining (Gauge): requests left in the window
//   - artic_rate_limit_blocks_total (Counter): requests refused locally
//   - artic_rate_limit_throttles_total (Counter): requests delayed
//
// Page cache (pkg/pagecache):
//   - artic_page_loads_total{outcome} (Counter): applied, stale, failed
//
// Selection (pkg/selection):
//   - artic_selection_size (Gauge): selected artworks across all pages
//   - artic_selection_ops_total{op} (Counter): reconcile, bulk_select
//
// Example Prometheus Queries:
//
//   # Share of page completions discarded as stale
//   rate(artic_page_loads_total{outcome="stale"}[5m]) / rate(artic_page_loads_total[5m])
//
//   # P95 request latency
//   histogram_quantile(0.95, rate(artic_request_duration_seconds_bucket[5m]))
