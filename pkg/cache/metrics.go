package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Revalidated counts 304 answers served from a stored body
	Revalidated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "artic_cache_revalidated_total",
			Help: "Total number of 304 Not Modified answers served from the response store",
		},
	)

	// CacheMisses counts lookups that found nothing
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "artic_cache_misses_total",
			Help: "Total number of response store misses",
		},
	)

	// StoredBytes is the size of the last entry written
	StoredBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "artic_cache_stored_bytes",
			Help: "Size in bytes of the most recently stored response",
		},
	)

	// CacheErrors counts Redis failures by operation
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artic_cache_errors_total",
			Help: "Total number of response store errors",
		},
		[]string{"operation"}, // "lookup", "save", "touch", "forget"
	)
)
