package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Lookups tracks result cache reads by outcome
	Lookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_lookups_total",
			Help: "Total number of result cache lookups",
		},
		[]string{"result"}, // "hit", "miss", "error", "corrupt"
	)

	// Writes tracks result cache writes by outcome
	Writes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_writes_total",
			Help: "Total number of result cache writes",
		},
		[]string{"result"}, // "stored", "error"
	)

	// PayloadBytes tracks the size of cached result pages
	PayloadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_cache_payload_bytes",
			Help:    "Size of result cache payloads in bytes",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
	)
)
