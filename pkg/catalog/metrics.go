package catalog

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeCached     = "cached"
	outcomeComputed   = "computed"
	outcomeInvalid    = "invalid"
	outcomeStoreError = "store_error"
)

var (
	// Queries tracks catalog queries by outcome
	Queries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_queries_total",
			Help: "Total number of catalog queries",
		},
		[]string{"outcome"}, // "cached", "computed", "invalid", "store_error"
	)

	// QueryDuration tracks catalog query latency by outcome
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_query_duration_seconds",
			Help:    "Duration of catalog queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
)

func observe(outcome string, start time.Time) {
	Queries.WithLabelValues(outcome).Inc()
	QueryDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}
