// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlquery_queries_processed_total",
			Help: "Total number of natural-language queries processed",
		},
		[]string{"query_type"},
	)

	QueriesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlquery_queries_failed_total",
			Help: "Total number of queries that failed",
		},
		[]string{"query_type", "error_code"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "nlquery_query_duration_seconds",
			Help: "Duration of query processing in seconds",
		},
		[]string{"query_type"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlquery_cache_hits_total",
			Help: "Result cache hits per query type",
		},
		[]string{"query_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlquery_cache_misses_total",
			Help: "Result cache misses per query type",
		},
		[]string{"query_type"},
	)
)
