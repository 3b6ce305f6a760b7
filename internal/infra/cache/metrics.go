package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cart_cache_hits_total",
			Help: "Total number of cart cache hits",
		},
	)

	cacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cart_cache_misses_total",
			Help: "Total number of cart cache misses",
		},
	)

	cacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_cache_errors_total",
			Help: "Total number of cart cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "forget"
	)
)
