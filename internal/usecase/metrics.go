package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var mergeSkippedEntries = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "cart_merge_skipped_entries_total",
		Help: "Total number of guest cart entries skipped during merge",
	},
)
