package analysis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cutbrick",
		Name:      "records_processed_total",
		Help:      "Records read from the source",
	}, []string{"task"})

	recordsSelected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cutbrick",
		Name:      "records_selected_total",
		Help:      "Records passing every enabled cut",
	}, []string{"task"})

	recordsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cutbrick",
		Name:      "records_failed_total",
		Help:      "Records that could not be filtered",
	}, []string{"task"})

	cutPassed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cutbrick",
		Name:      "cut_passed_total",
		Help:      "Records passing a cut",
	}, []string{"task", "cut"})

	flushDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cutbrick",
		Name:      "sink_flush_duration_seconds",
		Help:      "Time spent writing counts to the sink",
		Buckets:   prometheus.DefBuckets,
	}, []string{"task"})
)
