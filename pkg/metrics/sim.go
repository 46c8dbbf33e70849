package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Ticks processed across all runs
	TicksProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_ticks_processed_total",
		Help: "Total simulation ticks processed across all runs",
	})

	// Reviews written into review matrices
	ReviewsRecordedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_reviews_recorded_total",
		Help: "Total reviews recorded across all runs",
	})

	RunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sim_runs_total",
		Help: "Completed simulation runs by status",
	}, []string{"status"})

	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sim_run_duration_seconds",
		Help:    "Wall-clock duration of one simulation run",
		Buckets: prometheus.DefBuckets,
	})
)

func Init() {
	prometheus.MustRegister(
		TicksProcessedTotal,
		ReviewsRecordedTotal,
		RunsTotal,
		RunDuration,
	)
}
