package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ジョブ メトリクス
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fluxdl_jobs_total",
			Help: "Total number of finished download jobs",
		},
		[]string{"status"}, // completed, error, cancelled
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fluxdl_job_duration_seconds",
			Help:    "Download job duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800, 3600},
		},
		[]string{"format"},
	)

	ActiveJobs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fluxdl_active_jobs",
			Help: "Number of download jobs currently running",
		},
	)

	JobsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fluxdl_jobs_evicted_total",
			Help: "Number of finished jobs removed by the retention janitor",
		},
	)

	// ミラー（アップロード）メトリクス
	MirrorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fluxdl_mirror_duration_seconds",
			Help:    "Mirror upload duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"storage_type"},
	)

	MirrorSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fluxdl_mirror_size_bytes",
			Help:    "Mirrored file size in bytes",
			Buckets: prometheus.ExponentialBuckets(1024*1024, 2, 12), // 1MB to 4GB
		},
		[]string{"storage_type"},
	)

	MirrorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fluxdl_mirror_failures_total",
			Help: "Number of files that could not be mirrored",
		},
		[]string{"storage_type"},
	)
)
