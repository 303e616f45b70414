package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus метрики сервера Stencil.
var (
	// JobsCreated — количество созданных заданий генерации.
	JobsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stencil_jobs_created_total",
		Help: "Total number of generation jobs created.",
	})

	// JobsCompleted — количество завершённых заданий по статусу.
	JobsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stencil_jobs_completed_total",
		Help: "Total number of generation jobs completed, by status.",
	}, []string{"status"})

	// JobDuration — длительность выполнения задания.
	JobDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stencil_job_duration_seconds",
		Help:    "Generation job execution time in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	// CacheHits — попадания в кэш изображений.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stencil_image_cache_hits_total",
		Help: "Total number of image cache hits.",
	})

	// RenderErrors — ошибки рендера документов.
	RenderErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stencil_render_errors_total",
		Help: "Total number of document render failures.",
	})
)
