// Package metrics provides Prometheus metrics for pipeline stages.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// taskTotal records finished stage tasks.
	// Labels:
	//   - stage: Pipeline stage ("transcribe", "summarize")
	//   - status: Final task status ("success", "failed")
	taskTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_tasks_total",
			Help: "Total number of finished pipeline tasks",
		},
		[]string{"stage", "status"},
	)

	// taskRetries records retry attempts beyond the first try.
	taskRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_task_retries_total",
			Help: "Total number of pipeline task retries",
		},
		[]string{"stage"},
	)

	// taskDuration records wall time per task, retries included.
	// Buckets cover quick local calls up to multi-minute remote ones.
	taskDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_task_duration_seconds",
			Help:    "Duration of pipeline tasks in seconds",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"stage"},
	)
)

func init() {
	prometheus.MustRegister(taskTotal)
	prometheus.MustRegister(taskRetries)
	prometheus.MustRegister(taskDuration)
}

// RecordTask records a finished task for the given stage.
func RecordTask(stage string, success bool) {
	status := "success"
	if !success {
		status = "failed"
	}
	taskTotal.WithLabelValues(stage, status).Inc()
}

// RecordRetry records one retry attempt for the given stage.
func RecordRetry(stage string) {
	taskRetries.WithLabelValues(stage).Inc()
}

// RecordDuration records the wall time of a finished task.
func RecordDuration(stage string, seconds float64) {
	taskDuration.WithLabelValues(stage).Observe(seconds)
}

// Handler exposes the registered metrics over HTTP.
func Handler() http.Handler {
	return promhttp.Handler()
}
