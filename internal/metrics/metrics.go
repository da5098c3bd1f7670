package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// ConsultationsTotal counts finished pipeline runs by outcome.
	ConsultationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aidoctor",
		Subsystem: "pipeline",
		Name:      "consultations_total",
		Help:      "Total number of consultation pipeline runs, labeled by result.",
	}, []string{"result"})

	// StageDurationSeconds is wall time per pipeline stage.
	StageDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "aidoctor",
		Subsystem: "pipeline",
		Name:      "stage_duration_seconds",
		Help:      "Time spent in each consultation pipeline stage.",
		// External inference calls dominate; keep buckets coarse.
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 60, 120},
	}, []string{"stage"})

	// InFlight is the current number of pipeline runs in progress.
	InFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "aidoctor",
		Subsystem: "pipeline",
		Name:      "in_flight",
		Help:      "Current number of consultation pipeline runs in progress.",
	})
)

// Register registers pipeline metrics with the default Prometheus
// registry. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			ConsultationsTotal,
			StageDurationSeconds,
			InFlight,
		)
	})
}
