// Package metrics provides operational counters for the engine. Callers see
// only the Recorder interface; the Prometheus implementation is wired in by
// the process entry point and a no-op recorder is the default elsewhere.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"geoveil/internal/types"
)

// Recorder receives engine events worth counting.
type Recorder interface {
	ObservationCreated(sensitiveMode bool)
	TransitionAccepted(next types.Status)
	TransitionRejected(code types.ErrorCode)
	HeatmapBuilt(cells, suppressed int, duration time.Duration)
}

// Nop discards all events.
type Nop struct{}

func (Nop) ObservationCreated(bool)              {}
func (Nop) TransitionAccepted(types.Status)      {}
func (Nop) TransitionRejected(types.ErrorCode)   {}
func (Nop) HeatmapBuilt(int, int, time.Duration) {}

// PrometheusRecorder implements Recorder with prometheus collectors.
type PrometheusRecorder struct {
	created    *prometheus.CounterVec
	accepted   *prometheus.CounterVec
	rejected   *prometheus.CounterVec
	suppressed prometheus.Counter
	cells      prometheus.Counter
	buildDur   prometheus.Summary
}

// NewPrometheusRecorder creates the engine collectors and registers them on reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geoveil",
			Name:      "observations_created_total",
			Help:      "Observation records created",
		}, []string{"sensitive"}),
		accepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geoveil",
			Name:      "transitions_accepted_total",
			Help:      "Accepted lifecycle transitions by target status",
		}, []string{"status"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geoveil",
			Name:      "transitions_rejected_total",
			Help:      "Rejected lifecycle transitions by error code",
		}, []string{"code"}),
		suppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "geoveil",
			Name:      "heatmap_cells_suppressed_total",
			Help:      "Grid cells dropped by the k-anonymity floor",
		}),
		cells: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "geoveil",
			Name:      "heatmap_cells_emitted_total",
			Help:      "Grid cells included in heatmap output",
		}),
		buildDur: prometheus.NewSummary(prometheus.SummaryOpts{
			Namespace: "geoveil",
			Name:      "heatmap_build_seconds",
			Help:      "Duration of heatmap pipeline runs",
		}),
	}
	reg.MustRegister(r.created, r.accepted, r.rejected, r.suppressed, r.cells, r.buildDur)
	return r
}

func (r *PrometheusRecorder) ObservationCreated(sensitiveMode bool) {
	label := "false"
	if sensitiveMode {
		label = "true"
	}
	r.created.WithLabelValues(label).Inc()
}

func (r *PrometheusRecorder) TransitionAccepted(next types.Status) {
	r.accepted.WithLabelValues(string(next)).Inc()
}

func (r *PrometheusRecorder) TransitionRejected(code types.ErrorCode) {
	r.rejected.WithLabelValues(string(code)).Inc()
}

func (r *PrometheusRecorder) HeatmapBuilt(cells, suppressed int, duration time.Duration) {
	r.cells.Add(float64(cells))
	r.suppressed.Add(float64(suppressed))
	r.buildDur.Observe(duration.Seconds())
}
