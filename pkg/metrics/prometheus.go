package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.service.Metrics using Prometheus.
type Recorder struct {
	classifications *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	positionSize    *prometheus.GaugeVec
	latency         *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		classifications: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "regimegate_classifications_total",
				Help: "Total number of bars classified, by resulting label",
			},
			[]string{"label"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "regimegate_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		positionSize: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "regimegate_position_size",
				Help: "Last position size multiplier decided for a symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "regimegate_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordClassification counts one classified bar by label.
func (r *Recorder) RecordClassification(label string) {
	r.classifications.WithLabelValues(label).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordPositionSize records the decided position size for a symbol.
func (r *Recorder) RecordPositionSize(symbol string, size float64) {
	r.positionSize.WithLabelValues(symbol).Set(size)
}
