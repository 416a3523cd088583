// Package metrics exposes ingestion counters in the Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sales_messages/internal/sales"
)

const namespace = "sales"

// Recorder implements sales.Observer on top of a private registry.
type Recorder struct {
	registry *prometheus.Registry
	accepted *prometheus.CounterVec
	rejected *prometheus.CounterVec
	reports  *prometheus.CounterVec
	paused   prometheus.Gauge
}

var _ sales.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder with its collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		accepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_accepted_total",
			Help:      "Accepted message lines by kind.",
		}, []string{"kind"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_rejected_total",
			Help:      "Rejected message lines by reason.",
		}, []string{"reason"}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Reports written by type.",
		}, []string{"type"}),
		paused: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "paused",
			Help:      "1 once the pause ceiling has been reached.",
		}),
	}
	r.registry.MustRegister(r.accepted, r.rejected, r.reports, r.paused)
	return r
}

func (r *Recorder) MessageAccepted(kind sales.Kind) {
	r.accepted.WithLabelValues(kind.String()).Inc()
}

func (r *Recorder) MessageRejected(reason string) {
	r.rejected.WithLabelValues(reason).Inc()
}

func (r *Recorder) ReportEmitted(report string) {
	r.reports.WithLabelValues(report).Inc()
}

func (r *Recorder) Paused() {
	r.paused.Set(1)
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
