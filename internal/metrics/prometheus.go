package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusExporter is an optional, parallel metrics sink: it records the
// same per-node outcomes the jsonl Journal does, but as Prometheus
// collectors suitable for scraping, rather than as durable run records.
// Nothing in the driver depends on it — a nil *PrometheusExporter is valid
// and every method on it becomes a no-op.
type PrometheusExporter struct {
	nodeLatency  *prometheus.HistogramVec
	retriesTotal *prometheus.CounterVec
	runsInflight prometheus.Gauge
}

// NewPrometheusExporter registers the automator_* collectors against
// registry. Pass prometheus.DefaultRegisterer for the global registry, or a
// fresh prometheus.NewRegistry() for test isolation.
func NewPrometheusExporter(registry prometheus.Registerer) *PrometheusExporter {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &PrometheusExporter{
		nodeLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "automator",
			Name:      "node_duration_ms",
			Help:      "Node execution duration in milliseconds, from first attempt to final outcome",
			Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000},
		}, []string{"action_ref", "status"}),
		retriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "automator",
			Name:      "node_retries_total",
			Help:      "Cumulative count of node retry attempts beyond the first",
		}, []string{"action_ref"}),
		runsInflight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "automator",
			Name:      "runs_inflight",
			Help:      "Number of workflow runs currently executing in this process",
		}),
	}
}

// RecordNode reports one node's final outcome: its total duration across
// all attempts, the status label ("success" or "error"), and how many
// retries (attempts beyond the first) it consumed.
func (p *PrometheusExporter) RecordNode(actionRef string, duration time.Duration, attempts int, ok bool) {
	if p == nil {
		return
	}
	status := "success"
	if !ok {
		status = "error"
	}
	p.nodeLatency.WithLabelValues(actionRef, status).Observe(float64(duration.Milliseconds()))
	if attempts > 1 {
		p.retriesTotal.WithLabelValues(actionRef).Add(float64(attempts - 1))
	}
}

// RunStarted increments the in-flight run gauge; call RunFinished via defer
// to decrement it when the run completes.
func (p *PrometheusExporter) RunStarted() {
	if p == nil {
		return
	}
	p.runsInflight.Inc()
}

// RunFinished decrements the in-flight run gauge.
func (p *PrometheusExporter) RunFinished() {
	if p == nil {
		return
	}
	p.runsInflight.Dec()
}
