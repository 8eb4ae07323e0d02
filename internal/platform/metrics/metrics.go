// Package metrics exposes the Prometheus instruments for contract lifecycle
// operations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	lifecycleOps   *prometheus.CounterVec
	renderDuration prometheus.Histogram
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	lifecycleOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contractflow",
		Name:      "lifecycle_operations_total",
		Help:      "Contract lifecycle operations by operation and outcome.",
	}, []string{"op", "outcome"})
	registry.MustRegister(lifecycleOps)

	renderDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "contractflow",
		Name:      "render_duration_seconds",
		Help:      "Duration of full contract document renders.",
		Buckets:   prometheus.DefBuckets,
	})
	registry.MustRegister(renderDuration)

	return &Metrics{
		registry:       registry,
		lifecycleOps:   lifecycleOps,
		renderDuration: renderDuration,
	}
}

// ObserveOp records one lifecycle operation outcome. Nil receivers are no-ops
// so the service can run unmetered in tests.
func (m *Metrics) ObserveOp(op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.lifecycleOps.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) ObserveRender(d time.Duration) {
	if m == nil {
		return
	}
	m.renderDuration.Observe(d.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
