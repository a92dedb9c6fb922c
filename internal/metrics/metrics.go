package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	registry *prometheus.Registry

	// Generation metrics
	GenerationsTotal *prometheus.CounterVec
	SlotDuration     *prometheus.HistogramVec
	SlotErrorsTotal  *prometheus.CounterVec

	// Session metrics
	SessionsActive       prometheus.Gauge
	SessionsCreatedTotal prometheus.Counter
	SessionsEvictedTotal prometheus.Counter
}

// NewMetrics creates and registers all metrics
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		// Generation metrics
		GenerationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blueprint_generations_total",
				Help: "Total number of finished generation runs",
			},
			[]string{"status"},
		),
		SlotDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "blueprint_slot_duration_seconds",
				Help:    "Duration of document slot generation in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 90, 120},
			},
			[]string{"slot"},
		),
		SlotErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blueprint_slot_errors_total",
				Help: "Total number of document slot generation errors",
			},
			[]string{"slot", "reason"},
		),

		// Session metrics
		SessionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "blueprint_sessions_active",
				Help: "Number of sessions currently held in the registry",
			},
		),
		SessionsCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "blueprint_sessions_created_total",
				Help: "Total number of sessions created",
			},
		),
		SessionsEvictedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "blueprint_sessions_evicted_total",
				Help: "Total number of sessions evicted after retention expiry",
			},
		),
	}

	// Register all metrics
	m.registerMetrics()

	return m
}

// registerMetrics registers all metrics with the registry
func (m *Metrics) registerMetrics() {
	// Generation metrics
	m.registry.MustRegister(m.GenerationsTotal)
	m.registry.MustRegister(m.SlotDuration)
	m.registry.MustRegister(m.SlotErrorsTotal)

	// Session metrics
	m.registry.MustRegister(m.SessionsActive)
	m.registry.MustRegister(m.SessionsCreatedTotal)
	m.registry.MustRegister(m.SessionsEvictedTotal)
}

// Handler returns an HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
