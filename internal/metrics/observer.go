package metrics

import (
	"time"

	"github.com/danish/blueprint/pkg/registry"
)

// RegistryObserver adapts Metrics to the session registry's observer
// interface.
type RegistryObserver struct {
	metrics *Metrics
}

// NewRegistryObserver creates a registry observer backed by metrics
func NewRegistryObserver(m *Metrics) *RegistryObserver {
	return &RegistryObserver{metrics: m}
}

// SessionCreated records a new session
func (o *RegistryObserver) SessionCreated() {
	o.metrics.SessionsCreatedTotal.Inc()
}

// SessionsEvicted records a completed eviction sweep
func (o *RegistryObserver) SessionsEvicted(n int) {
	o.metrics.SessionsEvictedTotal.Add(float64(n))
}

// SessionsActive records the current registry size
func (o *RegistryObserver) SessionsActive(n int) {
	o.metrics.SessionsActive.Set(float64(n))
}

// DriverObserver adapts Metrics to the generation driver's observer
// interface.
type DriverObserver struct {
	metrics *Metrics
}

// NewDriverObserver creates a driver observer backed by metrics
func NewDriverObserver(m *Metrics) *DriverObserver {
	return &DriverObserver{metrics: m}
}

// SlotGenerated records a successful slot generation
func (o *DriverObserver) SlotGenerated(slot string, duration time.Duration) {
	o.metrics.SlotDuration.WithLabelValues(slot).Observe(duration.Seconds())
}

// SlotFailed records a failed slot generation
func (o *DriverObserver) SlotFailed(slot, reason string) {
	o.metrics.SlotErrorsTotal.WithLabelValues(slot, reason).Inc()
}

// GenerationFinished records a finished run
func (o *DriverObserver) GenerationFinished(status registry.Status) {
	o.metrics.GenerationsTotal.WithLabelValues(string(status)).Inc()
}
