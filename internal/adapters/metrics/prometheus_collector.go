package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "wasteland"
	// Subsystem for simulation metrics
	subsystem = "engine"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalNarrativeCollector is set by SetGlobalNarrativeCollector when metrics are enabled
	globalNarrativeCollector NarrativeMetricsRecorder
)

// NarrativeMetricsRecorder records calls to the encounter text generator
type NarrativeMetricsRecorder interface {
	RecordNarrativeRequest(status string, duration time.Duration)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalNarrativeCollector sets the global narrative metrics collector
func SetGlobalNarrativeCollector(collector NarrativeMetricsRecorder) {
	globalNarrativeCollector = collector
}

// RecordNarrativeRequest records a generator call globally; a no-op while metrics are disabled
func RecordNarrativeRequest(status string, duration time.Duration) {
	if globalNarrativeCollector != nil {
		globalNarrativeCollector.RecordNarrativeRequest(status, duration)
	}
}

// register adds collectors to the global registry, or does nothing when metrics are disabled
func register(collectors ...prometheus.Collector) error {
	if Registry == nil {
		return nil // Metrics not enabled
	}
	for _, c := range collectors {
		if err := Registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}
