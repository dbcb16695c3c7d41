package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NarrativeMetricsCollector tracks the encounter text generator
type NarrativeMetricsCollector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram
}

// NewNarrativeMetricsCollector creates the generator metrics
func NewNarrativeMetricsCollector() *NarrativeMetricsCollector {
	return &NarrativeMetricsCollector{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "narrative",
				Name:      "requests_total",
				Help:      "Encounter generation requests by outcome",
			},
			[]string{"status"},
		),
		requestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "narrative",
				Name:      "request_duration_seconds",
				Help:      "Latency of encounter generation requests",
				Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20},
			},
		),
	}
}

// Register registers all metrics with the Prometheus registry
func (c *NarrativeMetricsCollector) Register() error {
	return register(c.requestsTotal, c.requestDuration)
}

// RecordNarrativeRequest counts one request; zero durations (never sent) are not observed
func (c *NarrativeMetricsCollector) RecordNarrativeRequest(status string, duration time.Duration) {
	c.requestsTotal.WithLabelValues(status).Inc()
	if duration > 0 {
		c.requestDuration.Observe(duration.Seconds())
	}
}
