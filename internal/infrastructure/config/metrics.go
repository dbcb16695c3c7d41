package config

// MetricsConfig controls the Prometheus scrape endpoint of the daemon
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Listen address of the scrape endpoint
	Addr string `mapstructure:"addr" validate:"required_if=Enabled true,omitempty,hostname_port"`

	Path string `mapstructure:"path" validate:"omitempty,startswith=/"`
}
