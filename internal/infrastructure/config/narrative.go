package config

import "time"

// NarrativeConfig holds the encounter text generator settings
type NarrativeConfig struct {
	// Enabled switches from the fallback encounter to the remote generator
	Enabled bool `mapstructure:"enabled"`

	APIKey  string `mapstructure:"api_key" validate:"required_if=Enabled true"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
	Model   string `mapstructure:"model" validate:"required"`

	// Per request deadline
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`

	RequestsPerMinute int `mapstructure:"requests_per_minute" validate:"min=1"`
}
