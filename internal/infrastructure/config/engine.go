package config

import "time"

// EngineConfig holds the simulation timing and wiring
type EngineConfig struct {
	// Wall time represented by one TICK
	TickPeriod time.Duration `mapstructure:"tick_period" validate:"required"`

	// Minimum elapsed ticks before offline reconciliation applies
	OfflineMinTicks int `mapstructure:"offline_min_ticks" validate:"min=0"`

	// Minimum simulated time between two snapshot saves
	SaveInterval time.Duration `mapstructure:"save_interval" validate:"required"`

	// Inactivity after which the player starts resting
	IdleTimeout time.Duration `mapstructure:"idle_timeout" validate:"required"`

	// Explore narrative chance; nil keeps the catalog value
	NarrativeChance *float64 `mapstructure:"narrative_chance" validate:"omitempty,min=0,max=1"`

	// Seed for the roller; 0 seeds from the clock
	RNGSeed uint64 `mapstructure:"rng_seed"`

	// Optional YAML override of the embedded catalog
	CatalogPath string `mapstructure:"catalog_path"`

	// Player whose snapshot the daemon drives
	PlayerID string `mapstructure:"player_id" validate:"required,max=64,playerid"`
}
