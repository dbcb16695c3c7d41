package config

import "time"

// CacheConfig holds the snapshot read-through cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	RedisAddr string        `mapstructure:"redis_addr" validate:"required_if=Enabled true"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db" validate:"min=0"`
	TTL       time.Duration `mapstructure:"ttl" validate:"required"`
}
