package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	def := DefaultDatabaseConfig()
	if cfg.Database.Type == "" {
		cfg.Database.Type = def.Type
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = def.Path
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = def.Host
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = def.Port
	}
	if cfg.Database.User == "" {
		cfg.Database.User = def.User
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = def.Name
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = def.SSLMode
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = def.Pool.MaxOpen
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = def.Pool.MaxIdle
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = def.Pool.MaxLifetime
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Engine defaults
	if cfg.Engine.TickPeriod == 0 {
		cfg.Engine.TickPeriod = time.Second
	}
	if cfg.Engine.OfflineMinTicks == 0 {
		cfg.Engine.OfflineMinTicks = 10
	}
	if cfg.Engine.SaveInterval == 0 {
		cfg.Engine.SaveInterval = 2 * time.Second
	}
	if cfg.Engine.IdleTimeout == 0 {
		cfg.Engine.IdleTimeout = 120 * time.Second
	}
	if cfg.Engine.PlayerID == "" {
		cfg.Engine.PlayerID = "local"
	}

	// Narrative defaults
	if cfg.Narrative.Model == "" {
		cfg.Narrative.Model = "gpt-4o-mini"
	}
	if cfg.Narrative.Timeout == 0 {
		cfg.Narrative.Timeout = 15 * time.Second
	}
	if cfg.Narrative.RequestsPerMinute == 0 {
		cfg.Narrative.RequestsPerMinute = 6
	}

	// Cache defaults
	if cfg.Cache.RedisAddr == "" {
		cfg.Cache.RedisAddr = "localhost:6379"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 10 * time.Minute
	}

	// Metrics defaults
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = "localhost:9090"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Server defaults
	if cfg.Server.SocketPath == "" {
		cfg.Server.SocketPath = "/tmp/wasteland-daemon.sock"
	}

	// Daemon defaults
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/wasteland-daemon.pid"
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 10 * time.Second
	}
}
