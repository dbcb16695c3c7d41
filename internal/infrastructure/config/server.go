package config

import "time"

// ServerConfig holds the network listeners of the daemon
type ServerConfig struct {
	// Websocket state feed and action ingress (host:port); empty disables it
	WSAddr string `mapstructure:"ws_addr"`

	// Unix socket for the gRPC game and health services used by the CLI
	SocketPath string `mapstructure:"socket_path" validate:"required"`
}

// DaemonConfig holds process-level settings of wasteland-daemon
type DaemonConfig struct {
	// Single-instance lock; reset also takes it to keep the daemon out
	PIDFile string `mapstructure:"pid_file" validate:"required"`

	// Bounds listener shutdown plus the final snapshot write
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,min=1s"`
}
